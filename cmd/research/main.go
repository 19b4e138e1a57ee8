// Copyright 2026 The NLP Odyssey Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command research answers an investment-research query and prints exactly
// one JSON document to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/nlpodyssey/investment-research-go/agent"
	"github.com/nlpodyssey/investment-research-go/tools"
)

type cli struct {
	Query      string   `required:"" help:"Research query, e.g. \"How is AAPL doing?\"."`
	Tickers    []string `help:"Explicit ticker symbols (comma separated). When omitted, tickers are inferred or the proxy basket is used."`
	Period     string   `default:"3mo" help:"History period: 1mo, 3mo, 6mo or 1y."`
	Offline    bool     `help:"Serve tools from embedded fixtures; no network, no LLM."`
	UseLLM     bool     `name:"use-llm" help:"Enable LLM routing, ticker inference and summary override."`
	ReportCost bool     `name:"report-cost" help:"Include cost_analysis in the output (requires --use-llm)."`
	Tools      []string `help:"${tools_help}"`
	Verbose    bool     `help:"Enable debug logging on stderr."`
}

func main() {
	_ = godotenv.Load()

	var args cli
	kong.Parse(&args,
		kong.Name("research"),
		kong.Description("Investment research agent."),
		kong.Vars{"tools_help": toolsHelp()},
	)

	if args.Verbose {
		agent.EnableVerboseLogging()
	}

	var selection []string
	if len(args.Tools) > 0 {
		selection = args.Tools
	}

	a, err := agent.New(agent.Config{
		Offline:    args.Offline,
		UseLLM:     args.UseLLM,
		TrackCosts: args.ReportCost,
		Tools:      selection,
	})
	if err != nil {
		// Construction errors (e.g. unknown tool selection) are reported as
		// a JSON error document on stdout, matching the output contract.
		printJSON(map[string]any{"error": err.Error()})
		return
	}

	output, err := a.Run(context.Background(), args.Query, args.Tickers, args.Period)
	if err != nil {
		printJSON(map[string]any{"error": err.Error()})
		return
	}

	if !args.ReportCost {
		output["cost_analysis"] = nil
	}
	printJSON(output)
}

// toolsHelp lists every known tool with its pricing for the --tools flag.
func toolsHelp() string {
	catalog := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.NewMarketSnapshotTool(nil),
		tools.NewFundamentalsEventsTool(nil),
		tools.NewSentimentAnalysisTool(tools.SentimentConfig{}),
	} {
		_ = catalog.Register(tool)
	}

	meta := catalog.Metadata()
	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, 0, len(names))
	for _, name := range names {
		m := meta[name]
		if m.IsPaid {
			entries = append(entries, fmt.Sprintf("%s [PAID $%.2f/call]", name, m.PricePerCall))
		} else {
			entries = append(entries, name+" [FREE]")
		}
	}
	return "Tool subset to enable: " + strings.Join(entries, ", ") +
		". Paid tools run only when named here."
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
