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

// Command costreport prints LLM cost estimates without running any queries:
// a provider price comparison, a batch estimate, or a monthly projection.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/nlpodyssey/investment-research-go/costs"
)

// sampleTickers seeds the generated batch queries.
var sampleTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}

type compareCmd struct{}

func (c *compareCmd) Run() error {
	printJSON(costs.NewTracker().CostComparison())
	return nil
}

type batchCmd struct {
	NumQueries int    `default:"10" help:"Number of queries to estimate."`
	NumTickers int    `default:"2" help:"Tickers per query."`
	Provider   string `default:"openai" enum:"openai,anthropic" help:"Provider to price against."`
}

func (c *batchCmd) Run() error {
	cases := make([]costs.BatchCase, 0, c.NumQueries)
	for i := 0; i < c.NumQueries; i++ {
		tickers := make([]string, 0, c.NumTickers)
		for j := 0; j < c.NumTickers; j++ {
			tickers = append(tickers, sampleTickers[(i+j)%len(sampleTickers)])
		}
		cases = append(cases, costs.BatchCase{
			Query:   "Analyze " + strings.Join(tickers, ", "),
			Tickers: tickers,
			Period:  "3mo",
		})
	}
	printJSON(costs.EstimateBatch(cases, c.Provider, ""))
	return nil
}

type monthlyCmd struct {
	QueriesPerDay int    `default:"20" help:"Expected queries per day."`
	Provider      string `default:"openai" enum:"openai,anthropic" help:"Provider to price against."`
}

func (c *monthlyCmd) Run() error {
	estimate := costs.EstimateBatch([]costs.BatchCase{
		{Query: "Analyze AAPL", Tickers: []string{"AAPL"}, Period: "3mo"},
	}, c.Provider, "")
	perQuery := estimate["avg_cost_per_query"].(float64)
	daily := perQuery * float64(c.QueriesPerDay)

	printJSON(map[string]any{
		"provider":           c.Provider,
		"model":              estimate["model"],
		"queries_per_day":    c.QueriesPerDay,
		"cost_per_query_usd": roundUSD(perQuery),
		"daily_cost_usd":     roundUSD(daily),
		"monthly_cost_usd":   roundUSD(daily * 30),
		"yearly_cost_usd":    roundUSD(daily * 365),
	})
	return nil
}

type cli struct {
	Compare compareCmd `cmd:"" help:"Compare typical query costs across providers."`
	Batch   batchCmd   `cmd:"" help:"Estimate the cost of a batch of queries."`
	Monthly monthlyCmd `cmd:"" help:"Project monthly and yearly cost from a daily query rate."`
}

func main() {
	var args cli
	ctx := kong.Parse(&args,
		kong.Name("costreport"),
		kong.Description("LLM cost estimates for the research agent."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
