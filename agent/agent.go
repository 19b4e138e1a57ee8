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

// Package agent implements the research agent's request-orchestration loop:
// ticker resolution, tool-call budgeting, schema-validated tool invocation
// with bounded retry, LLM-driven routing with a deterministic fallback, and
// fail-closed assembly of the final JSON document.
package agent

import (
	"os"

	"github.com/nlpodyssey/investment-research-go/costs"
	"github.com/nlpodyssey/investment-research-go/llm"
	"github.com/nlpodyssey/investment-research-go/marketdata"
	"github.com/nlpodyssey/investment-research-go/mocks"
	"github.com/nlpodyssey/investment-research-go/tools"
)

// Disclaimer is the fixed research-disclaimer string carried by every
// document the agent returns.
const Disclaimer = "Research summary, not financial advice."

const (
	// MaxToolCalls is the hard ceiling on tool invocations per request. It
	// is the system's core backpressure mechanism; no other rate limiting
	// exists.
	MaxToolCalls = 6

	// MaxTickers is the most tickers one request may carry.
	MaxTickers = 5

	// DefaultPeriod substitutes for any period outside the allow-list.
	DefaultPeriod = "3mo"
)

var allowedPeriods = map[string]struct{}{
	"1mo": {}, "3mo": {}, "6mo": {}, "1y": {},
}

// proxyTickers is the broad-market/bond/gold reference basket used when no
// tickers can be resolved.
var proxyTickers = []string{"SPY", "QQQ", "TLT", "GLD"}

// Config configures a research agent.
type Config struct {
	// Offline serves every tool from embedded fixtures and disables the LLM.
	Offline bool

	// UseLLM enables LLM-driven routing, ticker inference and summary
	// override. Ignored when Offline.
	UseLLM bool

	// TrackCosts attaches a cost record to the output when the LLM step
	// reports token usage. Ignored unless the LLM is in use.
	TrackCosts bool

	// Tools optionally restricts (and extends, for paid tools) the registry
	// to the named subset. Unknown names fail construction. Nil selects the
	// default registry: all free tools.
	Tools []string

	// Provider is the upstream market-data backend. Defaults to the Yahoo
	// provider. Unused in offline mode.
	Provider marketdata.Provider

	// LLM overrides the backend-selecting default client.
	LLM *llm.Client

	// Costs is the cost accumulator to append to. Defaults to a fresh
	// tracker owned by the agent.
	Costs *costs.Tracker

	// NewsAPIKey enables the live backend of the paid sentiment tool.
	// Defaults to the NEWS_API_KEY environment variable.
	NewsAPIKey string
}

// Agent answers investment-research queries. Build one with New and reuse
// it; the registry is immutable after construction and each Run owns its
// own per-request state.
type Agent struct {
	offline    bool
	useLLM     bool
	trackCosts bool

	provider marketdata.Provider
	llm      *llm.Client
	costs    *costs.Tracker
	registry *tools.Registry
}

// New builds an agent. It fails only on invalid tool selection or on an
// invalid tool specification; both are construction-time user errors.
func New(cfg Config) (*Agent, error) {
	a := &Agent{
		offline:  cfg.Offline,
		useLLM:   cfg.UseLLM && !cfg.Offline,
		provider: cfg.Provider,
	}
	if a.provider == nil {
		a.provider = marketdata.NewYahooProvider()
	}

	if a.useLLM {
		a.llm = cfg.LLM
		if a.llm == nil {
			a.llm = llm.New()
		}
	}
	a.trackCosts = cfg.TrackCosts && a.useLLM
	if a.trackCosts {
		a.costs = cfg.Costs
		if a.costs == nil {
			a.costs = costs.NewTracker()
		}
	}

	catalog, err := a.buildCatalog(cfg)
	if err != nil {
		return nil, err
	}
	registry, err := selectRegistry(catalog, cfg.Tools)
	if err != nil {
		return nil, err
	}
	a.registry = registry
	return a, nil
}

// buildCatalog registers every known tool, wiring offline handlers when
// requested.
func (a *Agent) buildCatalog(cfg Config) (*tools.Registry, error) {
	newsAPIKey := cfg.NewsAPIKey
	if newsAPIKey == "" && !cfg.Offline {
		newsAPIKey = os.Getenv("NEWS_API_KEY")
	}

	catalog := tools.NewRegistry()
	all := []tools.Tool{
		tools.NewMarketSnapshotTool(a.provider),
		tools.NewFundamentalsEventsTool(a.provider),
		tools.NewSentimentAnalysisTool(tools.SentimentConfig{NewsAPIKey: newsAPIKey}),
	}
	for _, tool := range all {
		if a.offline {
			if handler, ok := mocks.Handler(tool.Name); ok {
				tool.Handler = handler
			}
		}
		if err := catalog.Register(tool); err != nil {
			return nil, UserError(err)
		}
	}
	return catalog, nil
}

// selectRegistry narrows the catalog to the caller's selection, or to the
// free tools when no selection is given. Paid tools join only by explicit
// request, which also keeps them out of the deterministic cross-product
// fallback plan.
func selectRegistry(catalog *tools.Registry, selection []string) (*tools.Registry, error) {
	if selection != nil {
		filtered, err := catalog.Filtered(selection)
		if err != nil {
			return nil, UserError(err)
		}
		return filtered, nil
	}

	var freeNames []string
	for _, name := range catalog.Names() {
		if tool, ok := catalog.Get(name); ok && !tool.IsPaid {
			freeNames = append(freeNames, name)
		}
	}
	return catalog.Filtered(freeNames)
}

// Registry exposes the agent's active tool catalog.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// Costs exposes the agent's cost accumulator, nil unless cost tracking is
// enabled.
func (a *Agent) Costs() *costs.Tracker {
	return a.costs
}
