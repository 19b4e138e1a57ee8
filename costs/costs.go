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

// Package costs tracks token usage and USD cost of LLM-backed queries. The
// tracker is an explicitly passed accumulator owned by the process; it keeps
// an in-memory, append-only session log and never persists anything.
package costs

import (
	"math"

	"github.com/google/uuid"
)

// TokenCount is the token usage of a single request.
type TokenCount struct {
	Input  int64
	Output int64
}

func (t TokenCount) Total() int64 { return t.Input + t.Output }

// Breakdown is the USD cost of a single request.
type Breakdown struct {
	InputUSD  float64
	OutputUSD float64
}

func (b Breakdown) TotalUSD() float64 { return b.InputUSD + b.OutputUSD }

// QueryCost is the complete cost record of one query.
type QueryCost struct {
	ID       string
	Query    string
	Tickers  []string
	Period   string
	Provider string
	Model    string
	Tokens   TokenCount
	Cost     Breakdown
}

// CostPerTicker normalizes the total cost by ticker count.
func (q QueryCost) CostPerTicker() float64 {
	if len(q.Tickers) == 0 {
		return 0
	}
	return q.Cost.TotalUSD() / float64(len(q.Tickers))
}

// TokensPerTicker normalizes the token count by ticker count.
func (q QueryCost) TokensPerTicker() int64 {
	if len(q.Tickers) == 0 {
		return 0
	}
	return q.Tokens.Total() / int64(len(q.Tickers))
}

// AsMap renders the record as the cost_analysis object embedded in the
// agent's final document.
func (q QueryCost) AsMap() map[string]any {
	return map[string]any{
		"id":       q.ID,
		"query":    q.Query,
		"tickers":  q.Tickers,
		"period":   q.Period,
		"provider": q.Provider,
		"model":    q.Model,
		"tokens": map[string]any{
			"input":      q.Tokens.Input,
			"output":     q.Tokens.Output,
			"total":      q.Tokens.Total(),
			"per_ticker": q.TokensPerTicker(),
		},
		"cost": map[string]any{
			"total_usd":           roundUSD(q.Cost.TotalUSD()),
			"input_cost_usd":      roundUSD(q.Cost.InputUSD),
			"output_cost_usd":     roundUSD(q.Cost.OutputUSD),
			"cost_per_ticker_usd": roundUSD(q.CostPerTicker()),
		},
	}
}

// Tracker accumulates query cost records for one process. The execution
// model is single-threaded, so no locking is required.
type Tracker struct {
	pricing PricingTable
	queries []QueryCost
}

func NewTracker() *Tracker {
	return &Tracker{pricing: DefaultPricing()}
}

func NewTrackerWithPricing(pricing PricingTable) *Tracker {
	return &Tracker{pricing: pricing}
}

// Calculate prices the given token counts. An unknown provider costs zero;
// an unknown model falls back to the provider's default model pricing.
func (t *Tracker) Calculate(provider, model string, inputTokens, outputTokens int64) Breakdown {
	pricing, ok := t.pricing.Lookup(provider, model)
	if !ok {
		return Breakdown{}
	}
	return Breakdown{
		InputUSD:  float64(inputTokens) / 1_000_000 * pricing.InputPer1M,
		OutputUSD: float64(outputTokens) / 1_000_000 * pricing.OutputPer1M,
	}
}

// Track prices one query and appends it to the session log.
func (t *Tracker) Track(query string, tickers []string, period, provider, model string, inputTokens, outputTokens int64) QueryCost {
	record := QueryCost{
		ID:       uuid.NewString(),
		Query:    query,
		Tickers:  tickers,
		Period:   period,
		Provider: provider,
		Model:    model,
		Tokens:   TokenCount{Input: inputTokens, Output: outputTokens},
		Cost:     t.Calculate(provider, model, inputTokens, outputTokens),
	}
	t.queries = append(t.queries, record)
	return record
}

// Queries returns the session log in tracking order.
func (t *Tracker) Queries() []QueryCost {
	return t.queries
}

// Reset clears the session log.
func (t *Tracker) Reset() {
	t.queries = nil
}

// SessionSummary aggregates the session log.
func (t *Tracker) SessionSummary() map[string]any {
	if len(t.queries) == 0 {
		return map[string]any{
			"total_queries":  0,
			"total_tokens":   int64(0),
			"total_cost_usd": 0.0,
			"queries":        []any{},
		}
	}

	var totalTokens int64
	totalCost := 0.0
	records := make([]any, 0, len(t.queries))
	for _, q := range t.queries {
		totalTokens += q.Tokens.Total()
		totalCost += q.Cost.TotalUSD()
		records = append(records, q.AsMap())
	}
	n := float64(len(t.queries))

	return map[string]any{
		"total_queries":        len(t.queries),
		"total_tokens":         totalTokens,
		"total_cost_usd":       roundUSD(totalCost),
		"avg_cost_per_query":   roundUSD(totalCost / n),
		"avg_tokens_per_query": totalTokens / int64(len(t.queries)),
		"queries":              records,
	}
}

// ProviderBreakdown aggregates cost and tokens per provider and model.
func (t *Tracker) ProviderBreakdown() map[string]map[string]any {
	providers := map[string]map[string]any{}
	for _, q := range t.queries {
		entry, ok := providers[q.Provider]
		if !ok {
			entry = map[string]any{
				"queries":        0,
				"total_tokens":   int64(0),
				"total_cost_usd": 0.0,
				"models":         map[string]map[string]any{},
			}
			providers[q.Provider] = entry
		}
		entry["queries"] = entry["queries"].(int) + 1
		entry["total_tokens"] = entry["total_tokens"].(int64) + q.Tokens.Total()
		entry["total_cost_usd"] = entry["total_cost_usd"].(float64) + q.Cost.TotalUSD()

		models := entry["models"].(map[string]map[string]any)
		model, ok := models[q.Model]
		if !ok {
			model = map[string]any{"queries": 0, "cost_usd": 0.0}
			models[q.Model] = model
		}
		model["queries"] = model["queries"].(int) + 1
		model["cost_usd"] = model["cost_usd"].(float64) + q.Cost.TotalUSD()
	}

	for _, entry := range providers {
		entry["total_cost_usd"] = roundUSD(entry["total_cost_usd"].(float64))
		for _, model := range entry["models"].(map[string]map[string]any) {
			model["cost_usd"] = roundUSD(model["cost_usd"].(float64))
		}
	}
	return providers
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
