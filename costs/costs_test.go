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

package costs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateKnownModel(t *testing.T) {
	tracker := NewTracker()

	cost := tracker.Calculate("openai", "gpt-4o-mini", 1_000_000, 1_000_000)
	assert.InDelta(t, 0.15, cost.InputUSD, 1e-9)
	assert.InDelta(t, 0.60, cost.OutputUSD, 1e-9)
	assert.InDelta(t, 0.75, cost.TotalUSD(), 1e-9)
}

func TestCalculateUnknownModelUsesProviderDefault(t *testing.T) {
	tracker := NewTracker()

	got := tracker.Calculate("anthropic", "claude-99-experimental", 1_000_000, 0)
	want := tracker.Calculate("anthropic", "claude-3-5-sonnet-20241022", 1_000_000, 0)
	assert.Equal(t, want, got)
}

func TestCalculateUnknownProviderIsFree(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, Breakdown{}, tracker.Calculate("acme", "model-x", 1_000_000, 1_000_000))
}

func TestTrackAppendsRecords(t *testing.T) {
	tracker := NewTracker()

	record := tracker.Track("How is AAPL?", []string{"AAPL", "MSFT"}, "3mo",
		"openai", "gpt-4o-mini", 1000, 500)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, int64(1500), record.Tokens.Total())
	assert.Equal(t, int64(750), record.TokensPerTicker())

	tracker.Track("q2", []string{"SPY"}, "1mo", "openai", "gpt-4o-mini", 100, 50)
	require.Len(t, tracker.Queries(), 2)

	tracker.Reset()
	assert.Empty(t, tracker.Queries())
}

func TestQueryCostAsMap(t *testing.T) {
	tracker := NewTracker()
	record := tracker.Track("q", []string{"AAPL"}, "3mo", "openai", "gpt-4o-mini", 1000, 500)

	m := record.AsMap()
	assert.Equal(t, "q", m["query"])
	assert.Equal(t, "openai", m["provider"])

	tokens := m["tokens"].(map[string]any)
	assert.Equal(t, int64(1000), tokens["input"])
	assert.Equal(t, int64(500), tokens["output"])
	assert.Equal(t, int64(1500), tokens["total"])
	assert.Equal(t, int64(1500), tokens["per_ticker"])

	cost := m["cost"].(map[string]any)
	assert.InDelta(t, 0.00045, cost["total_usd"].(float64), 1e-9)
	assert.Equal(t, cost["total_usd"], cost["cost_per_ticker_usd"])
}

func TestPerTickerWithNoTickers(t *testing.T) {
	q := QueryCost{Tokens: TokenCount{Input: 100, Output: 100}, Cost: Breakdown{InputUSD: 1}}
	assert.Equal(t, 0.0, q.CostPerTicker())
	assert.Equal(t, int64(0), q.TokensPerTicker())
}

func TestSessionSummary(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, 0, tracker.SessionSummary()["total_queries"])

	tracker.Track("q1", []string{"AAPL"}, "3mo", "openai", "gpt-4o-mini", 1000, 500)
	tracker.Track("q2", []string{"MSFT"}, "3mo", "openai", "gpt-4o-mini", 2000, 1000)

	summary := tracker.SessionSummary()
	assert.Equal(t, 2, summary["total_queries"])
	assert.Equal(t, int64(4500), summary["total_tokens"])
	assert.Equal(t, int64(2250), summary["avg_tokens_per_query"])
	assert.Len(t, summary["queries"].([]any), 2)
}

func TestProviderBreakdown(t *testing.T) {
	tracker := NewTracker()
	tracker.Track("q1", []string{"AAPL"}, "3mo", "openai", "gpt-4o-mini", 1000, 500)
	tracker.Track("q2", []string{"MSFT"}, "3mo", "openai", "gpt-4-turbo", 1000, 500)
	tracker.Track("q3", []string{"SPY"}, "3mo", "anthropic", "claude-3-5-sonnet-20241022", 1000, 500)

	breakdown := tracker.ProviderBreakdown()
	require.Contains(t, breakdown, "openai")
	require.Contains(t, breakdown, "anthropic")

	openai := breakdown["openai"]
	assert.Equal(t, 2, openai["queries"])
	assert.Equal(t, int64(3000), openai["total_tokens"])
	models := openai["models"].(map[string]map[string]any)
	assert.Equal(t, 1, models["gpt-4o-mini"]["queries"])
	assert.Equal(t, 1, models["gpt-4-turbo"]["queries"])
}

func TestLoadPricingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	content := `
openai:
  gpt-4o-mini:
    input_per_1m: 1.0
    output_per_1m: 2.0
acme:
  model-x:
    input_per_1m: 5.0
    output_per_1m: 10.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadPricingFile(path)
	require.NoError(t, err)

	// Override applies.
	pricing, ok := table.Lookup("openai", "gpt-4o-mini")
	require.True(t, ok)
	assert.Equal(t, 1.0, pricing.InputPer1M)

	// Defaults not named in the file survive.
	_, ok = table.Lookup("anthropic", "claude-3-5-sonnet-20241022")
	assert.True(t, ok)

	// New providers merge in.
	pricing, ok = table.Lookup("acme", "model-x")
	require.True(t, ok)
	assert.Equal(t, 10.0, pricing.OutputPer1M)
}

func TestLoadPricingFileMissing(t *testing.T) {
	_, err := LoadPricingFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEstimateBatch(t *testing.T) {
	report := EstimateBatch([]BatchCase{
		{Query: "q1", Tickers: []string{"AAPL"}},
		{Query: "q2", Tickers: []string{"AAPL", "MSFT", "NVDA"}, Period: "6mo"},
	}, "openai", "")

	assert.Equal(t, 2, report["total_queries"])
	assert.Equal(t, "gpt-4o-mini", report["model"], "empty model falls back to provider default")
	// Case 1: 800+250, case 2: 1600+350 tokens.
	assert.Equal(t, int64(3000), report["total_tokens"])
	assert.Equal(t, int64(1500), report["avg_tokens_per_query"])
	assert.Greater(t, report["total_cost_usd"].(float64), 0.0)
}

func TestEstimateBatchEmpty(t *testing.T) {
	report := EstimateBatch(nil, "openai", "gpt-4o-mini")
	assert.Equal(t, 0, report["total_queries"])
	assert.Equal(t, 0.0, report["avg_cost_per_query"])
}
