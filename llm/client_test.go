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

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend replays canned responses and records prompts.
type fakeBackend struct {
	response string
	usage    TokenUsage
	err      error
	prompts  []string
}

func (b *fakeBackend) Provider() string { return "fake" }
func (b *fakeBackend) Model() string    { return "fake-model" }

func (b *fakeBackend) GenerateJSON(_ context.Context, prompt string, _ int64) (string, TokenUsage, error) {
	b.prompts = append(b.prompts, prompt)
	return b.response, b.usage, b.err
}

func TestDisabledClient(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Enabled())

	c := NewWithBackend(nil)
	assert.False(t, c.Enabled())
	assert.Equal(t, "", c.Provider())
	assert.Equal(t, "", c.Model())

	_, _, err := c.InferTickers(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrDisabled)
	_, _, err = c.DecideTools(context.Background(), "q", nil, "")
	assert.ErrorIs(t, err, ErrDisabled)
	_, _, err = c.GenerateSummary(context.Background(), "q", nil, nil)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestInferTickers(t *testing.T) {
	backend := &fakeBackend{
		response: `{"tickers": [" aapl", "MSFT", "", "nvda", "GOOG", "AMZN", "TSLA"]}`,
		usage:    TokenUsage{InputTokens: 50, OutputTokens: 10, TotalTokens: 60},
	}
	c := NewWithBackend(backend)

	tickers, usage, err := c.InferTickers(context.Background(), "big tech stocks", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA", "GOOG", "AMZN"}, tickers,
		"trimmed, upper-cased, empties dropped, capped at max")
	assert.Equal(t, int64(60), usage.TotalTokens)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "big tech stocks")
}

func TestInferTickersBareArray(t *testing.T) {
	c := NewWithBackend(&fakeBackend{response: `["aapl", "msft"]`})
	tickers, _, err := c.InferTickers(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestInferTickersMarkdownFence(t *testing.T) {
	c := NewWithBackend(&fakeBackend{response: "```json\n{\"tickers\": [\"AAPL\"]}\n```"})
	tickers, _, err := c.InferTickers(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, tickers)
}

func TestInferTickersMalformedResponse(t *testing.T) {
	c := NewWithBackend(&fakeBackend{response: `I think you mean Apple.`})
	_, _, err := c.InferTickers(context.Background(), "q", 5)
	require.Error(t, err)
}

func TestInferTickersBackendError(t *testing.T) {
	c := NewWithBackend(&fakeBackend{err: errors.New("rate limited")})
	_, _, err := c.InferTickers(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDecideTools(t *testing.T) {
	backend := &fakeBackend{
		response: `{"tools": [
			{"tool": "market_snapshot", "tickers": ["AAPL", "MSFT"]},
			{"tool": "fundamentals_events", "tickers": ["AAPL"]}
		]}`,
	}
	c := NewWithBackend(backend)

	assignments, _, err := c.DecideTools(context.Background(), "compare", []string{"AAPL", "MSFT"}, "- market_snapshot: ...")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, ToolAssignment{Tool: "market_snapshot", Tickers: []string{"AAPL", "MSFT"}}, assignments[0])
	assert.Contains(t, backend.prompts[0], "- market_snapshot: ...")
	assert.Contains(t, backend.prompts[0], "AAPL, MSFT")
}

func TestGenerateSummary(t *testing.T) {
	backend := &fakeBackend{
		response: `{"thesis_bullets": ["AAPL looks strong"], "risks": ["Valuation is rich"]}`,
		usage:    TokenUsage{InputTokens: 900, OutputTokens: 80, TotalTokens: 980},
	}
	c := NewWithBackend(backend)

	summary, usage, err := c.GenerateSummary(context.Background(), "How is AAPL?",
		[]string{"AAPL"}, map[string]any{"market_snapshot": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL looks strong"}, summary.ThesisBullets)
	assert.Equal(t, []string{"Valuation is rich"}, summary.Risks)
	assert.Equal(t, int64(980), usage.TotalTokens)
	assert.Contains(t, backend.prompts[0], "market_snapshot")
}

func TestUnmarshalResponseFenceVariants(t *testing.T) {
	var out map[string]any

	require.NoError(t, unmarshalResponse("{\"a\": 1}", &out))
	require.NoError(t, unmarshalResponse("```json\n{\"a\": 1}\n```", &out))
	require.NoError(t, unmarshalResponse("```\n{\"a\": 1}\n```", &out))
	require.Error(t, unmarshalResponse("not json", &out))
}
