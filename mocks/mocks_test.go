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

package mocks

import (
	"context"
	"strings"
	"testing"

	"github.com/nlpodyssey/investment-research-go/schemas"
	"github.com/nlpodyssey/investment-research-go/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketSnapshotFixture(t *testing.T) {
	out, err := MarketSnapshot(context.Background(), tools.Arguments{"ticker": "aapl", "period": "3mo"})
	require.NoError(t, err)
	require.NoError(t, schemas.Validate(schemas.MarketSnapshot, out))

	payload := out.(map[string]any)
	assert.Equal(t, "AAPL", payload["ticker"])
	assert.Equal(t, "3mo", payload["period"])
}

func TestMarketSnapshotFixtureMiss(t *testing.T) {
	out, err := MarketSnapshot(context.Background(), tools.Arguments{"ticker": "ZZZZ", "period": "3mo"})
	require.NoError(t, err)
	require.NoError(t, schemas.Validate(schemas.MarketSnapshot, out))

	payload := out.(map[string]any)
	assert.Equal(t, "NO_DATA", payload["error"])
	assert.Equal(t, "mock not found", payload["reason"])
}

func TestFundamentalsEventsFixture(t *testing.T) {
	out, err := FundamentalsEvents(context.Background(), tools.Arguments{"ticker": "MSFT"})
	require.NoError(t, err)
	require.NoError(t, schemas.Validate(schemas.FundamentalsEvents, out))
	assert.Equal(t, "MSFT", out.(map[string]any)["ticker"])
}

// Every embedded fixture must satisfy its schema; offline runs depend on it.
func TestAllFixturesAreSchemaValid(t *testing.T) {
	entries, err := fixtures.ReadDir("data")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		payload, ok := load(entry.Name())
		require.True(t, ok, entry.Name())

		schemaName := schemas.FundamentalsEvents
		if strings.HasPrefix(entry.Name(), "market_snapshot") {
			schemaName = schemas.MarketSnapshot
		}
		assert.NoError(t, schemas.Validate(schemaName, payload), entry.Name())
	}
}

func TestHandlerLookup(t *testing.T) {
	_, ok := Handler(schemas.MarketSnapshot)
	assert.True(t, ok)
	_, ok = Handler(schemas.FundamentalsEvents)
	assert.True(t, ok)
	_, ok = Handler(schemas.SentimentAnalysis)
	assert.False(t, ok, "the sentiment tool carries its own offline table")
	_, ok = Handler("no_such_tool")
	assert.False(t, ok)
}

// The proxy basket and the multi-period cases of the offline eval harness
// must have fixtures for every ticker they touch.
func TestRequiredFixturesPresent(t *testing.T) {
	for _, ticker := range []string{"SPY", "QQQ", "TLT", "GLD", "AAPL", "MSFT"} {
		out, err := FundamentalsEvents(context.Background(), tools.Arguments{"ticker": ticker})
		require.NoError(t, err)
		assert.NotContains(t, out.(map[string]any), "error", ticker)

		out, err = MarketSnapshot(context.Background(), tools.Arguments{"ticker": ticker, "period": "3mo"})
		require.NoError(t, err)
		assert.NotContains(t, out.(map[string]any), "error", ticker)
	}
	for _, period := range []string{"1mo", "3mo", "6mo", "1y"} {
		out, err := MarketSnapshot(context.Background(), tools.Arguments{"ticker": "AAPL", "period": period})
		require.NoError(t, err)
		assert.NotContains(t, out.(map[string]any), "error", period)
	}
}
