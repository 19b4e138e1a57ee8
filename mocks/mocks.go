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

// Package mocks serves canned tool payloads for offline mode. Fixtures are
// embedded in the binary and looked up by ticker (and period for
// snapshots); a missing fixture yields the tool's NO_DATA error shape.
package mocks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nlpodyssey/investment-research-go/schemas"
	"github.com/nlpodyssey/investment-research-go/tools"
)

//go:embed data/*.json
var fixtures embed.FS

func load(name string) (map[string]any, bool) {
	b, err := fixtures.ReadFile("data/" + name)
	if err != nil {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// MarketSnapshot serves market_snapshot fixtures named
// market_snapshot_<TICKER>_<period>.json.
func MarketSnapshot(ctx context.Context, args tools.Arguments) (any, error) {
	ticker, _ := args["ticker"].(string)
	period, _ := args["period"].(string)
	name := fmt.Sprintf("market_snapshot_%s_%s.json", strings.ToUpper(ticker), period)
	payload, ok := load(name)
	if !ok {
		return map[string]any{"error": "NO_DATA", "ticker": ticker, "reason": "mock not found"}, nil
	}
	return payload, nil
}

// FundamentalsEvents serves fundamentals_events fixtures named
// fundamentals_events_<TICKER>.json.
func FundamentalsEvents(ctx context.Context, args tools.Arguments) (any, error) {
	ticker, _ := args["ticker"].(string)
	name := fmt.Sprintf("fundamentals_events_%s.json", strings.ToUpper(ticker))
	payload, ok := load(name)
	if !ok {
		return map[string]any{"error": "NO_DATA", "ticker": ticker, "reason": "mock not found"}, nil
	}
	return payload, nil
}

// Handler returns the offline handler for the named tool. Tools without an
// offline fixture table (the sentiment tool carries its own) report false.
func Handler(name string) (tools.Handler, bool) {
	switch name {
	case schemas.MarketSnapshot:
		return MarketSnapshot, true
	case schemas.FundamentalsEvents:
		return FundamentalsEvents, true
	}
	return nil, false
}
