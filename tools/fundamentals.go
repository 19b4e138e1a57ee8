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

package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/nlpodyssey/investment-research-go/marketdata"
	"github.com/nlpodyssey/investment-research-go/schemas"
)

// allowedFundamentalsFields is the allow-list of descriptive fields the
// fundamentals tool may surface. Everything else from the provider is
// dropped.
var allowedFundamentalsFields = map[string]struct{}{
	"marketCap":     {},
	"trailingPE":    {},
	"forwardPE":     {},
	"trailingEps":   {},
	"forwardEps":    {},
	"priceToBook":   {},
	"dividendYield": {},
	"profitMargins": {},
	"beta":          {},
	"sector":        {},
	"industry":      {},
}

// FundamentalsArgs are the arguments of the fundamentals_events tool.
type FundamentalsArgs struct {
	Ticker          string   `json:"ticker"`
	Fields          []string `json:"fields,omitempty"`
	IncludeCalendar bool     `json:"include_calendar,omitempty"`
	LookbackDays    int      `json:"lookback_days,omitempty"`
}

// NewFundamentalsEventsTool builds the free fundamentals/events tool backed
// by the given provider.
func NewFundamentalsEventsTool(provider marketdata.Provider) Tool {
	return Tool{
		Name:             schemas.FundamentalsEvents,
		Handler:          fundamentalsEventsHandler(provider),
		InputSchema:      InputSchemaFor[FundamentalsArgs](),
		OutputSchemaName: schemas.FundamentalsEvents,
		Description: "Company fundamentals (valuation ratios, margins, sector) " +
			"and an upcoming-events calendar.",
		UsageExamples: []string{
			"what is the PE ratio of AAPL",
			"when does MSFT report earnings next",
		},
		BudgetPerTicker: 1,
	}
}

func fundamentalsEventsHandler(provider marketdata.Provider) Handler {
	return func(ctx context.Context, args Arguments) (any, error) {
		decoded, err := decodeArgs[FundamentalsArgs](args)
		if err != nil {
			return nil, err
		}
		return fundamentalsEvents(ctx, provider, decoded), nil
	}
}

func fundamentalsEvents(ctx context.Context, provider marketdata.Provider, args FundamentalsArgs) map[string]any {
	info, err := provider.GetInfo(ctx, args.Ticker)
	if err != nil || len(info) == 0 {
		return errorPayload("NO_DATA", args.Ticker, "invalid ticker or empty history")
	}

	flags := []any{}
	calendar := map[string]any{}
	if args.IncludeCalendar {
		calendar, err = provider.GetCalendar(ctx, args.Ticker)
		if err != nil || calendar == nil {
			calendar = map[string]any{}
			flags = append(flags, "calendar_unavailable")
		}
	}

	selected := args.Fields
	if len(selected) == 0 {
		selected = make([]string, 0, len(allowedFundamentalsFields))
		for field := range allowedFundamentalsFields {
			selected = append(selected, field)
		}
		sort.Strings(selected)
	}

	fundamentals := map[string]any{}
	for _, field := range selected {
		if _, allowed := allowedFundamentalsFields[field]; !allowed {
			continue
		}
		fundamentals[field] = info[field]
	}

	asof := ""
	if v, ok := info["regularMarketTime"]; ok && v != nil {
		asof = fmt.Sprintf("%v", v)
	}

	return map[string]any{
		"ticker":       args.Ticker,
		"asof":         asof,
		"fundamentals": fundamentals,
		"calendar":     calendar,
		"flags":        flags,
	}
}
