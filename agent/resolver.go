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

package agent

import (
	"context"
	"strings"
)

// Ticker provenance tags recorded as tickers_source.
const (
	SourceExplicit = "explicit"
	SourceLLM      = "llm"
	SourceProxy    = "proxy"
)

// resolution is the outcome of ticker resolution.
type resolution struct {
	tickers     []string
	source      string
	inferred    []string
	limitations []string
}

// resolveTickers turns the query plus optional explicit tickers into a
// bounded ticker set. Explicit tickers win; otherwise the LLM proposes
// symbols which are validated against the data provider; the static proxy
// basket is the ultimate fallback. Backend failures never escape, they
// become limitations.
func (a *Agent) resolveTickers(ctx context.Context, query string, explicit []string, max int) resolution {
	res := resolution{inferred: []string{}}

	tickers := make([]string, 0, len(explicit))
	for _, t := range explicit {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}

	if len(tickers) > 0 {
		if len(tickers) > max {
			res.limitations = append(res.limitations, "Too many tickers provided. Truncating to max allowed.")
			tickers = tickers[:max]
		}
		res.tickers = tickers
		res.source = SourceExplicit
		return res
	}

	if a.llm.Enabled() {
		if inferred, ok := a.inferTickers(ctx, query, max, &res); ok {
			res.tickers = inferred
			res.source = SourceLLM
			res.inferred = inferred
			return res
		}
	}

	res.tickers = append([]string(nil), proxyTickers...)
	res.source = SourceProxy
	res.limitations = append(res.limitations, "No tickers provided. Using proxy tickers.")
	return res
}

// inferTickers runs the LLM inference step and the provider validity check.
// It reports false whenever the proxy fallback should apply.
func (a *Agent) inferTickers(ctx context.Context, query string, max int, res *resolution) ([]string, bool) {
	proposed, _, err := a.llm.InferTickers(ctx, query, max)
	if err != nil {
		res.limitations = append(res.limitations, "Ticker inference failed: "+err.Error())
		return nil, false
	}

	seen := make(map[string]struct{}, len(proposed))
	var valid, invalid []string
	for _, ticker := range proposed {
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}

		info, err := a.provider.GetInfo(ctx, ticker)
		if err != nil || len(info) == 0 {
			invalid = append(invalid, ticker)
			continue
		}
		valid = append(valid, ticker)
	}

	if len(invalid) > 0 {
		res.limitations = append(res.limitations,
			"Ignoring unrecognized ticker symbols: "+strings.Join(invalid, ", "))
	}
	if len(valid) == 0 {
		return nil, false
	}
	return valid, true
}
