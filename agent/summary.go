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
	"fmt"
)

// Risk thresholds for the deterministic summarizer.
const (
	highVolatilityPct = 40.0
	largeDrawdownPct  = -20.0
)

// summarize builds the summary object. The deterministic path always runs
// first so a summary exists even when every backend is down; when the LLM is
// enabled and produces non-empty thesis bullets, its summary replaces the
// deterministic one wholesale (never merged). LLM failures downgrade to a
// limitation.
func (a *Agent) summarize(ctx context.Context, query string, rc *runContext) map[string]any {
	thesis, risks := rc.deterministicSummary()

	if a.llm.Enabled() {
		generated, usage, err := a.llm.GenerateSummary(ctx, query, rc.tickers, rc.toolReturns)
		switch {
		case err != nil:
			rc.limitations = append(rc.limitations, fmt.Sprintf("LLM error: %v", err))
		case len(generated.ThesisBullets) > 0:
			thesis = generated.ThesisBullets
			risks = generated.Risks
			if risks == nil {
				risks = []string{}
			}
		}
		if a.trackCosts && usage.TotalTokens > 0 {
			record := a.costs.Track(query, rc.tickers, rc.period,
				a.llm.Provider(), a.llm.Model(), usage.InputTokens, usage.OutputTokens)
			rc.costAnalysis = record.AsMap()
		}
	} else if a.useLLM {
		rc.limitations = append(rc.limitations, "LLM disabled: missing API key or client unavailable.")
	}

	return map[string]any{
		"thesis_bullets": thesis,
		"risks":          risks,
	}
}

// deterministicSummary derives thesis bullets and risks from the collected
// market snapshots, one bullet per ticker in resolution order.
func (rc *runContext) deterministicSummary() (thesis, risks []string) {
	thesis = []string{}
	risks = []string{}
	dataMissing := false

	for _, ticker := range rc.tickers {
		snapshot, ok := rc.snapshots[ticker]
		if !ok || isErrorPayload(snapshot) {
			thesis = append(thesis, fmt.Sprintf("%s: snapshot unavailable", ticker))
			dataMissing = true
			continue
		}

		trendLabel := stringAt(snapshot, "trend", "trend_label")
		returnPct := numberAt(snapshot, "prices", "return_pct")
		period, _ := snapshot["period"].(string)
		thesis = append(thesis, fmt.Sprintf("%s: %s trend, return %.2f%% over %s",
			ticker, trendLabel, returnPct, period))

		drawdown := numberAt(snapshot, "prices", "max_drawdown_pct")
		volatility := numberAt(snapshot, "risk", "volatility_ann_pct")
		switch {
		case drawdown <= largeDrawdownPct:
			risks = append(risks, fmt.Sprintf("%s: large drawdown (%.1f%%)", ticker, drawdown))
		case volatility >= highVolatilityPct:
			risks = append(risks, fmt.Sprintf("%s: high volatility (%.1f%%)", ticker, volatility))
		}
	}

	if dataMissing {
		risks = append(risks, "Data unavailable")
	}
	return thesis, risks
}

func stringAt(payload map[string]any, section, key string) string {
	if m, ok := payload[section].(map[string]any); ok {
		if s, ok := m[key].(string); ok {
			return s
		}
	}
	return "unknown"
}

func numberAt(payload map[string]any, section, key string) float64 {
	if m, ok := payload[section].(map[string]any); ok {
		if f, ok := m[key].(float64); ok {
			return f
		}
	}
	return 0
}
