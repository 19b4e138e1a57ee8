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

import "math"

// comparisonScenarios are representative query profiles, with token counts
// matching the batch estimation heuristic for one, two, and five tickers.
var comparisonScenarios = []struct {
	name         string
	inputTokens  int64
	outputTokens int64
}{
	{name: "single_ticker", inputTokens: 800, outputTokens: 250},
	{name: "two_tickers", inputTokens: 1600, outputTokens: 350},
	{name: "five_tickers", inputTokens: 3500, outputTokens: 400},
}

// CostComparison prices the typical query profiles on the default OpenAI and
// Anthropic models side by side, keyed by profile name.
func (t *Tracker) CostComparison() map[string]any {
	comparison := map[string]any{}
	for _, s := range comparisonScenarios {
		openAI := t.Calculate("openai", defaultModels["openai"], s.inputTokens, s.outputTokens).TotalUSD()
		anthropic := t.Calculate("anthropic", defaultModels["anthropic"], s.inputTokens, s.outputTokens).TotalUSD()

		ratio := 0.0
		if openAI > 0 {
			ratio = math.Round(anthropic/openAI*100) / 100
		}

		comparison[s.name] = map[string]any{
			"tokens": map[string]any{
				"input":  s.inputTokens,
				"output": s.outputTokens,
			},
			"openai_cost_usd":          roundUSD(openAI),
			"anthropic_cost_usd":       roundUSD(anthropic),
			"anthropic_more_expensive": anthropic > openAI,
			"cost_ratio":               ratio,
		}
	}
	return comparison
}
