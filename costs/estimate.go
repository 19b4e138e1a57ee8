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

// BatchCase is one query of a batch cost estimation.
type BatchCase struct {
	Query   string
	Tickers []string
	Period  string
}

// EstimateBatch prices a batch of queries without running them, using a
// token heuristic calibrated on observed usage: a base of 800 input and 250
// output tokens plus 400/50 per additional ticker.
func EstimateBatch(cases []BatchCase, provider, model string) map[string]any {
	if model == "" {
		model = defaultModels[provider]
	}

	tracker := NewTracker()
	var totalTokens int64
	totalCost := 0.0

	for _, c := range cases {
		numTickers := len(c.Tickers)
		if numTickers == 0 {
			numTickers = 1
		}
		period := c.Period
		if period == "" {
			period = "3mo"
		}
		estimatedInput := int64(800 + (numTickers-1)*400)
		estimatedOutput := int64(250 + (numTickers-1)*50)

		record := tracker.Track(c.Query, c.Tickers, period, provider, model, estimatedInput, estimatedOutput)
		totalTokens += record.Tokens.Total()
		totalCost += record.Cost.TotalUSD()
	}

	avgCost, avgTokens := 0.0, int64(0)
	if len(cases) > 0 {
		avgCost = totalCost / float64(len(cases))
		avgTokens = totalTokens / int64(len(cases))
	}

	return map[string]any{
		"total_queries":        len(cases),
		"total_cost_usd":       roundUSD(totalCost),
		"total_tokens":         totalTokens,
		"avg_cost_per_query":   roundUSD(avgCost),
		"avg_tokens_per_query": avgTokens,
		"provider":             provider,
		"model":                model,
	}
}
