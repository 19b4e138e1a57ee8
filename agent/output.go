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

import "fmt"

// assembleOutput builds the final document from the request state. The
// cost_analysis key is always present, null unless cost tracking recorded a
// charge.
func (rc *runContext) assembleOutput(summary map[string]any) map[string]any {
	out := map[string]any{
		"query":            rc.query,
		"tickers":          rc.tickers,
		"summary":          summary,
		"tickers_source":   rc.source,
		"tickers_inferred": rc.inferred,
		"fundamentals":     rc.fundamentals,
		"tool_returns":     rc.toolReturns,
		"data_used":        rc.dataUsed,
		"tool_calls":       rc.toolCalls,
		"limitations":      rc.limitations,
		"disclaimer":       Disclaimer,
		"cost_analysis":    nil,
	}
	if rc.costAnalysis != nil {
		out["cost_analysis"] = rc.costAnalysis
	}
	return out
}

// safeOutput is the minimal document substituted when the assembled output
// fails its own schema check. It preserves the query and ticker provenance,
// drops everything the validator might object to, and records the violation
// as a limitation.
func (rc *runContext) safeOutput(cause error) map[string]any {
	return map[string]any{
		"query":   rc.query,
		"tickers": rc.tickers,
		"summary": map[string]any{
			"thesis_bullets": []string{},
			"risks":          []string{},
		},
		"tickers_source":   rc.source,
		"tickers_inferred": rc.inferred,
		"fundamentals":     map[string]any{},
		"tool_returns":     map[string]any{},
		"data_used":        []string{},
		"tool_calls":       []map[string]any{},
		"limitations":      []string{fmt.Sprintf("Final output invalid: %s", cause)},
		"disclaimer":       Disclaimer,
		"cost_analysis":    nil,
	}
}
