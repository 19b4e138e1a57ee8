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

// Package eval scores the agent against canned offline cases. Runs are
// fully deterministic: every case executes offline against embedded
// fixtures, so the harness needs no network and no API keys.
package eval

import (
	"context"
	"fmt"

	"github.com/nlpodyssey/investment-research-go/agent"
	"github.com/nlpodyssey/investment-research-go/schemas"
)

// Case is one scored scenario.
type Case struct {
	Name    string
	Query   string
	Tickers []string
	Period  string
}

// DefaultCases covers explicit single- and multi-ticker queries across the
// supported periods plus the proxy-basket fallback.
func DefaultCases() []Case {
	return []Case{
		{
			Name:    "single ticker, default period",
			Query:   "How is Apple doing?",
			Tickers: []string{"AAPL"},
			Period:  "3mo",
		},
		{
			Name:    "two tickers, half year",
			Query:   "Compare Apple and Microsoft",
			Tickers: []string{"AAPL", "MSFT"},
			Period:  "6mo",
		},
		{
			Name:    "single ticker, one year",
			Query:   "Apple over the last year",
			Tickers: []string{"AAPL"},
			Period:  "1y",
		},
		{
			Name:    "no tickers, proxy basket",
			Query:   "How are markets doing?",
			Tickers: nil,
			Period:  "3mo",
		},
	}
}

// CaseResult is the scored outcome of one case.
type CaseResult struct {
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Failures []string `json:"failures,omitempty"`
}

// Report aggregates all case results.
type Report struct {
	Score    int          `json:"score"`
	MaxScore int          `json:"max_score"`
	Results  []CaseResult `json:"results"`
}

// pointsPerCase: 2 for a schema-valid document, 1 for respecting the
// tool-call ceiling, 1 for the exact disclaimer.
const pointsPerCase = 4

// Run executes the default cases against a fresh offline agent.
func Run(ctx context.Context) (Report, error) {
	a, err := agent.New(agent.Config{Offline: true})
	if err != nil {
		return Report{}, err
	}
	return RunCases(ctx, a, DefaultCases())
}

// RunCases scores the given agent against the given cases.
func RunCases(ctx context.Context, a *agent.Agent, cases []Case) (Report, error) {
	report := Report{MaxScore: len(cases) * pointsPerCase}

	for _, c := range cases {
		output, err := a.Run(ctx, c.Query, c.Tickers, c.Period)
		if err != nil {
			return report, fmt.Errorf("eval: case %q: %w", c.Name, err)
		}
		result := scoreCase(c, output)
		report.Score += result.Score
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func scoreCase(c Case, output map[string]any) CaseResult {
	result := CaseResult{Name: c.Name, MaxScore: pointsPerCase}

	if err := schemas.Validate(schemas.FinalOutput, output); err == nil {
		result.Score += 2
	} else {
		result.Failures = append(result.Failures, fmt.Sprintf("schema: %v", err))
	}

	if calls, ok := output["tool_calls"].([]map[string]any); ok && len(calls) <= agent.MaxToolCalls {
		result.Score++
	} else {
		result.Failures = append(result.Failures, "tool_calls exceed ceiling or missing")
	}

	if disclaimer, _ := output["disclaimer"].(string); disclaimer == agent.Disclaimer {
		result.Score++
	} else {
		result.Failures = append(result.Failures, "disclaimer mismatch")
	}
	return result
}
