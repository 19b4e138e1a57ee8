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

// plannedCall is one (tool, ticker) pair scheduled for execution.
type plannedCall struct {
	tool   string
	ticker string
}

// planCalls decides which tools to call for which tickers. It first applies
// the budget guard: with the default two-tool registry, more than
// MaxToolCalls/2 tickers cannot all receive the full tool set, so the ticker
// list is truncated up front with a limitation. The LLM then proposes
// assignments; when it is disabled, fails, or proposes nothing usable, the
// plan degrades to the deterministic cross-product of tickers and registered
// tools. Paid tools can only appear here if they were explicitly selected
// into the registry.
func (a *Agent) planCalls(ctx context.Context, query string, rc *runContext) []plannedCall {
	tickers := rc.tickers
	if guard := MaxToolCalls / 2; len(tickers) > guard {
		tickers = tickers[:guard]
		rc.noteBudgetExceeded()
	}

	if a.llm.Enabled() {
		if plan, ok := a.planWithLLM(ctx, query, tickers, rc); ok {
			return plan
		}
	}
	return crossProductPlan(tickers, a.registry.Names())
}

// planWithLLM asks the model for tool assignments and sanitizes them:
// assignments naming unregistered tools are dropped with a limitation, and
// tickers outside the resolved set are ignored. An empty sanitized plan
// reports false so the caller falls back to the cross-product.
func (a *Agent) planWithLLM(ctx context.Context, query string, tickers []string, rc *runContext) ([]plannedCall, bool) {
	assignments, _, err := a.llm.DecideTools(ctx, query, tickers, a.registry.PromptDescription())
	if err != nil {
		rc.limitations = append(rc.limitations, "Tool planning failed: "+err.Error())
		return nil, false
	}

	allowed := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		allowed[t] = struct{}{}
	}

	var plan []plannedCall
	var unknown []string
	for _, assignment := range assignments {
		if _, ok := a.registry.Get(assignment.Tool); !ok {
			unknown = append(unknown, assignment.Tool)
			continue
		}
		for _, ticker := range assignment.Tickers {
			ticker = strings.ToUpper(strings.TrimSpace(ticker))
			if _, ok := allowed[ticker]; !ok {
				continue
			}
			plan = append(plan, plannedCall{tool: assignment.Tool, ticker: ticker})
		}
	}

	if len(unknown) > 0 {
		rc.limitations = append(rc.limitations,
			"Planner proposed unknown tools, ignoring: "+strings.Join(unknown, ", "))
	}
	if len(plan) == 0 {
		return nil, false
	}
	return plan, true
}

// crossProductPlan pairs every ticker with every registered tool, tickers
// outer so each ticker gets its first tool before any ticker gets a second.
// Tool order is the registry's sorted name order.
func crossProductPlan(tickers, toolNames []string) []plannedCall {
	plan := make([]plannedCall, 0, len(tickers)*len(toolNames))
	for _, ticker := range tickers {
		for _, name := range toolNames {
			plan = append(plan, plannedCall{tool: name, ticker: ticker})
		}
	}
	return plan
}
