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

	"github.com/google/uuid"
	"github.com/nlpodyssey/investment-research-go/schemas"
	"github.com/nlpodyssey/investment-research-go/tools"
)

// runContext is the per-request state. Every Run owns a fresh one, so a
// single Agent can be reused across requests.
type runContext struct {
	id     uuid.UUID
	query  string
	period string

	tickers  []string
	source   string
	inferred []string

	limitations []string
	toolCalls   []map[string]any
	dataUsed    []string
	callCount   int
	budgetNoted bool

	snapshots    map[string]map[string]any
	fundamentals map[string]any
	toolReturns  map[string]any

	costAnalysis map[string]any
}

func newRunContext(query, period string) *runContext {
	return &runContext{
		id:           uuid.New(),
		query:        query,
		period:       period,
		limitations:  []string{},
		toolCalls:    []map[string]any{},
		dataUsed:     []string{},
		snapshots:    map[string]map[string]any{},
		fundamentals: map[string]any{},
		toolReturns:  map[string]any{},
	}
}

// Run answers one research query. It always returns a document conforming to
// the final-output schema: every backend failure along the way degrades into
// limitations, and a document that somehow fails its own schema check is
// replaced by a minimal safe one. The error return is reserved for context
// cancellation.
func (a *Agent) Run(ctx context.Context, query string, tickers []string, period string) (map[string]any, error) {
	rc := newRunContext(query, DefaultPeriod)
	if _, ok := allowedPeriods[period]; ok {
		rc.period = period
	} else if period != "" {
		rc.limitations = append(rc.limitations, "Invalid period provided. Using default 3mo.")
	}

	log := Logger().With("request_id", rc.id)
	log.Info("research request", "query", query, "tickers", tickers, "period", rc.period)

	res := a.resolveTickers(ctx, query, tickers, MaxTickers)
	rc.tickers = res.tickers
	rc.source = res.source
	rc.inferred = res.inferred
	rc.limitations = append(rc.limitations, res.limitations...)
	log.Debug("tickers resolved", "tickers", rc.tickers, "source", rc.source)

	plan := a.planCalls(ctx, query, rc)
	if err := a.executePlan(ctx, plan, rc); err != nil {
		return nil, err
	}
	log.Debug("plan executed", "tool_calls", rc.callCount)

	summary := a.summarize(ctx, query, rc)
	output := rc.assembleOutput(summary)

	if err := schemas.Validate(schemas.FinalOutput, output); err != nil {
		log.Error("final output failed validation, substituting safe output", "error", err)
		output = rc.safeOutput(err)
	}
	return output, nil
}

// executePlan runs planned calls in order, enforcing the per-tool per-ticker
// budget and the hard MaxToolCalls ceiling. The only error it can return is
// context cancellation; tool failures are absorbed by the invoker.
func (a *Agent) executePlan(ctx context.Context, plan []plannedCall, rc *runContext) error {
	spent := make(map[plannedCall]int)

	for _, call := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rc.callCount >= MaxToolCalls {
			rc.noteBudgetExceeded()
			break
		}

		tool, ok := a.registry.Get(call.tool)
		if !ok {
			continue
		}
		if spent[call] >= tool.BudgetPerTicker {
			continue
		}
		spent[call]++
		rc.callCount++

		result := rc.invokeTool(ctx, tool, argumentsFor(tool.Name, call.ticker, rc.period))
		rc.recordResult(tool.Name, call.ticker, result)
	}
	return nil
}

// argumentsFor builds the canonical argument object for each tool.
func argumentsFor(toolName, ticker, period string) tools.Arguments {
	switch toolName {
	case schemas.MarketSnapshot:
		return tools.Arguments{
			"ticker":     ticker,
			"period":     period,
			"interval":   "1d",
			"benchmarks": []string{},
		}
	case schemas.FundamentalsEvents:
		return tools.Arguments{
			"ticker":           ticker,
			"fields":           []string{},
			"include_calendar": true,
			"lookback_days":    90,
		}
	case schemas.SentimentAnalysis:
		return tools.Arguments{
			"ticker":        ticker,
			"lookback_days": 30,
		}
	default:
		return tools.Arguments{"ticker": ticker}
	}
}

// recordResult files a tool result into the request state, keyed
// ticker -> tool -> payload. Every executed call lands in data_used, error
// payloads included, so the trail matches the tool-call log.
func (rc *runContext) recordResult(toolName, ticker string, result map[string]any) {
	perTool, ok := rc.toolReturns[ticker].(map[string]any)
	if !ok {
		perTool = map[string]any{}
		rc.toolReturns[ticker] = perTool
	}
	perTool[toolName] = result

	switch toolName {
	case schemas.MarketSnapshot:
		rc.snapshots[ticker] = result
	case schemas.FundamentalsEvents:
		if isErrorPayload(result) {
			rc.fundamentals[ticker] = result
			rc.limitations = append(rc.limitations,
				fmt.Sprintf("%s: fundamentals unavailable", ticker))
		} else if inner, ok := result["fundamentals"].(map[string]any); ok {
			rc.fundamentals[ticker] = inner
		} else {
			rc.fundamentals[ticker] = result
		}
	}

	rc.dataUsed = append(rc.dataUsed, toolName+":"+ticker)
}

// noteBudgetExceeded records the budget limitation at most once per run. Both
// the up-front ticker guard and the mid-plan call ceiling can trip it.
func (rc *runContext) noteBudgetExceeded() {
	if rc.budgetNoted {
		return
	}
	rc.budgetNoted = true
	rc.limitations = append(rc.limitations, "Tool budget exceeded. Skipping some tickers.")
}
