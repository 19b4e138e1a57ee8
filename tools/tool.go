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

// Package tools defines the invocable research tools and the registry that
// catalogs them for the orchestrator and for LLM-driven routing.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Arguments is the JSON-like argument object passed to a tool handler. The
// same object is recorded verbatim in the request's tool-call log.
type Arguments map[string]any

// Handler executes a tool. The returned value must be JSON-marshalable and
// is validated against the tool's output schema by the invoker. Data faults
// (unknown ticker, empty history) are reported as the tool's structured
// error payload, not as a Go error; errors are reserved for faults the tool
// cannot express in its output shape.
type Handler func(ctx context.Context, args Arguments) (any, error)

// Tool is the specification of a tool available to the agent. Tools are
// registered once at startup and are immutable thereafter.
type Tool struct {
	// Name uniquely identifies the tool, e.g. "market_snapshot".
	Name string

	// Handler executes the tool.
	Handler Handler

	// InputSchema is the JSON schema of the tool's arguments, shown to the
	// LLM during routing. See InputSchemaFor.
	InputSchema map[string]any

	// OutputSchemaName names the schema (in package schemas) the tool's
	// output is validated against.
	OutputSchemaName string

	// Description is a human-readable description used for tool selection.
	Description string

	// UsageExamples lists example queries where the tool applies.
	UsageExamples []string

	// BudgetPerTicker caps calls per ticker per request. Must be >= 1.
	BudgetPerTicker int

	// IsPaid marks tools that bill per call. Paid tools are excluded from
	// the default registry and join only by explicit selection.
	IsPaid bool

	// PricePerCall is the cost of one invocation in USD, 0 for free tools.
	PricePerCall float64
}

// Validate checks the tool specification, returning the first problem found.
func (t Tool) Validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("tool name cannot be empty")
	case t.Handler == nil:
		return fmt.Errorf("tool %q has no handler", t.Name)
	case t.OutputSchemaName == "":
		return fmt.Errorf("tool %q has no output schema", t.Name)
	case t.BudgetPerTicker < 1:
		return fmt.Errorf("tool %q: budget per ticker must be >= 1, got %d", t.Name, t.BudgetPerTicker)
	case t.IsPaid && t.PricePerCall <= 0:
		return fmt.Errorf("paid tool %q must have a price per call > 0, got %v", t.Name, t.PricePerCall)
	case t.PricePerCall < 0:
		return fmt.Errorf("tool %q: price per call cannot be negative", t.Name)
	}
	return nil
}

// PromptDescription renders the tool for an LLM routing prompt.
func (t Tool) PromptDescription() string {
	paidMarker := ""
	if t.IsPaid {
		paidMarker = " [PAID]"
	}
	examples := "None"
	if len(t.UsageExamples) > 0 {
		examples = strings.Join(t.UsageExamples, "\n  ")
	}
	return fmt.Sprintf("- %s%s: %s\n  Example usage: %s", t.Name, paidMarker, t.Description, examples)
}

// InputSchemaFor generates a JSON schema document from a tool's typed
// argument struct, honoring `json` and `jsonschema` struct tags.
func InputSchemaFor[T any]() map[string]any {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	var zero T
	schema := reflector.Reflect(&zero)

	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: failed to marshal input schema: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("tools: failed to unmarshal input schema: %v", err))
	}
	return out
}

// decodeArgs converts a JSON-like argument map into the tool's typed
// argument struct.
func decodeArgs[T any](args Arguments) (T, error) {
	var decoded T
	b, err := json.Marshal(args)
	if err != nil {
		return decoded, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		return decoded, fmt.Errorf("failed to parse arguments: %w", err)
	}
	return decoded, nil
}

// errorPayload is the structured error shape shared by all tools.
func errorPayload(code, ticker, reason string) map[string]any {
	return map[string]any{"error": code, "ticker": ticker, "reason": reason}
}
