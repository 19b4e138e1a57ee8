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
	"encoding/json"
	"fmt"

	"github.com/nlpodyssey/investment-research-go/schemas"
	"github.com/nlpodyssey/investment-research-go/tools"
)

// invalidOutputError is the error code of the payload substituted when a
// tool's output fails its schema twice.
const invalidOutputError = "INVALID_OUTPUT"

// invokeTool runs one tool call end to end: it records the call in the log,
// executes the handler, and validates the result against the tool's output
// schema. On a handler error or schema violation it retries the handler
// exactly once; a second failure yields the structured error payload plus a
// limitation, never a Go error. The whole sequence counts as one tool call.
func (rc *runContext) invokeTool(ctx context.Context, tool tools.Tool, args tools.Arguments) map[string]any {
	rc.toolCalls = append(rc.toolCalls, map[string]any{
		"name": tool.Name,
		"args": map[string]any(args),
	})

	result, err := executeAndValidate(ctx, tool, args)
	if err != nil {
		Logger().Warn("tool output invalid, retrying once",
			"tool", tool.Name, "error", err)
		result, err = executeAndValidate(ctx, tool, args)
	}
	if err != nil {
		rc.limitations = append(rc.limitations,
			fmt.Sprintf("%s output invalid: %s", tool.Name, err))
		return errorResult(args, err)
	}
	return result
}

// executeAndValidate runs the handler once and checks the output shape,
// normalizing the result to a plain JSON object.
func executeAndValidate(ctx context.Context, tool tools.Tool, args tools.Arguments) (map[string]any, error) {
	out, err := tool.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(tool.OutputSchemaName, out); err != nil {
		return nil, ModelBehaviorError(err)
	}
	return toJSONObject(out)
}

// errorResult builds the substitute payload for a tool whose output failed
// validation twice.
func errorResult(args tools.Arguments, cause error) map[string]any {
	ticker, _ := args["ticker"].(string)
	return map[string]any{
		"error":  invalidOutputError,
		"ticker": ticker,
		"reason": cause.Error(),
	}
}

// toJSONObject round-trips a handler result through JSON so downstream code
// always sees map[string]any regardless of the handler's concrete types.
func toJSONObject(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// isErrorPayload reports whether a tool result is the structured error shape
// rather than a success payload.
func isErrorPayload(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}
