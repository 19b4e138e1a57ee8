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

// Package llm provides the language-model backend used for ticker
// inference, tool routing and summarization. The contract with the backends
// is a single call type: generate JSON content for a prompt, returning the
// parsed document plus token counts, or an error. The agent never depends
// on free-form prose.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrDisabled is returned by every operation when no backend is configured.
var ErrDisabled = errors.New("llm: disabled, missing API key or client unavailable")

// TokenUsage counts tokens for one backend request.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Backend is a single LLM provider able to answer a prompt with raw JSON
// text and token counts.
type Backend interface {
	Provider() string
	Model() string
	GenerateJSON(ctx context.Context, prompt string, maxTokens int64) (string, TokenUsage, error)
}

// Client wraps a Backend with the three JSON operations the agent needs.
// A Client with no backend is disabled and fails every operation with
// ErrDisabled; callers degrade to their deterministic fallbacks.
type Client struct {
	backend Backend
}

// New selects a backend from the environment: OpenAI when OPENAI_API_KEY is
// set, otherwise Anthropic when ANTHROPIC_API_KEY is set, otherwise a
// disabled client.
func New() *Client {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewWithBackend(NewOpenAIBackend(key))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return NewWithBackend(NewAnthropicBackend(key))
	}
	return &Client{}
}

// NewWithBackend wraps an explicit backend. A nil backend yields a disabled
// client.
func NewWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.backend != nil
}

func (c *Client) Provider() string {
	if !c.Enabled() {
		return ""
	}
	return c.backend.Provider()
}

func (c *Client) Model() string {
	if !c.Enabled() {
		return ""
	}
	return c.backend.Model()
}

// InferTickers asks the model to propose up to max ticker symbols for a
// free-text query. Returned symbols are trimmed and upper-cased; order is
// the model's.
func (c *Client) InferTickers(ctx context.Context, query string, max int) ([]string, TokenUsage, error) {
	if !c.Enabled() {
		return nil, TokenUsage{}, ErrDisabled
	}

	prompt := fmt.Sprintf(`You are an investment research assistant. Identify the stock or ETF ticker symbols the following query is about.

Query: %s

Generate a JSON response with:
- tickers: list of at most %d uppercase exchange ticker symbols (string format). Use an empty list if the query names no identifiable securities.

Respond with ONLY valid JSON, no markdown or extra text.`, query, max)

	raw, usage, err := c.backend.GenerateJSON(ctx, prompt, 200)
	if err != nil {
		return nil, usage, err
	}

	var decoded struct {
		Tickers []string `json:"tickers"`
	}
	if err := unmarshalResponse(raw, &decoded); err != nil {
		// Some models answer with a bare array.
		var bare []string
		if err2 := unmarshalResponse(raw, &bare); err2 != nil {
			return nil, usage, err
		}
		decoded.Tickers = bare
	}

	tickers := make([]string, 0, len(decoded.Tickers))
	for _, t := range decoded.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) > max {
		tickers = tickers[:max]
	}
	return tickers, usage, nil
}

// ToolAssignment pairs a tool with the tickers it should be called for.
type ToolAssignment struct {
	Tool    string   `json:"tool"`
	Tickers []string `json:"tickers"`
}

// DecideTools asks the model which tools to call for which tickers, given
// the registry's prompt catalog. The agent drops assignments naming tools
// absent from the registry.
func (c *Client) DecideTools(ctx context.Context, query string, tickers []string, catalog string) ([]ToolAssignment, TokenUsage, error) {
	if !c.Enabled() {
		return nil, TokenUsage{}, ErrDisabled
	}

	prompt := fmt.Sprintf(`You are an investment research assistant planning which data tools to call.

User Query: %s
Tickers: %s

Available tools:
%s

Generate a JSON response with:
- tools: list of objects {"tool": tool name, "tickers": list of ticker symbols to call it for}. Only use tool names from the list above and tickers from the list given.

Respond with ONLY valid JSON, no markdown or extra text.`, query, strings.Join(tickers, ", "), catalog)

	raw, usage, err := c.backend.GenerateJSON(ctx, prompt, 400)
	if err != nil {
		return nil, usage, err
	}

	var decoded struct {
		Tools []ToolAssignment `json:"tools"`
	}
	if err := unmarshalResponse(raw, &decoded); err != nil {
		return nil, usage, err
	}
	return decoded.Tools, usage, nil
}

// Summary carries LLM-authored thesis bullets and risks.
type Summary struct {
	ThesisBullets []string `json:"thesis_bullets"`
	Risks         []string `json:"risks"`
}

// GenerateSummary asks the model for thesis bullets and risks derived from
// the accumulated tool outputs.
func (c *Client) GenerateSummary(ctx context.Context, query string, tickers []string, toolOutputs map[string]any) (Summary, TokenUsage, error) {
	if !c.Enabled() {
		return Summary{}, TokenUsage{}, ErrDisabled
	}

	data, err := json.MarshalIndent(toolOutputs, "", "  ")
	if err != nil {
		return Summary{}, TokenUsage{}, fmt.Errorf("llm: failed to encode tool outputs: %w", err)
	}

	prompt := fmt.Sprintf(`You are an investment research analyst. Analyze the following market data and generate a research summary.

User Query: %s
Tickers: %s

Market Data:
%s

Generate a JSON response with:
- thesis_bullets: list of 1-3 key insights about the tickers (string format)
- risks: list of 0-2 key risks or concerns (string format)

Respond with ONLY valid JSON, no markdown or extra text.`, query, strings.Join(tickers, ", "), data)

	raw, usage, err := c.backend.GenerateJSON(ctx, prompt, 500)
	if err != nil {
		return Summary{}, usage, err
	}

	var decoded Summary
	if err := unmarshalResponse(raw, &decoded); err != nil {
		return Summary{}, usage, err
	}
	return decoded, usage, nil
}

// unmarshalResponse parses a model response that should be bare JSON,
// tolerating a markdown code fence around it. Anything else is treated as a
// backend failure by the caller.
func unmarshalResponse(raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if _, rest, ok := strings.Cut(raw, "\n"); ok {
			raw = rest
		}
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("llm: response is not the expected JSON shape: %w", err)
	}
	return nil
}
