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

package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is the Messages API model used for all research
// prompts.
const DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

// AnthropicBackend answers prompts through the Anthropic Messages API.
type AnthropicBackend struct {
	client    anthropic.Client
	modelName string
}

func NewAnthropicBackend(apiKey string, opts ...option.RequestOption) *AnthropicBackend {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		modelName: DefaultAnthropicModel,
	}
}

func (b *AnthropicBackend) Provider() string { return "anthropic" }
func (b *AnthropicBackend) Model() string    { return b.modelName }

func (b *AnthropicBackend) GenerateJSON(ctx context.Context, prompt string, maxTokens int64) (string, TokenUsage, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.modelName),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", TokenUsage{}, err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", TokenUsage{}, errors.New("llm: anthropic returned no text content")
	}

	usage := TokenUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
		TotalTokens:  message.Usage.InputTokens + message.Usage.OutputTokens,
	}
	slog.Debug("LLM responded",
		slog.String("provider", b.Provider()),
		slog.Int64("total_tokens", usage.TotalTokens))
	return sb.String(), usage, nil
}
