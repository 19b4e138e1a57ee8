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

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the chat model used for all research prompts.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend answers prompts through the OpenAI Chat Completions API.
type OpenAIBackend struct {
	client    openai.Client
	modelName string
}

func NewOpenAIBackend(apiKey string, opts ...option.RequestOption) *OpenAIBackend {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIBackend{
		client:    openai.NewClient(opts...),
		modelName: DefaultOpenAIModel,
	}
}

func (b *OpenAIBackend) Provider() string { return "openai" }
func (b *OpenAIBackend) Model() string    { return b.modelName }

func (b *OpenAIBackend) GenerateJSON(ctx context.Context, prompt string, maxTokens int64) (string, TokenUsage, error) {
	response, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(b.modelName),
		MaxTokens: openai.Int(maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", TokenUsage{}, err
	}
	if len(response.Choices) == 0 {
		return "", TokenUsage{}, errors.New("llm: openai returned no choices")
	}

	usage := TokenUsage{
		InputTokens:  response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
		TotalTokens:  response.Usage.TotalTokens,
	}
	slog.Debug("LLM responded",
		slog.String("provider", b.Provider()),
		slog.Int64("total_tokens", usage.TotalTokens))
	return response.Choices[0].Message.Content, usage, nil
}
