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

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelPricing is USD per one million tokens.
type ModelPricing struct {
	InputPer1M  float64 `yaml:"input_per_1m"`
	OutputPer1M float64 `yaml:"output_per_1m"`
}

// PricingTable maps provider -> model -> pricing.
type PricingTable map[string]map[string]ModelPricing

// defaultModels names the model whose pricing applies when a provider is
// known but the model is not in the table.
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-sonnet-20241022",
}

// DefaultPricing returns the built-in pricing table (as of Feb 2026).
func DefaultPricing() PricingTable {
	return PricingTable{
		"openai": {
			"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
			"gpt-4-turbo": {InputPer1M: 10.00, OutputPer1M: 30.00},
		},
		"anthropic": {
			"claude-3-5-sonnet-20241022": {InputPer1M: 3.00, OutputPer1M: 15.00},
			"claude-3-opus-20250219":     {InputPer1M: 15.00, OutputPer1M: 75.00},
		},
	}
}

// Lookup resolves pricing for a provider/model pair, falling back to the
// provider's default model. Unknown providers report false.
func (p PricingTable) Lookup(provider, model string) (ModelPricing, bool) {
	models, ok := p[provider]
	if !ok {
		return ModelPricing{}, false
	}
	if pricing, ok := models[model]; ok {
		return pricing, true
	}
	if pricing, ok := models[defaultModels[provider]]; ok {
		return pricing, true
	}
	return ModelPricing{}, false
}

// LoadPricingFile reads a YAML pricing table and merges it over the
// defaults, so deployments can adjust rates without a rebuild.
func LoadPricingFile(path string) (PricingTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("costs: failed to read pricing file: %w", err)
	}
	var overrides PricingTable
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("costs: failed to parse pricing file: %w", err)
	}

	merged := DefaultPricing()
	for provider, models := range overrides {
		if _, ok := merged[provider]; !ok {
			merged[provider] = map[string]ModelPricing{}
		}
		for model, pricing := range models {
			merged[provider][model] = pricing
		}
	}
	return merged, nil
}
