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

package tools

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the catalog of tools available to one agent instance. It is
// built once at startup and treated as read-only afterwards; the execution
// model is single-threaded so no locking is required.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. It rejects invalid specifications
// and duplicate names.
func (r *Registry) Register(tool Tool) error {
	if err := tool.Validate(); err != nil {
		return err
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// TotalBudgetPerTicker sums the per-ticker call budgets of all tools.
func (r *Registry) TotalBudgetPerTicker() int {
	total := 0
	for _, tool := range r.tools {
		total += tool.BudgetPerTicker
	}
	return total
}

// Metadata describes a registered tool for CLI display.
type Metadata struct {
	IsPaid       bool
	PricePerCall float64
}

// Metadata returns name -> pricing metadata for all registered tools.
func (r *Registry) Metadata() map[string]Metadata {
	meta := make(map[string]Metadata, len(r.tools))
	for name, tool := range r.tools {
		meta[name] = Metadata{IsPaid: tool.IsPaid, PricePerCall: tool.PricePerCall}
	}
	return meta
}

// Filtered returns a new registry holding only the requested tools. The
// filter is all-or-nothing: any unknown name fails the whole construction,
// naming the invalid tools and listing the available ones. No partial
// registry is ever returned.
func (r *Registry) Filtered(names []string) (*Registry, error) {
	var invalid []string
	for _, name := range names {
		if _, ok := r.tools[name]; !ok {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid tool(s) requested: %v. Available: %v", invalid, r.Names())
	}
	filtered := NewRegistry()
	for _, name := range names {
		filtered.tools[name] = r.tools[name]
	}
	return filtered, nil
}

// PromptDescription renders every registered tool for an LLM routing prompt,
// in stable (alphabetical) order.
func (r *Registry) PromptDescription() string {
	if len(r.tools) == 0 {
		return "No tools available"
	}
	descriptions := make([]string, 0, len(r.tools))
	for _, name := range r.Names() {
		descriptions = append(descriptions, r.tools[name].PromptDescription())
	}
	return strings.Join(descriptions, "\n")
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry(%s)", strings.Join(r.Names(), ", "))
}
