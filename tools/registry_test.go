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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(context.Context, Arguments) (any, error) {
	return map[string]any{}, nil
}

func testTool(name string) Tool {
	return Tool{
		Name:             name,
		Handler:          noopHandler,
		OutputSchemaName: "market_snapshot",
		Description:      "test tool",
		BudgetPerTicker:  1,
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(testTool("alpha")))
	require.NoError(t, r.Register(testTool("beta")))

	tool, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", tool.Name)

	_, ok = r.Get("gamma")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"alpha", "beta"}, r.Names())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(testTool("alpha")))
	err := r.Register(testTool("alpha"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryRejectsInvalidTools(t *testing.T) {
	r := NewRegistry()

	nameless := testTool("")
	require.Error(t, r.Register(nameless))

	noBudget := testTool("alpha")
	noBudget.BudgetPerTicker = 0
	require.Error(t, r.Register(noBudget))

	freePaid := testTool("beta")
	freePaid.IsPaid = true
	err := r.Register(freePaid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price per call")
}

func TestRegistryFiltered(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(testTool("alpha")))
	require.NoError(t, r.Register(testTool("beta")))
	require.NoError(t, r.Register(testTool("gamma")))

	filtered, err := r.Filtered([]string{"alpha", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "gamma"}, filtered.Names())
	// The source registry is untouched.
	assert.Equal(t, 3, r.Len())
}

func TestRegistryFilteredIsAllOrNothing(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(testTool("alpha")))

	filtered, err := r.Filtered([]string{"alpha", "nope", "also_nope"})
	require.Error(t, err)
	assert.Nil(t, filtered)
	assert.Contains(t, err.Error(), "invalid tool(s) requested")
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), "Available")
	assert.Contains(t, err.Error(), "alpha")
}

func TestRegistryTotalBudgetPerTicker(t *testing.T) {
	r := NewRegistry()
	a := testTool("alpha")
	a.BudgetPerTicker = 2
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(testTool("beta")))
	assert.Equal(t, 3, r.TotalBudgetPerTicker())
}

func TestRegistryMetadata(t *testing.T) {
	r := NewRegistry()
	paid := testTool("paid")
	paid.IsPaid = true
	paid.PricePerCall = 0.05
	require.NoError(t, r.Register(paid))
	require.NoError(t, r.Register(testTool("free")))

	meta := r.Metadata()
	assert.Equal(t, Metadata{IsPaid: true, PricePerCall: 0.05}, meta["paid"])
	assert.Equal(t, Metadata{}, meta["free"])
}

func TestPromptDescriptionMarksPaidTools(t *testing.T) {
	r := NewRegistry()
	paid := testTool("paid_tool")
	paid.IsPaid = true
	paid.PricePerCall = 0.05
	paid.UsageExamples = []string{"sentiment for NVDA"}
	require.NoError(t, r.Register(paid))
	require.NoError(t, r.Register(testTool("free_tool")))

	desc := r.PromptDescription()
	assert.Contains(t, desc, "- paid_tool [PAID]:")
	assert.Contains(t, desc, "sentiment for NVDA")
	assert.Contains(t, desc, "- free_tool:")
	assert.NotContains(t, desc, "free_tool [PAID]")
}

func TestPromptDescriptionEmptyRegistry(t *testing.T) {
	assert.Equal(t, "No tools available", NewRegistry().PromptDescription())
}
