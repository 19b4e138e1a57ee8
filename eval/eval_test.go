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

package eval

import (
	"context"
	"testing"

	"github.com/nlpodyssey/investment-research-go/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScoresPerfectOffline(t *testing.T) {
	report, err := Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 16, report.MaxScore)
	assert.Equal(t, report.MaxScore, report.Score, "every offline case passes all checks: %+v", report.Results)
	require.Len(t, report.Results, 4)
	for _, result := range report.Results {
		assert.Empty(t, result.Failures, result.Name)
	}
}

func TestRunCasesScoresFailures(t *testing.T) {
	a, err := agent.New(agent.Config{Offline: true})
	require.NoError(t, err)

	report, err := RunCases(context.Background(), a, []Case{
		{Name: "unknown ticker", Query: "ZZZZ?", Tickers: []string{"ZZZZ"}, Period: "3mo"},
	})
	require.NoError(t, err)
	// Even a ticker with no fixture data yields a schema-valid document.
	assert.Equal(t, pointsPerCase, report.Score)
}

func TestDefaultCasesCoverProxyFallback(t *testing.T) {
	cases := DefaultCases()
	require.Len(t, cases, 4)

	var hasEmpty bool
	for _, c := range cases {
		if len(c.Tickers) == 0 {
			hasEmpty = true
		}
	}
	assert.True(t, hasEmpty, "one case must exercise the proxy basket")
}
