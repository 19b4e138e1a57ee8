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

// Package marketdata defines the upstream data-provider contract consumed by
// the research tools, plus a live implementation backed by the Yahoo Finance
// HTTP endpoints.
package marketdata

import (
	"context"
	"time"
)

// Bar is a single OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Provider is the upstream quote/history/fundamentals lookup contract.
// Implementations report missing data as empty results, not errors; errors
// are reserved for transport failures. Callers convert both into their own
// structured error payloads before results reach the orchestrator.
type Provider interface {
	// GetHistory returns OHLCV bars for the ticker over the period at the
	// given interval. An empty slice means the ticker is unknown or has no
	// history for the window.
	GetHistory(ctx context.Context, ticker, period, interval string) ([]Bar, error)

	// GetInfo returns descriptive fields for the ticker. An empty map means
	// the ticker is unknown. A ticker is considered valid iff this returns
	// non-empty info.
	GetInfo(ctx context.Context, ticker string) (map[string]any, error)

	// GetCalendar returns upcoming-event fields (earnings, dividends) for
	// the ticker, empty when none are published.
	GetCalendar(ctx context.Context, ticker string) (map[string]any, error)
}
