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

// Package schemas holds the JSON Schema documents the agent enforces on
// tool outputs and on its own final document, together with a validator
// that reports the first violation as a human-readable message.
package schemas

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Names of the registered schemas.
const (
	MarketSnapshot     = "market_snapshot"
	FundamentalsEvents = "fundamentals_events"
	SentimentAnalysis  = "sentiment_analysis"
	FinalOutput        = "final_output"
)

// errorShape is the structured error payload every tool may return in
// place of a success payload.
var errorShape = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"error", "ticker", "reason"},
	"properties": map[string]any{
		"error":  map[string]any{"type": "string"},
		"ticker": map[string]any{"type": "string"},
		"reason": map[string]any{"type": "string"},
	},
}

var marketSnapshotSchema = map[string]any{
	"anyOf": []any{
		map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required": []any{
				"ticker", "asof", "period", "interval",
				"prices", "risk", "trend", "volume", "relative", "notes",
			},
			"properties": map[string]any{
				"ticker":   map[string]any{"type": "string"},
				"asof":     map[string]any{"type": "string"},
				"period":   map[string]any{"type": "string"},
				"interval": map[string]any{"type": "string"},
				"prices": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"start", "end", "return_pct", "max_drawdown_pct"},
					"properties": map[string]any{
						"start":            map[string]any{"type": "number"},
						"end":              map[string]any{"type": "number"},
						"return_pct":       map[string]any{"type": "number"},
						"max_drawdown_pct": map[string]any{"type": "number"},
					},
				},
				"risk": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"volatility_ann_pct", "atr_14"},
					"properties": map[string]any{
						"volatility_ann_pct": map[string]any{"type": "number"},
						"atr_14":             map[string]any{"type": "number"},
					},
				},
				"trend": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"sma_20", "sma_50", "trend_label"},
					"properties": map[string]any{
						"sma_20":      map[string]any{"type": "number"},
						"sma_50":      map[string]any{"type": "number"},
						"trend_label": map[string]any{"type": "string"},
					},
				},
				"volume": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"avg_20d", "latest", "zscore_latest"},
					"properties": map[string]any{
						"avg_20d":       map[string]any{"type": "number"},
						"latest":        map[string]any{"type": "number"},
						"zscore_latest": map[string]any{"type": "number"},
					},
				},
				"relative": map[string]any{"type": "array"},
				"notes":    map[string]any{"type": "array"},
			},
		},
		errorShape,
	},
}

var fundamentalsEventsSchema = map[string]any{
	"anyOf": []any{
		map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"ticker", "asof", "fundamentals", "calendar", "flags"},
			"properties": map[string]any{
				"ticker":       map[string]any{"type": "string"},
				"asof":         map[string]any{"type": "string"},
				"fundamentals": map[string]any{"type": "object"},
				"calendar":     map[string]any{"type": "object"},
				"flags":        map[string]any{"type": "array"},
			},
		},
		errorShape,
	},
}

var sentimentAnalysisSchema = map[string]any{
	"anyOf": []any{
		map[string]any{
			"type":                 "object",
			"additionalProperties": true,
			"required": []any{
				"ticker", "asof", "overall_sentiment",
				"components", "metadata", "trend", "top_headlines",
			},
			"properties": map[string]any{
				"ticker":            map[string]any{"type": "string"},
				"asof":              map[string]any{"type": "string"},
				"overall_sentiment": map[string]any{"type": "number"},
				"components": map[string]any{
					"type":     "object",
					"required": []any{"news_sentiment", "analyst_sentiment"},
					"properties": map[string]any{
						"news_sentiment":    map[string]any{"type": "number"},
						"analyst_sentiment": map[string]any{"type": "number"},
					},
				},
				"metadata": map[string]any{
					"type":     "object",
					"required": []any{"news_articles_analyzed", "analyst_ratings", "consensus"},
					"properties": map[string]any{
						"news_articles_analyzed": map[string]any{"type": "integer"},
						"analyst_ratings":        map[string]any{"type": "object"},
						"consensus":              map[string]any{"type": "string"},
					},
				},
				"trend":         map[string]any{"type": "string"},
				"top_headlines": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		errorShape,
	},
}

var finalOutputSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required": []any{
		"query", "tickers", "summary", "tickers_source", "tickers_inferred",
		"fundamentals", "tool_returns", "data_used", "tool_calls",
		"limitations", "disclaimer",
	},
	"properties": map[string]any{
		"query":   map[string]any{"type": "string"},
		"tickers": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"summary": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"thesis_bullets", "risks"},
			"properties": map[string]any{
				"thesis_bullets": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"risks":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		"tickers_source":   map[string]any{"type": "string"},
		"tickers_inferred": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"fundamentals":     map[string]any{"type": "object", "additionalProperties": true},
		"tool_returns":     map[string]any{"type": "object", "additionalProperties": true},
		"data_used":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"tool_calls":       map[string]any{"type": "array"},
		"limitations":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"disclaimer":       map[string]any{"type": "string"},
		"cost_analysis": map[string]any{
			"anyOf": []any{
				map[string]any{"type": "null"},
				map[string]any{"type": "object", "additionalProperties": true},
			},
		},
	},
}

var compiled map[string]*gojsonschema.Schema

func init() {
	documents := map[string]map[string]any{
		MarketSnapshot:     marketSnapshotSchema,
		FundamentalsEvents: fundamentalsEventsSchema,
		SentimentAnalysis:  sentimentAnalysisSchema,
		FinalOutput:        finalOutputSchema,
	}
	compiled = make(map[string]*gojsonschema.Schema, len(documents))
	for name, doc := range documents {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			panic(fmt.Sprintf("schemas: failed to compile %q: %v", name, err))
		}
		compiled[name] = schema
	}
}

// Names returns the registered schema names, sorted.
func Names() []string {
	names := make([]string, 0, len(compiled))
	for name := range compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks payload against the named schema. It returns nil when the
// payload conforms, and an error carrying the first violation otherwise.
// The payload may be any JSON-marshalable value. An unknown schema name is a
// programmer error.
func Validate(name string, payload any) error {
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("schemas: unknown schema %q (available: %v)", name, Names())
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("schemas: payload is not JSON-marshalable: %w", err)
	}
	return ValidateJSON(schema, string(b))
}

// ValidateJSON validates a raw JSON document against a compiled schema,
// reporting only the first violation.
func ValidateJSON(schema *gojsonschema.Schema, jsonValue string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonValue))
	if err != nil {
		return fmt.Errorf("failed to load and validate JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	return fmt.Errorf("%s", result.Errors()[0])
}
