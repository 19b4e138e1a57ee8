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
	"math"

	"github.com/nlpodyssey/investment-research-go/marketdata"
	"github.com/nlpodyssey/investment-research-go/schemas"
)

// SnapshotArgs are the arguments of the market_snapshot tool.
type SnapshotArgs struct {
	Ticker     string   `json:"ticker"`
	Period     string   `json:"period"`
	Interval   string   `json:"interval,omitempty"`
	Benchmarks []string `json:"benchmarks,omitempty"`
}

// NewMarketSnapshotTool builds the free technical-snapshot tool backed by
// the given provider.
func NewMarketSnapshotTool(provider marketdata.Provider) Tool {
	return Tool{
		Name:             schemas.MarketSnapshot,
		Handler:          marketSnapshotHandler(provider),
		InputSchema:      InputSchemaFor[SnapshotArgs](),
		OutputSchemaName: schemas.MarketSnapshot,
		Description: "Technical snapshot of a ticker: returns, volatility, trend, " +
			"drawdown and volume statistics over a period.",
		UsageExamples: []string{
			"trend summary for AAPL",
			"how volatile has MSFT been over the last 6 months",
		},
		BudgetPerTicker: 1,
	}
}

func marketSnapshotHandler(provider marketdata.Provider) Handler {
	return func(ctx context.Context, args Arguments) (any, error) {
		decoded, err := decodeArgs[SnapshotArgs](args)
		if err != nil {
			return nil, err
		}
		if decoded.Interval == "" {
			decoded.Interval = "1d"
		}
		return marketSnapshot(ctx, provider, decoded), nil
	}
}

func marketSnapshot(ctx context.Context, provider marketdata.Provider, args SnapshotArgs) map[string]any {
	bars, err := provider.GetHistory(ctx, args.Ticker, args.Period, args.Interval)
	if err != nil || len(bars) == 0 {
		return errorPayload("NO_DATA", args.Ticker, "invalid ticker or empty history")
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
		volumes[i] = bar.Volume
	}

	relative := make([]any, 0, len(args.Benchmarks))
	for _, bench := range args.Benchmarks {
		benchBars, err := provider.GetHistory(ctx, bench, args.Period, args.Interval)
		if err != nil || len(benchBars) == 0 {
			continue
		}
		benchCloses := make([]float64, len(benchBars))
		for i, bar := range benchBars {
			benchCloses[i] = bar.Close
		}
		relative = append(relative, map[string]any{
			"ticker":     bench,
			"return_pct": returnPct(benchCloses),
		})
	}

	latestVolume := volumes[len(volumes)-1]

	return map[string]any{
		"ticker":   args.Ticker,
		"asof":     bars[len(bars)-1].Date.Format("2006-01-02"),
		"period":   args.Period,
		"interval": args.Interval,
		"prices": map[string]any{
			"start":            closes[0],
			"end":              closes[len(closes)-1],
			"return_pct":       returnPct(closes),
			"max_drawdown_pct": maxDrawdownPct(closes),
		},
		"risk": map[string]any{
			"volatility_ann_pct": annualizedVolatilityPct(closes),
			"atr_14":             averageTrueRange(bars, 14),
		},
		"trend": trendStats(closes),
		"volume": map[string]any{
			"avg_20d":       rollingMeanLast(volumes, 20),
			"latest":        latestVolume,
			"zscore_latest": volumeZScore(volumes, 20),
		},
		"relative": relative,
		"notes":    []any{},
	}
}

func returnPct(closes []float64) float64 {
	if len(closes) == 0 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1]/closes[0] - 1) * 100
}

// maxDrawdownPct is the largest peak-to-trough decline, as a negative
// percentage of the running maximum.
func maxDrawdownPct(closes []float64) float64 {
	maxDrawdown := 0.0
	peak := math.Inf(-1)
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak != 0 {
			if dd := (c/peak - 1) * 100; dd < maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}

// annualizedVolatilityPct is the sample standard deviation of daily returns,
// annualized over 252 trading days.
func annualizedVolatilityPct(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	return sampleStdDev(returns) * math.Sqrt(252) * 100
}

// averageTrueRange computes the rolling mean of the true range over the
// given window. With fewer bars than the window, the mean over all bars is
// used instead.
func averageTrueRange(bars []marketdata.Bar, window int) float64 {
	trueRanges := make([]float64, len(bars))
	for i, bar := range bars {
		tr := bar.High - bar.Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Abs(bar.High-prevClose))
			tr = math.Max(tr, math.Abs(bar.Low-prevClose))
		}
		trueRanges[i] = math.Abs(tr)
	}
	return rollingMeanLast(trueRanges, window)
}

func trendStats(closes []float64) map[string]any {
	sma20 := rollingMeanLast(closes, 20)
	sma50 := rollingMeanLast(closes, 50)
	return map[string]any{
		"sma_20":      sma20,
		"sma_50":      sma50,
		"trend_label": trendLabel(sma20, sma50),
	}
}

func trendLabel(sma20, sma50 float64) string {
	switch {
	case sma20 > sma50*1.01:
		return "bullish"
	case sma20 < sma50*0.99:
		return "bearish"
	default:
		return "sideways"
	}
}

func volumeZScore(volumes []float64, window int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	tail := volumes
	if len(tail) > window {
		tail = tail[len(tail)-window:]
	}
	std := sampleStdDev(tail)
	if std == 0 {
		return 0
	}
	latest := volumes[len(volumes)-1]
	return (latest - mean(tail)) / std
}

// rollingMeanLast is the mean of the trailing window, or of the whole series
// when it is shorter than the window.
func rollingMeanLast(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	return mean(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
