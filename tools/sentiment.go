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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nlpodyssey/investment-research-go/schemas"
)

// SentimentArgs are the arguments of the sentiment_analysis tool.
type SentimentArgs struct {
	Ticker       string `json:"ticker"`
	LookbackDays int    `json:"lookback_days,omitempty"`
}

// SentimentConfig configures the paid sentiment tool.
type SentimentConfig struct {
	// NewsAPIKey enables the live NewsAPI backend. Empty means mock-only.
	NewsAPIKey string
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
	// BaseURL overrides the NewsAPI endpoint. Used by tests.
	BaseURL string
	// Now overrides the clock for the asof stamp. Used by tests.
	Now func() time.Time
}

// SentimentPricePerCall is the per-invocation price of the paid sentiment
// tool in USD.
const SentimentPricePerCall = 0.05

// NewSentimentAnalysisTool builds the paid news/analyst sentiment tool. With
// no API key it serves a static per-ticker table, degrading to a neutral
// payload for unknown tickers, so it is safe in offline mode.
func NewSentimentAnalysisTool(cfg SentimentConfig) Tool {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return Tool{
		Name:             schemas.SentimentAnalysis,
		Handler:          sentimentHandler(cfg),
		InputSchema:      InputSchemaFor[SentimentArgs](),
		OutputSchemaName: schemas.SentimentAnalysis,
		Description: "News and analyst sentiment for a ticker: composite score, " +
			"ratings consensus, trend and top headlines.",
		UsageExamples: []string{
			"what is the market sentiment on NVDA",
			"are analysts bullish on AAPL right now",
		},
		BudgetPerTicker: 1,
		IsPaid:          true,
		PricePerCall:    SentimentPricePerCall,
	}
}

func sentimentHandler(cfg SentimentConfig) Handler {
	return func(ctx context.Context, args Arguments) (any, error) {
		decoded, err := decodeArgs[SentimentArgs](args)
		if err != nil {
			return nil, err
		}
		if decoded.LookbackDays <= 0 {
			decoded.LookbackDays = 30
		}
		return sentimentAnalysis(ctx, cfg, decoded), nil
	}
}

func sentimentAnalysis(ctx context.Context, cfg SentimentConfig, args SentimentArgs) map[string]any {
	ticker := strings.ToUpper(args.Ticker)

	var data map[string]any
	if cfg.NewsAPIKey != "" {
		data = newsAPISentiment(ctx, cfg, ticker)
	}
	if data == nil {
		data = mockSentimentTable[ticker]
	}
	if data == nil {
		data = neutralSentiment(ticker)
	}

	payload := map[string]any{
		"ticker":        ticker,
		"asof":          cfg.Now().Format("2006-01-02"),
		"lookback_days": args.LookbackDays,
	}
	for key, value := range data {
		payload[key] = value
	}
	return payload
}

var positiveKeywords = []string{
	"beat", "surge", "rally", "bullish", "strong", "gains",
	"outperform", "upgrade", "boom", "record",
}

var negativeKeywords = []string{
	"miss", "plunge", "bearish", "weak", "decline", "downgrade",
	"slump", "crisis", "loss", "concern",
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

// newsAPISentiment scores recent headlines by keyword counts. Any failure
// returns nil so the caller falls back to the static table.
func newsAPISentiment(ctx context.Context, cfg SentimentConfig, ticker string) map[string]any {
	endpoint := fmt.Sprintf("%s/v2/everything?q=%s&sortBy=publishedAt&language=en&pageSize=50&apiKey=%s",
		cfg.BaseURL, url.QueryEscape(ticker), url.QueryEscape(cfg.NewsAPIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	var decoded newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil
	}
	if decoded.Status != "ok" || len(decoded.Articles) == 0 {
		return nil
	}

	positive, negative := 0, 0
	headlines := make([]any, 0, 3)
	for i, article := range decoded.Articles {
		text := strings.ToLower(article.Title + " " + article.Description)
		for _, kw := range positiveKeywords {
			if strings.Contains(text, kw) {
				positive++
				break
			}
		}
		for _, kw := range negativeKeywords {
			if strings.Contains(text, kw) {
				negative++
				break
			}
		}
		if i < 3 {
			title := article.Title
			if len(title) > 100 {
				title = title[:100]
			}
			headlines = append(headlines, title)
		}
	}

	newsSentiment := 0.0
	if total := positive + negative; total > 0 {
		newsSentiment = clamp(float64(positive-negative)/float64(total), -1, 1)
	}
	// Analyst sentiment is estimated from headline sentiment with a slight
	// pull toward neutral.
	analystSentiment := clamp(newsSentiment*0.8+0.1, -1, 1)
	overall := (newsSentiment + analystSentiment) / 2

	consensus := "sell"
	if overall > 0.2 {
		consensus = "buy"
	} else if overall > -0.2 {
		consensus = "hold"
	}
	trend := "declining"
	if overall > 0.5 {
		trend = "improving"
	} else if overall > -0.2 {
		trend = "stable"
	}

	return map[string]any{
		"overall_sentiment": overall,
		"components": map[string]any{
			"news_sentiment":    newsSentiment,
			"analyst_sentiment": analystSentiment,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": len(decoded.Articles),
			"analyst_ratings": map[string]any{
				"strong_buy":  int(float64(positive) * 0.3),
				"buy":         int(float64(positive) * 0.4),
				"hold":        int(float64(positive+negative) * 0.2),
				"sell":        int(float64(negative) * 0.4),
				"strong_sell": int(float64(negative) * 0.3),
			},
			"consensus": consensus,
		},
		"trend":         trend,
		"top_headlines": headlines,
	}
}

func neutralSentiment(ticker string) map[string]any {
	return map[string]any{
		"overall_sentiment": 0.0,
		"components": map[string]any{
			"news_sentiment":    0.0,
			"analyst_sentiment": 0.0,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 0,
			"analyst_ratings": map[string]any{
				"strong_buy": 0, "buy": 0, "hold": 0, "sell": 0, "strong_sell": 0,
			},
			"consensus": "no_data",
		},
		"trend":         "neutral",
		"top_headlines": []any{"No sentiment data available for " + ticker},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mockSentimentTable is the static fallback used when no NewsAPI key is
// configured or the API yields nothing.
var mockSentimentTable = map[string]map[string]any{
	"NVDA": {
		"overall_sentiment": 0.68,
		"components": map[string]any{
			"news_sentiment":    0.72,
			"analyst_sentiment": 0.62,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 42,
			"analyst_ratings": map[string]any{
				"strong_buy": 15, "buy": 12, "hold": 8, "sell": 2, "strong_sell": 1,
			},
			"consensus": "buy",
		},
		"trend": "improving",
		"top_headlines": []any{
			"NVDA beats earnings expectations",
			"Nvidia AI chip demand surges",
			"New GPU architecture drives growth",
		},
	},
	"AAPL": {
		"overall_sentiment": 0.45,
		"components": map[string]any{
			"news_sentiment":    0.42,
			"analyst_sentiment": 0.50,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 38,
			"analyst_ratings": map[string]any{
				"strong_buy": 8, "buy": 18, "hold": 12, "sell": 4, "strong_sell": 0,
			},
			"consensus": "buy",
		},
		"trend": "stable",
		"top_headlines": []any{
			"Apple faces China slowdown",
			"iPhone 17 pre-orders strong",
			"Services revenue growth accelerates",
		},
	},
	"SPY": {
		"overall_sentiment": 0.35,
		"components": map[string]any{
			"news_sentiment":    0.38,
			"analyst_sentiment": 0.30,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 55,
			"analyst_ratings": map[string]any{
				"strong_buy": 12, "buy": 25, "hold": 18, "sell": 5, "strong_sell": 1,
			},
			"consensus": "buy",
		},
		"trend": "stable",
		"top_headlines": []any{
			"Market reaches new highs",
			"Fed signals pause in rate hikes",
			"Tech earnings beat expectations",
		},
	},
	"QQQ": {
		"overall_sentiment": 0.62,
		"components": map[string]any{
			"news_sentiment":    0.65,
			"analyst_sentiment": 0.55,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 48,
			"analyst_ratings": map[string]any{
				"strong_buy": 14, "buy": 20, "hold": 10, "sell": 2, "strong_sell": 1,
			},
			"consensus": "buy",
		},
		"trend": "improving",
		"top_headlines": []any{
			"Tech stocks rally on AI optimism",
			"Mega-cap earnings exceed expectations",
			"AI adoption accelerates across sectors",
		},
	},
	"TLT": {
		"overall_sentiment": -0.15,
		"components": map[string]any{
			"news_sentiment":    -0.12,
			"analyst_sentiment": -0.20,
		},
		"metadata": map[string]any{
			"news_articles_analyzed": 25,
			"analyst_ratings": map[string]any{
				"strong_buy": 2, "buy": 8, "hold": 12, "sell": 6, "strong_sell": 2,
			},
			"consensus": "hold",
		},
		"trend": "declining",
		"top_headlines": []any{
			"Bond yields remain elevated",
			"Fed keeps rates steady",
			"Inflation concerns linger",
		},
	},
}
