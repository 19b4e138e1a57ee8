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

package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches history and quote data from the public Yahoo Finance
// chart and quote endpoints.
type YahooProvider struct {
	client  *http.Client
	baseURL string
}

// YahooOption configures a YahooProvider.
type YahooOption func(*YahooProvider)

// WithHTTPClient overrides the HTTP client (default: 10s timeout).
func WithHTTPClient(c *http.Client) YahooOption {
	return func(p *YahooProvider) { p.client = c }
}

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) YahooOption {
	return func(p *YahooProvider) { p.baseURL = u }
}

func NewYahooProvider(opts ...YahooOption) *YahooProvider {
	p := &YahooProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) GetHistory(ctx context.Context, ticker, period, interval string) ([]Bar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		p.baseURL, url.PathEscape(ticker), url.QueryEscape(period), url.QueryEscape(interval))

	var decoded chartResponse
	if err := p.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}
	if decoded.Chart.Error != nil || len(decoded.Chart.Result) == 0 {
		return nil, nil
	}
	result := decoded.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Rows with missing values are dropped, matching the upstream
		// behavior of skipping non-trading observations.
		if !hasIndex(quote.Open, i) || !hasIndex(quote.High, i) ||
			!hasIndex(quote.Low, i) || !hasIndex(quote.Close, i) || !hasIndex(quote.Volume, i) {
			continue
		}
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}
	return bars, nil
}

// quoteKeyAliases maps Yahoo quote field names onto the descriptive field
// names the fundamentals tool allow-lists.
var quoteKeyAliases = map[string]string{
	"epsTrailingTwelveMonths":     "trailingEps",
	"epsForward":                  "forwardEps",
	"trailingAnnualDividendYield": "dividendYield",
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
	} `json:"quoteResponse"`
}

func (p *YahooProvider) GetInfo(ctx context.Context, ticker string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", p.baseURL, url.QueryEscape(ticker))

	var decoded quoteResponse
	if err := p.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.QuoteResponse.Result) == 0 {
		return nil, nil
	}
	info := decoded.QuoteResponse.Result[0]
	for raw, canonical := range quoteKeyAliases {
		if v, ok := info[raw]; ok {
			if _, exists := info[canonical]; !exists {
				info[canonical] = v
			}
		}
	}
	return info, nil
}

type calendarResponse struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents map[string]any `json:"calendarEvents"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) GetCalendar(ctx context.Context, ticker string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=calendarEvents",
		p.baseURL, url.PathEscape(ticker))

	var decoded calendarResponse
	if err := p.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return map[string]any{}, nil
	}
	calendar := decoded.QuoteSummary.Result[0].CalendarEvents
	if calendar == nil {
		return map[string]any{}, nil
	}
	return calendar, nil
}

func (p *YahooProvider) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "investment-research-go/1.0")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("marketdata: %s returned status %d", req.URL.Path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func hasIndex(values []*float64, i int) bool {
	return i < len(values) && values[i] != nil
}
