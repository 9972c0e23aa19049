// Package market provides the Yahoo Finance market-data client.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/config"
	"github.com/bobmcallan/stocksage/internal/models"
)

// minBars is the shortest history usable for any indicator computation
// (the 20-bar moving average window).
const minBars = 20

// Client fetches price history and company fundamentals from the Yahoo
// Finance public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg *config.YahooConfig, logger *common.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger,
	}
}

// chartResponse is the response structure from the Yahoo Finance chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// yahooInterval maps an extracted interval token to the chart API parameter.
func yahooInterval(interval string) string {
	if interval == "1h" {
		return "60m"
	}
	return interval
}

// rangeForInterval returns the widest range the chart API serves for an
// interval. Indicator computation needs the longest available lookback, so
// the full range is always fetched; trimming to the requested period
// happens after computation.
func rangeForInterval(interval string) string {
	switch interval {
	case "1m":
		return "7d"
	case "5m", "15m", "30m":
		return "60d"
	case "1h":
		return "730d"
	default:
		return "max"
	}
}

// FetchHistory fetches the maximum available price history for a symbol at
// the given interval. Returns common.ErrNoData when the provider has
// nothing for the symbol and common.ErrInsufficientData below 20 bars.
func (c *Client) FetchHistory(ctx context.Context, symbol, interval string) (*models.Series, error) {
	yi := yahooInterval(interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), yi, rangeForInterval(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: chart fetch for %s: %v", common.ErrExternalService, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: chart read body: %v", common.ErrExternalService, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", common.ErrNoData, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart status %d for %s", common.ErrExternalService, resp.StatusCode, symbol)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: chart decode: %v", common.ErrExternalService, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrNoData, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoData, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoData, symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, models.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: int64(toFloat(quote.Volume[i])),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoData, symbol)
	}
	if len(bars) < minBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need at least %d", common.ErrInsufficientData, symbol, len(bars), minBars)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.logger.Debug().
		Str("symbol", symbol).
		Str("interval", interval).
		Int("bars", len(bars)).
		Msg("Fetched price history")

	return &models.Series{
		Symbol:   symbol,
		Interval: interval,
		Bars:     bars,
	}, nil
}

// quoteSummaryResponse is the response structure from the quoteSummary API.
// All values arrive as {raw, fmt} wrappers or plain scalars, so the payload
// is kept as raw maps and normalized downstream.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]interface{} `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// fundamentalsModules are the quoteSummary modules fetched for company metrics.
const fundamentalsModules = "summaryProfile,summaryDetail,defaultKeyStatistics,financialData"

// FetchFundamentals fetches the raw company-info payload for a symbol.
// Module fields are flattened into a single map; later modules do not
// overwrite earlier ones. Failures surface as errors and the caller decides
// whether to degrade.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), fundamentalsModules)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fundamentals fetch for %s: %v", common.ErrExternalService, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: fundamentals read body: %v", common.ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fundamentals status %d for %s", common.ErrExternalService, resp.StatusCode, symbol)
	}

	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("%w: fundamentals decode: %v", common.ErrExternalService, err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: fundamentals for %s: %s", common.ErrExternalService, symbol, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: fundamentals empty for %s", common.ErrExternalService, symbol)
	}

	flat := make(map[string]interface{})
	for _, module := range summary.QuoteSummary.Result[0] {
		for k, v := range module {
			if _, exists := flat[k]; !exists {
				flat[k] = v
			}
		}
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Int("fields", len(flat)).
		Msg("Fetched fundamentals")

	return flat, nil
}
