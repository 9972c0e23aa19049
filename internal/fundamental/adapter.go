// Package fundamental normalizes raw quote-summary payloads into typed
// company metrics.
package fundamental

import (
	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// Normalize converts a flattened quote-summary payload into a
// FundamentalSummary. Missing or malformed values become nil pointers, never
// zero: a zero beta is a real observation and a nil beta is an unknown, and
// the two must stay distinguishable all the way to the JSON boundary.
// Ratio fields quoted as fractions upstream are scaled to percent, only
// when present.
func Normalize(raw map[string]interface{}) models.FundamentalSummary {
	s := models.FundamentalSummary{
		Sector:   stringOr(raw, "sector", "N/A"),
		Industry: stringOr(raw, "industry", "N/A"),
	}

	s.MarketCap = number(raw, "marketCap")
	s.TrailingPE = rounded(raw, "trailingPE")
	s.ForwardPE = rounded(raw, "forwardPE")
	s.PriceToBook = rounded(raw, "priceToBook")
	s.Beta = rounded(raw, "beta")
	s.TrailingEPS = rounded(raw, "trailingEps")
	s.ForwardEPS = rounded(raw, "forwardEps")
	s.DividendYield = percent(raw, "dividendYield")
	s.ProfitMargins = percent(raw, "profitMargins")
	s.OperatingMargins = percent(raw, "operatingMargins")

	return s
}

// number extracts a numeric field, unwrapping the {"raw": n, "fmt": "..."}
// envelope the quote-summary API wraps most numbers in.
func number(raw map[string]interface{}, key string) *float64 {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		return &x
	case int64:
		f := float64(x)
		return &f
	case map[string]interface{}:
		if inner, ok := x["raw"].(float64); ok {
			return &inner
		}
	}
	return nil
}

func rounded(raw map[string]interface{}, key string) *float64 {
	p := number(raw, key)
	if p == nil {
		return nil
	}
	r := common.Round2(*p)
	return &r
}

// percent scales a fractional ratio to percent units.
func percent(raw map[string]interface{}, key string) *float64 {
	p := number(raw, key)
	if p == nil {
		return nil
	}
	r := common.Round2(*p * 100)
	return &r
}

func stringOr(raw map[string]interface{}, key, def string) string {
	if v, ok := raw[key].(string); ok && v != "" {
		return v
	}
	return def
}
