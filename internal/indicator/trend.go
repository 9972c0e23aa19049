package indicator

import (
	"math"

	"github.com/bobmcallan/stocksage/internal/models"
)

// Classify labels a summary bullish or bearish. The bullish verdict is
// conjunctive: the mid-term average must sit above the long-term average,
// MACD above its signal line, RSI above the neutral 50, and the latest
// close above the Bollinger middle band. Any single miss yields bearish.
//
// Strength is the mean of three magnitude terms, each expressed in
// comparable percent-scale units:
//
//	|SMA50 - SMA200| / SMA200 * 100
//	|RSI - 50|
//	|MACD histogram| / close * 100
//
// The verdict keeps full precision; rounding happens at serialization.
func Classify(s models.TechnicalSummary) models.TrendVerdict {
	label := models.TrendBearish
	if s.SMA50 > s.SMA200 &&
		s.MACD > s.MACDSignal &&
		s.RSI > 50 &&
		s.CurrentPrice > s.BBMiddle {
		label = models.TrendBullish
	}

	var maTerm, histTerm float64
	if s.SMA200 != 0 {
		maTerm = math.Abs(s.SMA50-s.SMA200) / s.SMA200 * 100
	}
	rsiTerm := math.Abs(s.RSI - 50)
	if s.CurrentPrice != 0 {
		histTerm = math.Abs(s.MACDHistogram) / s.CurrentPrice * 100
	}

	return models.TrendVerdict{
		Label:    label,
		Strength: (maTerm + rsiTerm + histTerm) / 3,
	}
}
