// Package indicator computes technical indicators and classifies trend.
//
// Indicators are always computed over the full fetched history first;
// trimming to the user-requested period happens strictly afterward, so that
// moving averages and oscillators near the start of the trimmed window are
// computed from real lookback data rather than a truncated window.
package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/markcheno/go-talib"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// Lookback windows. SMALong is the longest window and sets the minimum
// series length for full computation.
const (
	SMAShort = 20
	SMAMid   = 50
	SMALong  = 200

	RSIWindow = 14

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	BBWindow     = 20
	BBMultiplier = 2.0

	ATRWindow = 14

	MomentumWindow = 10
	ROCWindow      = 10
)

// ComputedSeries is a bar series augmented with per-bar indicator values.
// Bars preceding an indicator's lookback window carry NaN for that
// indicator; display fallbacks are substituted only at serialization.
type ComputedSeries struct {
	Symbol   string
	Interval string
	Bars     []models.Bar

	Returns  []float64 // 1-bar rate of change, percent
	SMA20    []float64
	SMA50    []float64
	SMA200   []float64
	RSI      []float64
	MACD     []float64
	MACDSig  []float64
	MACDHist []float64
	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64
	ATR      []float64
	NATR     []float64
	OBV      []float64
	AD       []float64
	Momentum []float64
	ROC      []float64
}

// Len returns the number of bars in the computed series.
func (cs *ComputedSeries) Len() int {
	return len(cs.Bars)
}

// Compute runs the full indicator set over a series. The series must cover
// the longest lookback window (200 bars); shorter series fail with
// common.ErrIndicatorComputation.
func Compute(series *models.Series) (*ComputedSeries, error) {
	n := series.Len()
	if n < SMALong {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", common.ErrIndicatorComputation, series.Symbol, n, SMALong)
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range series.Bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = float64(b.Volume)
	}

	cs := &ComputedSeries{
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Bars:     series.Bars,
	}

	cs.Returns = markUndefined(talib.Roc(closes, 1), 1)
	cs.SMA20 = markUndefined(talib.Sma(closes, SMAShort), SMAShort-1)
	cs.SMA50 = markUndefined(talib.Sma(closes, SMAMid), SMAMid-1)
	cs.SMA200 = markUndefined(talib.Sma(closes, SMALong), SMALong-1)
	cs.RSI = markUndefined(talib.Rsi(closes, RSIWindow), RSIWindow)

	macd, sig, hist := talib.Macd(closes, MACDFast, MACDSlow, MACDSignal)
	cs.MACD = markUndefined(macd, MACDSlow-1)
	cs.MACDSig = markUndefined(sig, MACDSlow+MACDSignal-2)
	cs.MACDHist = markUndefined(hist, MACDSlow+MACDSignal-2)

	upper, middle, lower := talib.BBands(closes, BBWindow, BBMultiplier, BBMultiplier, talib.SMA)
	cs.BBUpper = markUndefined(upper, BBWindow-1)
	cs.BBMiddle = markUndefined(middle, BBWindow-1)
	cs.BBLower = markUndefined(lower, BBWindow-1)

	cs.ATR = markUndefined(talib.Atr(highs, lows, closes, ATRWindow), ATRWindow)
	cs.NATR = markUndefined(talib.Natr(highs, lows, closes, ATRWindow), ATRWindow)
	cs.OBV = talib.Obv(closes, volumes)
	cs.AD = talib.Ad(highs, lows, closes, volumes)
	cs.Momentum = markUndefined(talib.Mom(closes, MomentumWindow), MomentumWindow)
	cs.ROC = markUndefined(talib.Roc(closes, ROCWindow), ROCWindow)

	return cs, nil
}

// markUndefined replaces the zero-padded warm-up values talib emits with an
// explicit NaN marker. firstDefined is the first index where the lookback
// window is satisfied.
func markUndefined(vals []float64, firstDefined int) []float64 {
	for i := 0; i < firstDefined && i < len(vals); i++ {
		vals[i] = math.NaN()
	}
	return vals
}

// Defined reports whether v carries a computed indicator value.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// periodCutoff returns the earliest date included in a period window
// ending at now. The boolean is false for "max" (no cutoff).
func periodCutoff(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "1d":
		return now.AddDate(0, 0, -1), true
	case "5d":
		return now.AddDate(0, 0, -5), true
	case "1mo":
		return now.AddDate(0, -1, 0), true
	case "3mo":
		return now.AddDate(0, -3, 0), true
	case "6mo":
		return now.AddDate(0, -6, 0), true
	case "1y":
		return now.AddDate(-1, 0, 0), true
	case "2y":
		return now.AddDate(-2, 0, 0), true
	case "5y":
		return now.AddDate(-5, 0, 0), true
	case "10y":
		return now.AddDate(-10, 0, 0), true
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default: // "max" or unrecognized
		return time.Time{}, false
	}
}

// Trim cuts a computed series to the requested period. Indicator values are
// carried over unchanged; they were computed over the full history and a
// trim must never recompute them. At least one bar is always retained.
func Trim(cs *ComputedSeries, period string, now time.Time) *ComputedSeries {
	cutoff, ok := periodCutoff(period, now)
	if !ok {
		return cs
	}

	n := cs.Len()
	start := n
	for i := 0; i < n; i++ {
		if !cs.Bars[i].Date.Before(cutoff) {
			start = i
			break
		}
	}
	if start >= n {
		start = n - 1
	}
	if start == 0 {
		return cs
	}

	return &ComputedSeries{
		Symbol:   cs.Symbol,
		Interval: cs.Interval,
		Bars:     cs.Bars[start:],
		Returns:  cs.Returns[start:],
		SMA20:    cs.SMA20[start:],
		SMA50:    cs.SMA50[start:],
		SMA200:   cs.SMA200[start:],
		RSI:      cs.RSI[start:],
		MACD:     cs.MACD[start:],
		MACDSig:  cs.MACDSig[start:],
		MACDHist: cs.MACDHist[start:],
		BBUpper:  cs.BBUpper[start:],
		BBMiddle: cs.BBMiddle[start:],
		BBLower:  cs.BBLower[start:],
		ATR:      cs.ATR[start:],
		NATR:     cs.NATR[start:],
		OBV:      cs.OBV[start:],
		AD:       cs.AD[start:],
		Momentum: cs.Momentum[start:],
		ROC:      cs.ROC[start:],
	}
}

// Summarize builds a TechnicalSummary from the latest bar plus aggregates
// over the trimmed window. Values keep full float precision; rounding is
// applied at the serialization boundary via TechnicalSummary.Rounded.
// Trend fields are left zero; classification is a separate step.
func Summarize(cs *ComputedSeries) models.TechnicalSummary {
	n := cs.Len()
	last := n - 1
	latest := cs.Bars[last]

	s := models.TechnicalSummary{
		Ticker:       cs.Symbol,
		CurrentPrice: latest.Close,
		DailyVolume:  latest.Volume,
		YearlyHigh:   latest.High,
		YearlyLow:    latest.Low,

		SMA20:         cs.SMA20[last],
		SMA50:         cs.SMA50[last],
		SMA200:        cs.SMA200[last],
		RSI:           cs.RSI[last],
		MACD:          cs.MACD[last],
		MACDSignal:    cs.MACDSig[last],
		MACDHistogram: cs.MACDHist[last],
		BBUpper:       cs.BBUpper[last],
		BBMiddle:      cs.BBMiddle[last],
		BBLower:       cs.BBLower[last],
		ATR:           cs.ATR[last],
		NATR:          cs.NATR[last],
		OBV:           cs.OBV[last],
		AD:            cs.AD[last],
		Momentum:      cs.Momentum[last],
		ROC:           cs.ROC[last],
	}

	if n >= 2 {
		prev := cs.Bars[last-1]
		s.DailyChange = latest.Close - prev.Close
		if Defined(cs.Returns[last]) {
			s.DailyReturn = cs.Returns[last]
		}
		first := cs.Bars[0]
		s.YearlyChange = latest.Close - first.Close
		if first.Close != 0 {
			s.YearlyReturn = (latest.Close/first.Close - 1) * 100
		}
	}

	var volSum float64
	for _, b := range cs.Bars {
		volSum += float64(b.Volume)
		if b.High > s.YearlyHigh {
			s.YearlyHigh = b.High
		}
		if b.Low < s.YearlyLow {
			s.YearlyLow = b.Low
		}
	}
	s.AvgDailyVolume = int64(volSum / float64(n))

	returns := definedValues(cs.Returns)
	if len(returns) > 0 {
		s.AvgDailyReturn = mean(returns)
	}
	if len(returns) > 1 {
		s.DailyVolatility = stddev(returns)
		s.AnnualizedVolatility = s.DailyVolatility * math.Sqrt(252)
	}

	return s
}

// definedValues filters out NaN warm-up markers.
func definedValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if Defined(v) {
			out = append(out, v)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(vals []float64) float64 {
	m := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}
