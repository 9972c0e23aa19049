package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// makeSeries builds n daily bars ending today, with a gently oscillating
// uptrend so every indicator has non-degenerate input.
func makeSeries(t *testing.T, symbol string, n int) *models.Series {
	t.Helper()

	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		base := 100.0 + 0.1*float64(i) + 3.0*math.Sin(float64(i)/9.0)
		bars[i] = models.Bar{
			Date:   end.AddDate(0, 0, i-n+1),
			Open:   base - 0.5,
			High:   base + 1.0,
			Low:    base - 1.0,
			Close:  base,
			Volume: 1_000_000 + int64(i)*500,
		}
	}
	return &models.Series{Symbol: symbol, Interval: "1d", Bars: bars}
}

func TestComputeRejectsShortSeries(t *testing.T) {
	series := makeSeries(t, "XYZ", 199)

	_, err := Compute(series)
	if err == nil {
		t.Fatal("expected error for 199-bar series, got nil")
	}
	if !errors.Is(err, common.ErrIndicatorComputation) {
		t.Errorf("expected ErrIndicatorComputation, got %v", err)
	}
}

func TestComputeLatestBarAllDefined(t *testing.T) {
	series := makeSeries(t, "AAPL", 300)

	cs, err := Compute(series)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	last := cs.Len() - 1
	checks := map[string]float64{
		"sma20":       cs.SMA20[last],
		"sma50":       cs.SMA50[last],
		"sma200":      cs.SMA200[last],
		"rsi":         cs.RSI[last],
		"macd":        cs.MACD[last],
		"macd_signal": cs.MACDSig[last],
		"macd_hist":   cs.MACDHist[last],
		"bb_upper":    cs.BBUpper[last],
		"bb_middle":   cs.BBMiddle[last],
		"bb_lower":    cs.BBLower[last],
		"atr":         cs.ATR[last],
		"natr":        cs.NATR[last],
		"obv":         cs.OBV[last],
		"ad":          cs.AD[last],
		"momentum":    cs.Momentum[last],
		"roc":         cs.ROC[last],
		"returns":     cs.Returns[last],
	}
	for name, v := range checks {
		if !Defined(v) {
			t.Errorf("%s undefined on latest bar", name)
		}
	}
}

func TestComputeWarmupUndefined(t *testing.T) {
	series := makeSeries(t, "AAPL", 250)

	cs, err := Compute(series)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	tests := []struct {
		name         string
		vals         []float64
		firstDefined int
	}{
		{"sma20", cs.SMA20, 19},
		{"sma50", cs.SMA50, 49},
		{"sma200", cs.SMA200, 199},
		{"rsi", cs.RSI, 14},
		{"macd", cs.MACD, 25},
		{"macd_signal", cs.MACDSig, 33},
		{"bb_middle", cs.BBMiddle, 19},
		{"atr", cs.ATR, 14},
		{"momentum", cs.Momentum, 10},
		{"roc", cs.ROC, 10},
		{"returns", cs.Returns, 1},
	}
	for _, tt := range tests {
		if tt.firstDefined > 0 && Defined(tt.vals[tt.firstDefined-1]) {
			t.Errorf("%s defined at index %d, want undefined", tt.name, tt.firstDefined-1)
		}
		if !Defined(tt.vals[tt.firstDefined]) {
			t.Errorf("%s undefined at index %d, want defined", tt.name, tt.firstDefined)
		}
	}
}

// Trimming after computation must not equal computing on a pre-trimmed
// series: bars near the start of the window keep their full-history
// lookback in the first case and lose it in the second.
func TestTrimAfterComputeDiffersFromComputeAfterTrim(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	full := makeSeries(t, "AAPL", 600)

	cs, err := Compute(full)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	trimmedAfter := Trim(cs, "1y", now)

	cutoff := now.AddDate(-1, 0, 0)
	var shortBars []models.Bar
	for _, b := range full.Bars {
		if !b.Date.Before(cutoff) {
			shortBars = append(shortBars, b)
		}
	}
	if len(shortBars) < SMALong {
		t.Fatalf("fixture too short after pre-trim: %d bars", len(shortBars))
	}
	csPre, err := Compute(&models.Series{Symbol: "AAPL", Interval: "1d", Bars: shortBars})
	if err != nil {
		t.Fatalf("Compute on pre-trimmed series failed: %v", err)
	}

	if trimmedAfter.Len() != csPre.Len() {
		t.Fatalf("window length mismatch: %d vs %d", trimmedAfter.Len(), csPre.Len())
	}

	// The first bar of the window has a full 200-bar lookback only in the
	// compute-then-trim ordering.
	if !Defined(trimmedAfter.SMA200[0]) {
		t.Error("compute-then-trim lost the long moving average at window start")
	}
	if Defined(csPre.SMA200[0]) {
		t.Error("trim-then-compute should have no long moving average at window start")
	}
	if Defined(csPre.SMA200[0]) == Defined(trimmedAfter.SMA200[0]) {
		t.Error("orderings must disagree at the window start")
	}
}

func TestTrimMaxKeepsEverything(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cs, err := Compute(makeSeries(t, "AAPL", 300))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	trimmed := Trim(cs, "max", now)
	if trimmed.Len() != 300 {
		t.Errorf("max trim changed length: got %d, want 300", trimmed.Len())
	}
}

func TestTrimKeepsAtLeastOneBar(t *testing.T) {
	// All bars predate the cutoff; the latest bar must survive.
	end := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 300)
	for i := range bars {
		bars[i] = models.Bar{Date: end.AddDate(0, 0, i-299), Open: 10, High: 11, Low: 9, Close: 10, Volume: 100}
	}
	cs, err := Compute(&models.Series{Symbol: "OLD", Interval: "1d", Bars: bars})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	trimmed := Trim(cs, "1mo", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if trimmed.Len() != 1 {
		t.Errorf("got %d bars, want 1", trimmed.Len())
	}
}

func TestSummarizeAggregates(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cs, err := Compute(makeSeries(t, "AAPL", 400))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	trimmed := Trim(cs, "6mo", now)
	s := Summarize(trimmed)

	if s.Ticker != "AAPL" {
		t.Errorf("ticker: got %q, want AAPL", s.Ticker)
	}
	latest := trimmed.Bars[trimmed.Len()-1]
	if s.CurrentPrice != latest.Close {
		t.Errorf("current price: got %v, want %v", s.CurrentPrice, latest.Close)
	}
	if s.DailyVolume != latest.Volume {
		t.Errorf("daily volume: got %v, want %v", s.DailyVolume, latest.Volume)
	}

	prev := trimmed.Bars[trimmed.Len()-2]
	if got, want := s.DailyChange, latest.Close-prev.Close; math.Abs(got-want) > 1e-9 {
		t.Errorf("daily change: got %v, want %v", got, want)
	}

	first := trimmed.Bars[0]
	wantReturn := (latest.Close/first.Close - 1) * 100
	if math.Abs(s.YearlyReturn-wantReturn) > 1e-9 {
		t.Errorf("window return: got %v, want %v", s.YearlyReturn, wantReturn)
	}

	for _, b := range trimmed.Bars {
		if b.High > s.YearlyHigh {
			t.Errorf("window high %v below bar high %v", s.YearlyHigh, b.High)
		}
		if b.Low < s.YearlyLow {
			t.Errorf("window low %v above bar low %v", s.YearlyLow, b.Low)
		}
	}

	if s.DailyVolatility <= 0 {
		t.Error("volatility should be positive for oscillating fixture")
	}
	wantAnnualized := s.DailyVolatility * math.Sqrt(252)
	if math.Abs(s.AnnualizedVolatility-wantAnnualized) > 1e-9 {
		t.Errorf("annualized volatility: got %v, want %v", s.AnnualizedVolatility, wantAnnualized)
	}
}

func TestPointsFallbacks(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cs, err := Compute(makeSeries(t, "AAPL", 260))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	// max keeps the warm-up region where fallbacks apply.
	points := Trim(cs, "max", now).Points()

	if len(points) != 260 {
		t.Fatalf("got %d points, want 260", len(points))
	}

	first := points[0]
	if first.MA200 != common.Round2(cs.Bars[0].Close) {
		t.Errorf("ma200 fallback: got %v, want close %v", first.MA200, common.Round2(cs.Bars[0].Close))
	}
	if first.RSI != 50 {
		t.Errorf("rsi fallback: got %v, want 50", first.RSI)
	}
	if first.MACD != 0 {
		t.Errorf("macd fallback: got %v, want 0", first.MACD)
	}
	if first.Returns != 0 {
		t.Errorf("returns fallback: got %v, want 0", first.Returns)
	}

	last := points[len(points)-1]
	if last.RSI == 50 && cs.RSI[cs.Len()-1] != 50 {
		t.Error("latest rsi should carry the computed value, not the fallback")
	}
	if last.Date != "2026-09-01" {
		t.Errorf("date format: got %q, want 2026-09-01", last.Date)
	}

	for _, p := range points {
		if math.IsNaN(p.MA20) || math.IsNaN(p.RSI) || math.IsNaN(p.MACD) {
			t.Fatal("serialized points must never carry NaN")
		}
	}
}
