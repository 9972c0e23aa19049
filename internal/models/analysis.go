package models

import (
	"math"
	"time"
)

// TrendType categorizes the moving-average trend of a stock
type TrendType string

const (
	TrendBullish TrendType = "bullish"
	TrendBearish TrendType = "bearish"
)

// TrendVerdict is the deterministic trend classification for a ticker.
// Strength is a magnitude-of-conviction score independent of the label sign.
type TrendVerdict struct {
	Label    TrendType `json:"label"`
	Strength float64   `json:"strength"`
}

// TechnicalSummary is a snapshot of the latest bar plus series-wide
// aggregates over the requested window. Computed fresh on every request.
type TechnicalSummary struct {
	Ticker               string  `json:"ticker"`
	CurrentPrice         float64 `json:"current_price"`
	DailyChange          float64 `json:"daily_change"`
	DailyReturn          float64 `json:"daily_return"`
	YearlyChange         float64 `json:"yearly_change"`
	YearlyReturn         float64 `json:"yearly_return"`
	DailyVolume          int64   `json:"daily_volume"`
	AvgDailyVolume       int64   `json:"avg_daily_volume"`
	YearlyHigh           float64 `json:"yearly_high"`
	YearlyLow            float64 `json:"yearly_low"`
	DailyVolatility      float64 `json:"daily_volatility"`
	AvgDailyReturn       float64 `json:"avg_daily_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`

	// Latest-bar indicator values
	SMA20         float64 `json:"sma_20"`
	SMA50         float64 `json:"sma_50"`
	SMA200        float64 `json:"sma_200"`
	RSI           float64 `json:"rsi"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	BBUpper       float64 `json:"bb_upper"`
	BBMiddle      float64 `json:"bb_middle"`
	BBLower       float64 `json:"bb_lower"`
	ATR           float64 `json:"atr"`
	NATR          float64 `json:"natr"`
	OBV           float64 `json:"obv"`
	AD            float64 `json:"ad"`
	Momentum      float64 `json:"momentum"`
	ROC           float64 `json:"roc"`

	Trend         TrendType `json:"trend"`
	TrendStrength float64   `json:"trend_strength"`
}

// Rounded returns a copy with every float field rounded to two decimals.
// Applied once, at the serialization boundary, so rounding never chains
// through intermediate computations.
func (s TechnicalSummary) Rounded() TechnicalSummary {
	r := s
	for _, f := range []*float64{
		&r.CurrentPrice, &r.DailyChange, &r.DailyReturn,
		&r.YearlyChange, &r.YearlyReturn,
		&r.YearlyHigh, &r.YearlyLow,
		&r.DailyVolatility, &r.AvgDailyReturn, &r.AnnualizedVolatility,
		&r.SMA20, &r.SMA50, &r.SMA200,
		&r.RSI, &r.MACD, &r.MACDSignal, &r.MACDHistogram,
		&r.BBUpper, &r.BBMiddle, &r.BBLower,
		&r.ATR, &r.NATR, &r.OBV, &r.AD,
		&r.Momentum, &r.ROC, &r.TrendStrength,
	} {
		*f = math.Round(*f*100) / 100
	}
	return r
}

// FundamentalSummary contains normalized company metrics. Pointer fields
// are nil when the source payload omitted the value; nil serializes as
// JSON null, never zero.
type FundamentalSummary struct {
	MarketCap        *float64 `json:"marketCap"`
	Sector           string   `json:"sector"`
	Industry         string   `json:"industry"`
	TrailingPE       *float64 `json:"trailingPE"`
	ForwardPE        *float64 `json:"forwardPE"`
	PriceToBook      *float64 `json:"priceToBook"`
	Beta             *float64 `json:"beta"`
	DividendYield    *float64 `json:"dividendYield"`
	TrailingEPS      *float64 `json:"trailingEps"`
	ForwardEPS       *float64 `json:"forwardEps"`
	ProfitMargins    *float64 `json:"profitMargins"`
	OperatingMargins *float64 `json:"operatingMargins"`
}

// Stats combines technical and fundamental metrics for one request.
type Stats struct {
	Technical   TechnicalSummary   `json:"technical"`
	Fundamental FundamentalSummary `json:"fundamental"`
}

// BarPoint is the serialized per-bar shape returned to clients. Indicator
// values carry display fallbacks where the lookback window was not yet
// satisfied: close price for moving averages and bands, 50 for RSI, zero
// for oscillators and volume-flow indicators. All values rounded to 2dp.
type BarPoint struct {
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Volume     int64   `json:"volume"`
	Returns    float64 `json:"returns"`
	MA20       float64 `json:"ma20"`
	MA50       float64 `json:"ma50"`
	MA200      float64 `json:"ma200"`
	ATR        float64 `json:"atr"`
	OBV        float64 `json:"obv"`
	AD         float64 `json:"ad"`
	Momentum   float64 `json:"momentum"`
	ROC        float64 `json:"roc"`
	NATR       float64 `json:"natr"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	BBUpper    float64 `json:"bb_upper"`
	BBLower    float64 `json:"bb_lower"`
}

// Narrative is the structured analysis text bundle produced by the
// narrative generator.
type Narrative struct {
	Summary            string   `json:"summary"`
	TechnicalFactors   []string `json:"technicalFactors"`
	FundamentalFactors []string `json:"fundamentalFactors"`
	Outlook            string   `json:"outlook"`
	Timestamp          string   `json:"timestamp"`
}

// Analysis is the persisted unit: one shared analysis record. Created once,
// immutable thereafter, retrieved by ID.
type Analysis struct {
	ID                 string             `json:"id" badgerhold:"key"`
	StockData          []BarPoint         `json:"stock_data"`
	TechnicalMetrics   TechnicalSummary   `json:"technical_metrics"`
	FundamentalMetrics FundamentalSummary `json:"fundamental_metrics"`
	AnalysisText       Narrative          `json:"analysis_text"`
	CreatedAt          time.Time          `json:"timestamp"`
}
