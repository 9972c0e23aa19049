package indicator

import (
	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// Points serializes a computed series into per-bar records. Undefined
// indicator values are substituted with display fallbacks here and nowhere
// earlier: the close price for moving averages and bands, the neutral 50
// for RSI, and zero for oscillators and volume-derived values. All floats
// are rounded to two decimals.
func (cs *ComputedSeries) Points() []models.BarPoint {
	points := make([]models.BarPoint, cs.Len())
	for i, b := range cs.Bars {
		points[i] = models.BarPoint{
			Date:       b.Date.Format("2006-01-02"),
			Price:      common.Round2(b.Close),
			Open:       common.Round2(b.Open),
			High:       common.Round2(b.High),
			Low:        common.Round2(b.Low),
			Volume:     b.Volume,
			Returns:    fallback(cs.Returns[i], 0),
			MA20:       fallback(cs.SMA20[i], b.Close),
			MA50:       fallback(cs.SMA50[i], b.Close),
			MA200:      fallback(cs.SMA200[i], b.Close),
			ATR:        fallback(cs.ATR[i], 0),
			OBV:        fallback(cs.OBV[i], 0),
			AD:         fallback(cs.AD[i], 0),
			Momentum:   fallback(cs.Momentum[i], 0),
			ROC:        fallback(cs.ROC[i], 0),
			NATR:       fallback(cs.NATR[i], 0),
			RSI:        fallback(cs.RSI[i], 50),
			MACD:       fallback(cs.MACD[i], 0),
			MACDSignal: fallback(cs.MACDSig[i], 0),
			BBUpper:    fallback(cs.BBUpper[i], b.Close),
			BBLower:    fallback(cs.BBLower[i], b.Close),
		}
	}
	return points
}

func fallback(v, def float64) float64 {
	if !Defined(v) {
		return common.Round2(def)
	}
	return common.Round2(v)
}
