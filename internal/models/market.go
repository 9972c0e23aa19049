// Package models defines data structures for StockSage.
package models

import (
	"time"
)

// Bar represents a single OHLCV observation.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is an ordered sequence of bars for one symbol at one interval.
// Bars are ascending by date with no duplicate timestamps.
type Series struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	return len(s.Bars)
}

// Latest returns the most recent bar. The series must be non-empty.
func (s *Series) Latest() Bar {
	return s.Bars[len(s.Bars)-1]
}

// ExtractedQuery holds the stock symbol and history window extracted
// from a free-text user query.
type ExtractedQuery struct {
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`   // 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max
	Interval string `json:"interval"` // e.g. 1h, 1d, 1wk, 1mo
}

// ValidPeriods are the history window tokens accepted from the query interpreter.
var ValidPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// ValidIntervals are the bar granularity tokens accepted from the query interpreter.
var ValidIntervals = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true, "1h": true,
	"1d": true, "5d": true, "1wk": true, "1mo": true,
}
