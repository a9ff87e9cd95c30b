package model

import (
	"math"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TypicalPrice returns (high+low+close)/3.
func (b OHLCV) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// MarketSnapshot is the raw data fetched for one analysis run.
type MarketSnapshot struct {
	Symbol    string
	Timeframe string
	Price     float64
	Bars      []OHLCV // oldest first
	FetchedAt time.Time
}

// Undefined marks an indicator value whose trailing window is not yet filled.
var Undefined = math.NaN()

// Defined reports whether v holds a usable indicator reading.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
