package calculator

import (
	"TradeAdvisor/internal/model"
)

// CalculateSMA computes the simple moving average of values over each trailing window.
func CalculateSMA(values []float64, period int) []float64 {
	return rollingMean(values, period)
}

// CalculateEMA computes the exponential moving average with smoothing span `span`,
// seeded with the first value: ema[i] = ema[i-1] + α·(v[i]-ema[i-1]), α = 2/(span+1).
func CalculateEMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}

// MACD holds the MACD line and its signal line.
type MACD struct {
	Line   []float64
	Signal []float64
}

// CalculateMACD returns EMA12-EMA26 of closes and the EMA9 of that difference.
func CalculateMACD(closes []float64) MACD {
	fast := CalculateEMA(closes, 12)
	slow := CalculateEMA(closes, 26)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	return MACD{Line: line, Signal: CalculateEMA(line, 9)}
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
