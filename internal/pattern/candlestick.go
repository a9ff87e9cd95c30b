// Package pattern inspects the most recent bars of an indicator series for
// candlestick shapes and pullback conditions.
package pattern

import (
	"math"

	"TradeAdvisor/internal/model"
)

// DetectCandlesticks examines the last three bars and returns every pattern that
// matched, in a fixed order. Fewer than three bars yields no patterns.
func DetectCandlesticks(bars []model.IndicatorBar) []model.Pattern {
	patterns := []model.Pattern{}
	if len(bars) < 3 {
		return patterns
	}
	last := bars[len(bars)-1].OHLCV
	prev := bars[len(bars)-2].OHLCV
	prev2 := bars[len(bars)-3].OHLCV

	if bearish(prev) && bullish(last) && last.Close > prev.Open {
		patterns = append(patterns, model.BullishEngulfing)
	}
	if bullish(prev) && bearish(last) && last.Close < prev.Open {
		patterns = append(patterns, model.BearishEngulfing)
	}

	body := math.Abs(last.Close - last.Open)
	lowerShadow := math.Min(last.Open, last.Close) - last.Low
	upperShadow := last.High - math.Max(last.Open, last.Close)
	if lowerShadow > 2*body && upperShadow < body {
		patterns = append(patterns, model.Hammer)
	}
	if upperShadow > 2*body && lowerShadow < body {
		patterns = append(patterns, model.ShootingStar)
	}
	if body < (last.High-last.Low)*0.1 {
		patterns = append(patterns, model.Doji)
	}

	mid := (prev2.Close + prev.Close) / 2
	if bearish(prev2) && bearish(prev) && bullish(last) && last.Close > mid {
		patterns = append(patterns, model.MorningStar)
	}
	if bullish(prev2) && bullish(prev) && bearish(last) && last.Close < mid {
		patterns = append(patterns, model.EveningStar)
	}
	return patterns
}

func bullish(b model.OHLCV) bool { return b.Close > b.Open }
func bearish(b model.OHLCV) bool { return b.Close < b.Open }
