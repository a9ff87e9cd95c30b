package pattern

import (
	"math"

	"TradeAdvisor/internal/model"
)

// Pullback thresholds, as fractions of price.
const (
	maTolerance     = 0.01
	longMATolerance = 0.015
	lowBandFactor   = 1.01
	highBandFactor  = 0.99
)

// PullbackChecks reports which of the three independent pullback conditions hold
// on the last bar.
type PullbackChecks struct {
	NearShortMA bool // close within 1% of ema20 or ema50
	NearBand    bool // close within 1% of a Bollinger edge, or beyond it
	NearLongMA  bool // close within 1.5% of sma200
}

// Count is the number of conditions that hold (0-3).
func (c PullbackChecks) Count() int {
	n := 0
	for _, ok := range []bool{c.NearShortMA, c.NearBand, c.NearLongMA} {
		if ok {
			n++
		}
	}
	return n
}

// CheckPullbacks evaluates the pullback conditions on the last bar. Undefined
// indicator values never satisfy a condition.
func CheckPullbacks(bars []model.IndicatorBar) PullbackChecks {
	var c PullbackChecks
	if len(bars) == 0 {
		return c
	}
	last := bars[len(bars)-1]
	price := last.Close

	c.NearShortMA = distance(price, last.EMA20) < maTolerance || distance(price, last.EMA50) < maTolerance
	c.NearBand = price < last.BBLow*lowBandFactor || price > last.BBHigh*highBandFactor
	c.NearLongMA = distance(price, last.SMA200) < longMATolerance
	return c
}

// DetectPullbacks returns the pullback count for the last bar.
func DetectPullbacks(bars []model.IndicatorBar) int {
	return CheckPullbacks(bars).Count()
}

// Detect runs candlestick and pullback detection together.
func Detect(bars []model.IndicatorBar) ([]model.Pattern, int) {
	return DetectCandlesticks(bars), DetectPullbacks(bars)
}

func distance(price, ref float64) float64 {
	return math.Abs(price-ref) / ref
}
