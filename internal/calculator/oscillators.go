package calculator

import "math"

// Stochastic holds %K and its 3-bar mean %D.
type Stochastic struct {
	K []float64
	D []float64
}

// CalculateStochastic computes 100·(close-low_n)/(high_n-low_n) and its 3-bar mean.
func CalculateStochastic(highs, lows, closes []float64, period int) Stochastic {
	hh := rollingMax(highs, period)
	ll := rollingMin(lows, period)
	k := make([]float64, len(closes))
	for i := range closes {
		k[i] = 100 * (closes[i] - ll[i]) / (hh[i] - ll[i])
	}
	return Stochastic{K: k, D: rollingMean(k, 3)}
}

// CalculateWilliamsR computes (highest_high - close)/(highest_high - lowest_low) × -100.
func CalculateWilliamsR(highs, lows, closes []float64, period int) []float64 {
	hh := rollingMax(highs, period)
	ll := rollingMin(lows, period)
	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = (hh[i] - closes[i]) / (hh[i] - ll[i]) * -100
	}
	return out
}

// CalculateCCI computes (tp - mean_n(tp)) / (0.015 × meanAbsDev_n(tp)).
func CalculateCCI(typical []float64, period int) []float64 {
	ma := rollingMean(typical, period)
	md := rollingMeanAbsDev(typical, period)
	out := make([]float64, len(typical))
	for i := range typical {
		out[i] = (typical[i] - ma[i]) / (0.015 * md[i])
	}
	return out
}

// CalculateADX is the simplified directional index: trailing sums of +DM and -DM
// over a trailing mean of true range, then a trailing mean of DX.
// -DM is the absolute change of the low, not the classic down-move.
func CalculateADX(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	plusDM := undefined(n)
	minusDM := undefined(n)
	tr := make([]float64, n)
	if n > 0 {
		tr[0] = highs[0] - lows[0]
	}
	for i := 1; i < n; i++ {
		plusDM[i] = math.Max(highs[i]-highs[i-1], 0)
		minusDM[i] = math.Abs(lows[i] - lows[i-1])
		tr[i] = math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
	}

	atr := rollingMean(tr, period)
	plusSum := rollingSum(plusDM, period)
	minusSum := rollingSum(minusDM, period)
	dx := make([]float64, n)
	for i := range dx {
		plusDI := 100 * plusSum[i] / atr[i]
		minusDI := 100 * minusSum[i] / atr[i]
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}
	return rollingMean(dx, period)
}

// CalculateUltimateOscillator weights the 7/14/28-bar buying-pressure ratios 4:2:1.
// Buying pressure is close - previous low; true range is
// max(high, previous low) - min(low, previous high).
func CalculateUltimateOscillator(highs, lows, closes []float64) []float64 {
	n := len(closes)
	prevLow := shift(lows)
	prevHigh := shift(highs)
	bp := make([]float64, n)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		bp[i] = closes[i] - prevLow[i]
		if i == 0 {
			tr[i] = highs[i] - lows[i]
			continue
		}
		tr[i] = math.Max(highs[i], prevLow[i]) - math.Min(lows[i], prevHigh[i])
	}

	avg := func(period int) []float64 {
		b := rollingSum(bp, period)
		t := rollingSum(tr, period)
		out := make([]float64, n)
		for i := range out {
			out[i] = b[i] / t[i]
		}
		return out
	}
	a7, a14, a28 := avg(7), avg(14), avg(28)
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 * (4*a7[i] + 2*a14[i] + a28[i]) / 7
	}
	return out
}
