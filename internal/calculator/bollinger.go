package calculator

// BollingerBands holds the middle band, the window deviation and the ±k·σ bands.
type BollingerBands struct {
	Mid  []float64
	Std  []float64
	High []float64
	Low  []float64
}

// CalculateBollingerBands uses the trailing mean and sample standard deviation of closes.
func CalculateBollingerBands(closes []float64, period int, multiplier float64) BollingerBands {
	mid := rollingMean(closes, period)
	std := rollingStd(closes, period)
	high := make([]float64, len(closes))
	low := make([]float64, len(closes))
	for i := range closes {
		high[i] = mid[i] + multiplier*std[i]
		low[i] = mid[i] - multiplier*std[i]
	}
	return BollingerBands{Mid: mid, Std: std, High: high, Low: low}
}
