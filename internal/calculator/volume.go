package calculator

// CalculateOBV accumulates +volume on up closes and -volume on down closes, starting at 0.
func CalculateOBV(closes, volumes []float64) []float64 {
	obv := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volumes[i]
		default:
			obv[i] = obv[i-1]
		}
	}
	return obv
}

// CalculateVWAP computes the cumulative volume-weighted typical price over the
// whole series, without session resets.
func CalculateVWAP(typical, volumes []float64) []float64 {
	vwap := make([]float64, len(typical))
	cumTPV, cumVol := 0.0, 0.0
	for i := range typical {
		cumTPV += volumes[i] * typical[i]
		cumVol += volumes[i]
		vwap[i] = cumTPV / cumVol
	}
	return vwap
}
