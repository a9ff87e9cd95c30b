package calculator

// CalculateRSI computes the RSI from simple trailing means of close-to-close gains
// and losses. The change into the first bar counts as zero, so the first defined
// value sits at index period-1. avg_loss == 0 gives 100 when there were gains and
// an undefined value when there was no movement at all.
func CalculateRSI(closes []float64, period int) []float64 {
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}
	return ratioIndex(rollingMean(gains, period), rollingMean(losses, period))
}

// CalculateMFI computes the money-flow index: typical price × volume split into
// positive and negative flow by the direction of the typical price, summed over
// the trailing window and converted like RSI.
func CalculateMFI(typical, volumes []float64, period int) []float64 {
	pos := make([]float64, len(typical))
	neg := make([]float64, len(typical))
	for i := 1; i < len(typical); i++ {
		flow := typical[i] * volumes[i]
		if typical[i] > typical[i-1] {
			pos[i] = flow
		} else if typical[i] < typical[i-1] {
			neg[i] = flow
		}
	}
	return ratioIndex(rollingSum(pos, period), rollingSum(neg, period))
}

// ratioIndex maps up/down to 100 - 100/(1+up/down) element-wise.
func ratioIndex(up, down []float64) []float64 {
	out := make([]float64, len(up))
	for i := range up {
		out[i] = 100 - 100/(1+up[i]/down[i])
	}
	return out
}
