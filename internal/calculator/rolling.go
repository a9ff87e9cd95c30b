package calculator

import (
	"math"

	"TradeAdvisor/internal/model"

	"github.com/markcheno/go-talib"
)

// windowFunc is a trailing-window talib function that returns a slice of the
// same length as its input with the first period-1 entries unset.
type windowFunc func(in []float64, period int) []float64

// rolling applies fn over every trailing window of the given period.
// A window that is not yet full, or that contains an undefined value, yields
// model.Undefined.
func rolling(fn windowFunc, in []float64, period int) []float64 {
	out := undefined(len(in))
	if period <= 0 {
		return out
	}
	start := 0
	for i := 0; i <= len(in); i++ {
		if i < len(in) && model.Defined(in[i]) {
			continue
		}
		// in[start:i] is a run of defined values
		if i-start >= period {
			vals := fn(in[start:i], period)
			copy(out[start+period-1:i], vals[period-1:])
		}
		start = i + 1
	}
	return out
}

func rollingSum(in []float64, period int) []float64  { return rolling(talib.Sum, in, period) }
func rollingMean(in []float64, period int) []float64 { return rolling(talib.Sma, in, period) }
func rollingMax(in []float64, period int) []float64  { return rolling(talib.Max, in, period) }
func rollingMin(in []float64, period int) []float64  { return rolling(talib.Min, in, period) }

// rollingStd is the sample (n-1) standard deviation over each trailing window.
func rollingStd(in []float64, period int) []float64 {
	return rolling(func(seg []float64, p int) []float64 {
		out := make([]float64, len(seg))
		for i := p - 1; i < len(seg); i++ {
			w := seg[i-p+1 : i+1]
			m := mean(w)
			ss := 0.0
			for _, v := range w {
				ss += (v - m) * (v - m)
			}
			out[i] = math.Sqrt(ss / float64(p-1))
		}
		return out
	}, in, period)
}

// rollingMeanAbsDev is the mean absolute deviation from the window mean.
func rollingMeanAbsDev(in []float64, period int) []float64 {
	return rolling(func(seg []float64, p int) []float64 {
		out := make([]float64, len(seg))
		for i := p - 1; i < len(seg); i++ {
			w := seg[i-p+1 : i+1]
			m := mean(w)
			dev := 0.0
			for _, v := range w {
				dev += math.Abs(v - m)
			}
			out[i] = dev / float64(p)
		}
		return out
	}, in, period)
}

func mean(w []float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = model.Undefined
	}
	return out
}

// shift returns in moved forward by one bar; the first entry is undefined.
func shift(in []float64) []float64 {
	out := undefined(len(in))
	if len(in) > 1 {
		copy(out[1:], in[:len(in)-1])
	}
	return out
}
