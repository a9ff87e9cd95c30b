package calculator

import (
	"math"
	"testing"
	"time"

	"TradeAdvisor/internal/model"
)

func constantBars(n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 10,
		}
	}
	return bars
}

// risingBars closes 1% higher every bar; each bar opens at the previous close.
func risingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := 99.0
	for i := range bars {
		c := 100 * math.Pow(1.01, float64(i))
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   prev,
			High:   c * 1.002,
			Low:    prev * 0.998,
			Close:  c,
			Volume: 1000,
		}
		prev = c
	}
	return bars
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func TestCalculate_ConstantSeries(t *testing.T) {
	rows := Calculate(constantBars(60, 100))
	if len(rows) != 60 {
		t.Fatalf("expected 60 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if !math.IsNaN(r.RSI) {
			t.Errorf("row %d: rsi should be undefined for a flat series, got %.4f", i, r.RSI)
		}
		if r.MACD != 0 || r.MACDSignal != 0 {
			t.Errorf("row %d: expected macd and signal 0, got %.6f / %.6f", i, r.MACD, r.MACDSignal)
		}
		if r.OBV != 0 {
			t.Errorf("row %d: obv should stay 0 without price changes, got %.2f", i, r.OBV)
		}
	}
	last := rows[len(rows)-1]
	if last.BBStd != 0 || last.BBHigh != last.BBLow {
		t.Errorf("expected zero band width, got std=%.6f high=%.4f low=%.4f", last.BBStd, last.BBHigh, last.BBLow)
	}
	if last.VWAP != 100 {
		t.Errorf("vwap: expected 100, got %.4f", last.VWAP)
	}
}

func TestCalculate_RisingSeriesOrdersAverages(t *testing.T) {
	rows := Calculate(risingBars(250))
	last := rows[len(rows)-1]
	if !(last.EMA20 > last.EMA50 && last.EMA50 > last.SMA200) {
		t.Errorf("expected ema20 > ema50 > sma200, got %.2f / %.2f / %.2f", last.EMA20, last.EMA50, last.SMA200)
	}
	if last.RSI != 100 {
		t.Errorf("rsi: expected 100 with no losses, got %.4f", last.RSI)
	}
	if last.MFI != 100 {
		t.Errorf("mfi: expected 100 with no negative flow, got %.4f", last.MFI)
	}
	if !(last.MACD > last.MACDSignal) {
		t.Errorf("expected macd above signal, got %.4f / %.4f", last.MACD, last.MACDSignal)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].OBV-rows[i-1].OBV != 1000 {
			t.Fatalf("row %d: obv should grow by the bar volume", i)
		}
	}
}

func TestCalculate_WarmupBoundaries(t *testing.T) {
	rows := Calculate(risingBars(250))
	tests := []struct {
		name  string
		first int
		get   func(model.IndicatorBar) float64
	}{
		{"sma200", 199, func(r model.IndicatorBar) float64 { return r.SMA200 }},
		{"rsi", 13, func(r model.IndicatorBar) float64 { return r.RSI }},
		{"mfi", 13, func(r model.IndicatorBar) float64 { return r.MFI }},
		{"adx", 27, func(r model.IndicatorBar) float64 { return r.ADX }},
		{"bb_mid", 19, func(r model.IndicatorBar) float64 { return r.BBMid }},
		{"stoch_k", 13, func(r model.IndicatorBar) float64 { return r.StochK }},
		{"stoch_d", 15, func(r model.IndicatorBar) float64 { return r.StochD }},
		{"cci", 19, func(r model.IndicatorBar) float64 { return r.CCI }},
		{"willr", 13, func(r model.IndicatorBar) float64 { return r.WillR }},
		{"ult_osc", 28, func(r model.IndicatorBar) float64 { return r.UltOsc }},
	}
	for _, tt := range tests {
		if v := tt.get(rows[tt.first-1]); model.Defined(v) {
			t.Errorf("%s: expected undefined at index %d, got %.4f", tt.name, tt.first-1, v)
		}
		if v := tt.get(rows[tt.first]); !model.Defined(v) {
			t.Errorf("%s: expected a value at index %d", tt.name, tt.first)
		}
	}
	if !model.Defined(rows[0].EMA20) || rows[0].OBV != 0 {
		t.Error("ema20 and obv are defined from the first bar")
	}
}

func TestCalculate_NoLookAhead(t *testing.T) {
	bars := risingBars(240)
	bars[230].Close = bars[229].Close * 0.95
	full := Calculate(bars)
	for _, k := range []int{1, 3, 30, 200, 235} {
		prefix := Calculate(bars[:k])
		a := prefix[k-1].Indicators
		b := full[k-1].Indicators
		pairs := [][2]float64{
			{a.EMA20, b.EMA20}, {a.EMA50, b.EMA50}, {a.SMA200, b.SMA200}, {a.RSI, b.RSI},
			{a.MACD, b.MACD}, {a.MACDSignal, b.MACDSignal}, {a.MFI, b.MFI}, {a.ADX, b.ADX},
			{a.BBMid, b.BBMid}, {a.BBStd, b.BBStd}, {a.StochK, b.StochK}, {a.StochD, b.StochD},
			{a.CCI, b.CCI}, {a.OBV, b.OBV}, {a.VWAP, b.VWAP}, {a.WillR, b.WillR}, {a.UltOsc, b.UltOsc},
		}
		for j, p := range pairs {
			if !sameValue(p[0], p[1]) {
				t.Errorf("prefix %d field %d: %.10f != %.10f", k, j, p[0], p[1])
			}
		}
	}
}

func TestCalculate_DoesNotModifyInput(t *testing.T) {
	bars := risingBars(50)
	before := make([]model.OHLCV, len(bars))
	copy(before, bars)
	Calculate(bars)
	for i := range bars {
		if bars[i] != before[i] {
			t.Fatalf("bar %d modified", i)
		}
	}
}

func TestCalculate_Empty(t *testing.T) {
	if rows := Calculate(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
