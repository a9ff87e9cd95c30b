package model

// Indicators holds every derived column for one bar. Fields are Undefined (NaN)
// until the window they depend on has been filled.
type Indicators struct {
	EMA20      float64
	EMA50      float64
	SMA200     float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MFI        float64
	ADX        float64
	BBMid      float64
	BBStd      float64
	BBHigh     float64
	BBLow      float64
	StochK     float64
	StochD     float64
	CCI        float64
	OBV        float64
	VWAP       float64
	WillR      float64
	UltOsc     float64
}

// IndicatorBar is a bar together with the indicators computed up to and including it.
type IndicatorBar struct {
	OHLCV
	Indicators
}
