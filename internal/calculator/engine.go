package calculator

import (
	"TradeAdvisor/internal/model"
)

// Window lengths used by Calculate.
const (
	RSIPeriod        = 14
	MFIPeriod        = 14
	ADXPeriod        = 14
	StochPeriod      = 14
	WillRPeriod      = 14
	BollingerPeriod  = 20
	CCIPeriod        = 20
	SMALongPeriod    = 200
	BollingerStdMult = 2.0
)

// Calculate computes the full indicator battery for bars (oldest first) and returns
// a new slice of the same length. bars is not modified. Every value at index i
// depends only on bars[0..i]; entries whose window is not yet filled are
// model.Undefined.
func Calculate(bars []model.OHLCV) []model.IndicatorBar {
	n := len(bars)
	closes := extractCloses(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	typical := make([]float64, n)
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
		typical[i] = b.TypicalPrice()
	}

	ema20 := CalculateEMA(closes, 20)
	ema50 := CalculateEMA(closes, 50)
	sma200 := CalculateSMA(closes, SMALongPeriod)
	rsi := CalculateRSI(closes, RSIPeriod)
	macd := CalculateMACD(closes)
	mfi := CalculateMFI(typical, volumes, MFIPeriod)
	adx := CalculateADX(highs, lows, closes, ADXPeriod)
	bb := CalculateBollingerBands(closes, BollingerPeriod, BollingerStdMult)
	stoch := CalculateStochastic(highs, lows, closes, StochPeriod)
	cci := CalculateCCI(typical, CCIPeriod)
	obv := CalculateOBV(closes, volumes)
	vwap := CalculateVWAP(typical, volumes)
	willr := CalculateWilliamsR(highs, lows, closes, WillRPeriod)
	ult := CalculateUltimateOscillator(highs, lows, closes)

	out := make([]model.IndicatorBar, n)
	for i, b := range bars {
		out[i] = model.IndicatorBar{
			OHLCV: b,
			Indicators: model.Indicators{
				EMA20:      ema20[i],
				EMA50:      ema50[i],
				SMA200:     sma200[i],
				RSI:        rsi[i],
				MACD:       macd.Line[i],
				MACDSignal: macd.Signal[i],
				MFI:        mfi[i],
				ADX:        adx[i],
				BBMid:      bb.Mid[i],
				BBStd:      bb.Std[i],
				BBHigh:     bb.High[i],
				BBLow:      bb.Low[i],
				StochK:     stoch.K[i],
				StochD:     stoch.D[i],
				CCI:        cci[i],
				OBV:        obv[i],
				VWAP:       vwap[i],
				WillR:      willr[i],
				UltOsc:     ult[i],
			},
		}
	}
	return out
}
