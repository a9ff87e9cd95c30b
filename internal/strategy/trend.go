package strategy

import "TradeAdvisor/internal/model"

// ClassifyTrend reads the ema20/ema50/sma200 ordering of the last bar.
// Strictly ascending averages give Uptrend, strictly descending give Downtrend,
// both Strong; anything else, including undefined averages, is Sideways/Weak.
func ClassifyTrend(bars []model.IndicatorBar) model.TrendInfo {
	if len(bars) == 0 {
		return model.TrendInfo{Trend: model.Sideways, Strength: model.Weak}
	}
	last := bars[len(bars)-1]
	switch {
	case last.EMA20 > last.EMA50 && last.EMA50 > last.SMA200:
		return model.TrendInfo{Trend: model.Uptrend, Strength: model.Strong}
	case last.EMA20 < last.EMA50 && last.EMA50 < last.SMA200:
		return model.TrendInfo{Trend: model.Downtrend, Strength: model.Strong}
	default:
		return model.TrendInfo{Trend: model.Sideways, Strength: model.Weak}
	}
}
