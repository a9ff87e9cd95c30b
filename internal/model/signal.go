package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Recommendation is the direction suggested by the signal generator.
type Recommendation string

const (
	Buy  Recommendation = "Buy"
	Sell Recommendation = "Sell"
)

// Pattern is a candlestick pattern label.
type Pattern string

const (
	BullishEngulfing Pattern = "Bullish Engulfing"
	BearishEngulfing Pattern = "Bearish Engulfing"
	Hammer           Pattern = "Hammer"
	ShootingStar     Pattern = "Shooting Star"
	Doji             Pattern = "Doji"
	MorningStar      Pattern = "Morning Star"
	EveningStar      Pattern = "Evening Star"
)

// Trend is the direction derived from the moving-average ordering.
type Trend string

const (
	Uptrend   Trend = "Uptrend"
	Downtrend Trend = "Downtrend"
	Sideways  Trend = "Sideways"
)

// Strength is Strong only when the three averages are strictly ordered.
type Strength string

const (
	Strong Strength = "Strong"
	Weak   Strength = "Weak"
)

// TrendInfo is the trend classifier output.
type TrendInfo struct {
	Trend    Trend    `json:"trend"`
	Strength Strength `json:"strength"`
}

// PriceLevel is a stop-loss or take-profit level. Percent is in percentage points (1.0 = 1%).
type PriceLevel struct {
	Price   float64 `json:"price"`
	Percent float64 `json:"percent"`
}

// Signal is the final output of the signal generator.
type Signal struct {
	Recommendation      Recommendation `json:"recommendation"`
	EntryPrice          float64        `json:"entry_price"`
	StopLoss            PriceLevel     `json:"stop_loss"`
	TakeProfit          PriceLevel     `json:"take_profit"`
	PatternsDetected    []Pattern      `json:"patterns_detected"`
	PullbacksCount      int            `json:"pullbacks_count"`
	TrendInfo           TrendInfo      `json:"trend_info"`
	RecommendedLeverage int            `json:"recommended_leverage"`
	PositionSize        float64        `json:"position_size"`
	PredictionAccuracy  int            `json:"prediction_accuracy"`
	CommunityScore      int            `json:"community_score"`
}

// LogEntry is the flattened record appended to the signal log after every successful run.
type LogEntry struct {
	Timestamp          time.Time      `json:"timestamp"`
	Symbol             string         `json:"symbol"`
	Timeframe          string         `json:"timeframe"`
	Price              float64        `json:"price"`
	Signal             Recommendation `json:"signal"`
	EntryPrice         float64        `json:"entry_price"`
	StopLossPrice      float64        `json:"stop_loss_price"`
	StopLossPercent    string         `json:"stop_loss_percent"`
	TakeProfitPrice    float64        `json:"take_profit_price"`
	TakeProfitPercent  string         `json:"take_profit_percent"`
	PositionSize       float64        `json:"position_size"`
	Leverage           int            `json:"leverage"`
	Capital            float64        `json:"capital"`
	PredictionAccuracy int            `json:"prediction_accuracy"`
	MarketTrend        Trend          `json:"market_trend"`
}

// naiveTimestamp is the zone-less ISO layout of logs written by earlier versions.
const naiveTimestamp = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON accepts RFC 3339 timestamps and zone-less ISO timestamps,
// which are read as UTC. Entries are always written back as RFC 3339.
func (l *LogEntry) UnmarshalJSON(data []byte) error {
	type entry LogEntry
	aux := struct {
		*entry
		Timestamp string `json:"timestamp"`
	}{entry: (*entry)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		l.Timestamp = time.Time{}
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		if ts, err = time.ParseInLocation(naiveTimestamp, aux.Timestamp, time.UTC); err != nil {
			return fmt.Errorf("parse timestamp %q: %w", aux.Timestamp, err)
		}
	}
	l.Timestamp = ts
	return nil
}

// PercentString renders the percentage like "1.00%".
func (l PriceLevel) PercentString() string {
	return fmt.Sprintf("%.2f%%", l.Percent)
}
