package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"TradeAdvisor/internal/model"
)

// StopPolicy selects how stop-loss and take-profit levels are placed.
type StopPolicy string

const (
	// StopFixed places the stop below and the target above entry regardless of direction.
	StopFixed StopPolicy = "fixed"
	// StopDirectional mirrors the levels for Sell recommendations.
	StopDirectional StopPolicy = "directional"
)

// Score deltas applied to the neutral starting score.
const (
	neutralScore   = 50
	indicatorDelta = 10
	trendDelta     = 10
	pullbackDelta  = 5

	rsiOversold    = 30
	rsiOverbought  = 70
	mfiOversold    = 20
	mfiOverbought  = 80
	communityMin   = 40
	communityRange = 21 // 40..60 inclusive
)

// IntSource supplies random integers in [0, n). *rand.Rand satisfies it.
type IntSource interface {
	IntN(n int) int
}

// Params are the user inputs to the signal generator.
type Params struct {
	Capital       float64
	Leverage      int
	StopLossPct   float64 // fraction, 0.01 = 1%
	TakeProfitPct float64
	Policy        StopPolicy
}

// DefaultParams mirrors the stock risk settings.
func DefaultParams(capital float64, leverage int) Params {
	return Params{
		Capital:       capital,
		Leverage:      leverage,
		StopLossPct:   0.01,
		TakeProfitPct: 0.015,
		Policy:        StopFixed,
	}
}

// Generator turns the last bar's readings into a recommendation.
// A nil Rand draws from the global math/rand source.
type Generator struct {
	Rand IntSource
}

// NewGenerator creates a Generator with a clock-seeded random source.
func NewGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return &Generator{Rand: rand.New(rand.NewPCG(seed, seed>>32))}
}

// Score computes the clamped 0-100 confidence score. Patterns are not scored.
// Undefined indicator readings never trigger a delta.
func Score(last model.Indicators, pullbacks int, trend model.TrendInfo) int {
	score := neutralScore
	if last.RSI < rsiOversold {
		score += indicatorDelta
	}
	if last.RSI > rsiOverbought {
		score -= indicatorDelta
	}
	if last.MACD > last.MACDSignal {
		score += indicatorDelta
	}
	if last.MACD < last.MACDSignal {
		score -= indicatorDelta
	}
	if last.MFI < mfiOversold {
		score += indicatorDelta
	}
	if last.MFI > mfiOverbought {
		score -= indicatorDelta
	}
	switch trend.Trend {
	case model.Uptrend:
		score += trendDelta
	case model.Downtrend:
		score -= trendDelta
	}
	score += pullbacks * pullbackDelta
	return max(0, min(100, score))
}

// Recommend maps a score to Buy (>= 50) or Sell.
func Recommend(score int) model.Recommendation {
	if score >= neutralScore {
		return model.Buy
	}
	return model.Sell
}

// Generate builds the signal for the last bar of bars.
func (g *Generator) Generate(bars []model.IndicatorBar, patterns []model.Pattern, pullbacks int, trend model.TrendInfo, p Params) (*model.Signal, error) {
	if len(bars) == 0 {
		return nil, &ComputationError{Op: "generate signal", Err: errors.New("no bars")}
	}
	if p.Capital <= 0 {
		return nil, &ComputationError{Op: "position size", Err: fmt.Errorf("capital must be positive, got %v", p.Capital)}
	}
	if p.Leverage < 1 {
		return nil, &ComputationError{Op: "position size", Err: fmt.Errorf("leverage must be at least 1, got %d", p.Leverage)}
	}
	last := bars[len(bars)-1]
	entry := last.Close
	if !model.Defined(entry) || entry <= 0 {
		return nil, &ComputationError{Op: "entry price", Err: fmt.Errorf("unusable last close %v", entry)}
	}

	score := Score(last.Indicators, pullbacks, trend)
	rec := Recommend(score)

	size := p.Capital * float64(p.Leverage) / entry
	if !model.Defined(size) {
		return nil, &ComputationError{Op: "position size", Err: fmt.Errorf("non-finite size for entry %v", entry)}
	}

	stop, take := levels(entry, rec, p)
	if patterns == nil {
		patterns = []model.Pattern{}
	}

	return &model.Signal{
		Recommendation:      rec,
		EntryPrice:          entry,
		StopLoss:            stop,
		TakeProfit:          take,
		PatternsDetected:    patterns,
		PullbacksCount:      pullbacks,
		TrendInfo:           trend,
		RecommendedLeverage: p.Leverage,
		PositionSize:        size,
		PredictionAccuracy:  score,
		CommunityScore:      communityMin + g.intN(communityRange),
	}, nil
}

func (g *Generator) intN(n int) int {
	if g.Rand == nil {
		return rand.IntN(n)
	}
	return g.Rand.IntN(n)
}

func levels(entry float64, rec model.Recommendation, p Params) (stop, take model.PriceLevel) {
	stop = model.PriceLevel{Price: entry * (1 - p.StopLossPct), Percent: p.StopLossPct * 100}
	take = model.PriceLevel{Price: entry * (1 + p.TakeProfitPct), Percent: p.TakeProfitPct * 100}
	if p.Policy == StopDirectional && rec == model.Sell {
		stop.Price = entry * (1 + p.StopLossPct)
		take.Price = entry * (1 - p.TakeProfitPct)
	}
	return stop, take
}

// ParseStopPolicy validates a configured policy name.
func ParseStopPolicy(s string) (StopPolicy, error) {
	switch StopPolicy(s) {
	case StopFixed, StopDirectional:
		return StopPolicy(s), nil
	case "":
		return StopFixed, nil
	default:
		return "", fmt.Errorf("unknown stop policy %q", s)
	}
}
