// Package advisor runs one synchronous analysis pass: fetch, compute indicators,
// detect patterns, classify the trend, generate a signal and append it to the log.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeAdvisor/internal/calculator"
	"TradeAdvisor/internal/collector"
	"TradeAdvisor/internal/metrics"
	"TradeAdvisor/internal/model"
	"TradeAdvisor/internal/pattern"
	"TradeAdvisor/internal/recorder"
	"TradeAdvisor/internal/strategy"
)

// Request describes one analysis run.
type Request struct {
	Symbol    string
	Timeframe string
	Params    strategy.Params
}

// Result carries everything a caller may want to display.
type Result struct {
	Snapshot *model.MarketSnapshot
	Bars     []model.IndicatorBar
	Signal   *model.Signal
	Entry    *model.LogEntry
}

// String summarises the pass for a log line.
func (r *Result) String() string {
	return fmt.Sprintf("%s %s: %s score=%d trend=%s patterns=%d pullbacks=%d",
		r.Entry.Symbol, r.Entry.Timeframe, r.Signal.Recommendation, r.Signal.PredictionAccuracy,
		r.Signal.TrendInfo.Trend, len(r.Signal.PatternsDetected), r.Signal.PullbacksCount)
}

// Advisor wires the pipeline stages together.
type Advisor struct {
	Collector *collector.Collector
	Generator *strategy.Generator
	Store     recorder.Store
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// New creates an Advisor. m may be nil.
func New(col *collector.Collector, gen *strategy.Generator, store recorder.Store, m *metrics.Metrics) *Advisor {
	return &Advisor{
		Collector: col,
		Generator: gen,
		Store:     store,
		Metrics:   m,
		Now:       time.Now,
	}
}

// Run executes one pass. On any error nothing is appended to the log.
func (a *Advisor) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res, err := a.run(ctx, req)
	if err != nil {
		a.Metrics.ObserveFailure(Classify(err), time.Since(start))
		return nil, err
	}
	a.Metrics.ObserveSignal(req.Symbol, res.Snapshot.Price, res.Signal, time.Since(start))
	return res, nil
}

func (a *Advisor) run(ctx context.Context, req Request) (*Result, error) {
	snap, err := a.Collector.Collect(ctx, req.Symbol, req.Timeframe)
	if err != nil {
		return nil, err
	}

	bars := calculator.Calculate(snap.Bars)
	patterns, pullbacks := pattern.Detect(bars)
	trend := strategy.ClassifyTrend(bars)

	sig, err := a.Generator.Generate(bars, patterns, pullbacks, trend, req.Params)
	if err != nil {
		return nil, err
	}

	entry := NewEntry(a.Now().UTC(), snap, sig, req.Params)
	if err := a.Store.Append(entry); err != nil {
		return nil, fmt.Errorf("append log entry: %w", err)
	}

	return &Result{Snapshot: snap, Bars: bars, Signal: sig, Entry: entry}, nil
}

// NewEntry flattens a signal into the log record.
func NewEntry(ts time.Time, snap *model.MarketSnapshot, sig *model.Signal, p strategy.Params) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:          ts,
		Symbol:             snap.Symbol,
		Timeframe:          snap.Timeframe,
		Price:              snap.Price,
		Signal:             sig.Recommendation,
		EntryPrice:         sig.EntryPrice,
		StopLossPrice:      sig.StopLoss.Price,
		StopLossPercent:    sig.StopLoss.PercentString(),
		TakeProfitPrice:    sig.TakeProfit.Price,
		TakeProfitPercent:  sig.TakeProfit.PercentString(),
		PositionSize:       sig.PositionSize,
		Leverage:           p.Leverage,
		Capital:            p.Capital,
		PredictionAccuracy: sig.PredictionAccuracy,
		MarketTrend:        sig.TrendInfo.Trend,
	}
}

// Classify maps an error returned by Run to a metrics result label.
func Classify(err error) string {
	var fe *collector.FetchError
	var ce *strategy.ComputationError
	switch {
	case errors.As(err, &fe):
		return metrics.ResultFetchError
	case errors.As(err, &ce):
		return metrics.ResultComputationError
	default:
		return metrics.ResultError
	}
}
