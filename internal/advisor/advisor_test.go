package advisor

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"TradeAdvisor/internal/collector"
	"TradeAdvisor/internal/metrics"
	"TradeAdvisor/internal/model"
	"TradeAdvisor/internal/recorder"
	"TradeAdvisor/internal/strategy"
)

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

type failingStore struct{ recorder.MemoryStore }

func (f *failingStore) Append(*model.LogEntry) error { return errors.New("disk full") }

// risingBars closes 1% higher on every bar, opening at the previous close.
func risingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	open := 99.0
	for i := range bars {
		c := 100 * math.Pow(1.01, float64(i))
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   c * 1.002,
			Low:    open * 0.998,
			Close:  c,
			Volume: 1000,
		}
		open = c
	}
	return bars
}

var fixedNow = time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

func newAdvisor(f collector.Fetcher, store recorder.Store) *Advisor {
	a := New(collector.NewCollector(f, 250), &strategy.Generator{Rand: fixedSource(5)}, store, metrics.New())
	a.Now = func() time.Time { return fixedNow }
	return a
}

func TestRun_RisingSeries(t *testing.T) {
	bars := risingBars(250)
	store := recorder.NewMemoryStore()
	a := newAdvisor(&collector.MockFetcher{Price: 1192, Bars: bars}, store)

	res, err := a.Run(context.Background(), Request{
		Symbol:    "BTC-USDT",
		Timeframe: "1h",
		Params:    strategy.DefaultParams(5000, 10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signal
	if sig.TrendInfo != (model.TrendInfo{Trend: model.Uptrend, Strength: model.Strong}) {
		t.Errorf("expected Uptrend/Strong, got %+v", sig.TrendInfo)
	}
	// RSI 100 (-10), MACD above signal (+10), MFI 100 (-10), uptrend (+10), no pullbacks
	if sig.PredictionAccuracy != 50 || sig.Recommendation != model.Buy {
		t.Errorf("expected score 50 / Buy, got %d / %s", sig.PredictionAccuracy, sig.Recommendation)
	}
	if sig.PullbacksCount != 0 {
		t.Errorf("expected no pullbacks, got %d", sig.PullbacksCount)
	}
	lastClose := bars[len(bars)-1].Close
	if sig.EntryPrice != lastClose {
		t.Errorf("entry price: expected %v, got %v", lastClose, sig.EntryPrice)
	}
	if sig.PositionSize != 5000*10/lastClose {
		t.Errorf("position size: expected %v, got %v", 5000*10/lastClose, sig.PositionSize)
	}
	if sig.CommunityScore != 45 {
		t.Errorf("community score: expected 45, got %d", sig.CommunityScore)
	}
	if len(res.Bars) != len(bars) {
		t.Errorf("expected %d indicator bars, got %d", len(bars), len(res.Bars))
	}

	entries, _ := store.ReadAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	e := entries[0]
	want := model.LogEntry{
		Timestamp:          fixedNow,
		Symbol:             "BTC-USDT",
		Timeframe:          "1h",
		Price:              1192,
		Signal:             model.Buy,
		EntryPrice:         lastClose,
		StopLossPrice:      sig.StopLoss.Price,
		StopLossPercent:    "1.00%",
		TakeProfitPrice:    sig.TakeProfit.Price,
		TakeProfitPercent:  "1.50%",
		PositionSize:       sig.PositionSize,
		Leverage:           10,
		Capital:            5000,
		PredictionAccuracy: 50,
		MarketTrend:        model.Uptrend,
	}
	if e != want {
		t.Errorf("log entry mismatch:\n got  %+v\n want %+v", e, want)
	}
	n, err := testutil.GatherAndCount(a.Metrics.Registry, "advisor_signals_total")
	if err != nil || n != 1 {
		t.Errorf("expected one signal series, got %d (%v)", n, err)
	}
}

func TestRun_FetchErrorAppendsNothing(t *testing.T) {
	store := recorder.NewMemoryStore()
	a := newAdvisor(&collector.MockFetcher{Err: errors.New("timeout")}, store)

	_, err := a.Run(context.Background(), Request{Symbol: "ETH-USDT", Timeframe: "4h", Params: strategy.DefaultParams(100, 1)})
	var fe *collector.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if Classify(err) != metrics.ResultFetchError {
		t.Errorf("expected fetch_error label, got %s", Classify(err))
	}
	if entries, _ := store.ReadAll(); len(entries) != 0 {
		t.Errorf("expected empty log, got %d entries", len(entries))
	}
}

func TestRun_ComputationErrorAppendsNothing(t *testing.T) {
	bars := risingBars(40)
	bars[len(bars)-1].Close = 0
	store := recorder.NewMemoryStore()
	a := newAdvisor(&collector.MockFetcher{Price: 1, Bars: bars}, store)

	_, err := a.Run(context.Background(), Request{Symbol: "ETH-USDT", Timeframe: "1h", Params: strategy.DefaultParams(100, 1)})
	var ce *strategy.ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ComputationError, got %v", err)
	}
	if Classify(err) != metrics.ResultComputationError {
		t.Errorf("expected computation_error label, got %s", Classify(err))
	}
	if entries, _ := store.ReadAll(); len(entries) != 0 {
		t.Errorf("expected empty log, got %d entries", len(entries))
	}
}

func TestRun_StoreFailure(t *testing.T) {
	a := newAdvisor(&collector.MockFetcher{Price: 1, Bars: risingBars(60)}, &failingStore{})
	_, err := a.Run(context.Background(), Request{Symbol: "BTC-USDT", Timeframe: "1h", Params: strategy.DefaultParams(100, 1)})
	if err == nil {
		t.Fatal("expected error when the log cannot be written")
	}
	if Classify(err) != metrics.ResultError {
		t.Errorf("expected generic error label, got %s", Classify(err))
	}
}

func TestRun_SuccessDoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	a := newAdvisor(&collector.MockFetcher{Price: 1192, Bars: risingBars(250)}, recorder.NewMemoryStore())
	res, err := a.Run(context.Background(), Request{
		Symbol:    "BTC-USDT",
		Timeframe: "1h",
		Params:    strategy.DefaultParams(5000, 10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output on success, got %q", buf.String())
	}

	want := "BTC-USDT 1h: Buy score=50 trend=Uptrend patterns=0 pullbacks=0"
	if got := res.String(); got != want {
		t.Errorf("summary: expected %q, got %q", want, got)
	}
}
