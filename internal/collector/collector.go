package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"TradeAdvisor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error // returned from every call when set
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrice(_ context.Context, symbol string) (float64, error) {
	if m.Err != nil {
		return 0, &FetchError{Source: m.Name(), Op: "fetch price", Symbol: symbol, Err: m.Err}
	}
	return m.Price, nil
}

func (m *MockFetcher) FetchOHLCV(_ context.Context, symbol, timeframe string, limit int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, &FetchError{Source: m.Name(), Op: "fetch candles", Symbol: symbol, Err: m.Err}
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return generateMockBars(m.Price, limit, timeframeStep(timeframe)), nil
}

// generateMockBars produces a deterministic oscillating series ending at basePrice.
func generateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	end := time.Now().Truncate(step)
	bars := make([]model.OHLCV, count)
	prev := basePrice
	for i := 0; i < count; i++ {
		x := float64(i - count + 1)
		p := basePrice * (1 + 0.0005*x + 0.02*math.Sin(x/9))
		if i == 0 {
			prev = p
		}
		bars[i] = model.OHLCV{
			Time:   end.Add(time.Duration(i-count+1) * step),
			Open:   prev,
			High:   math.Max(prev, p) * 1.003,
			Low:    math.Min(prev, p) * 0.997,
			Close:  p,
			Volume: 1000 + 200*math.Cos(x/5),
		}
		prev = p
	}
	return bars
}

func timeframeStep(timeframe string) time.Duration {
	switch timeframe {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Collector fetches one market snapshot per call.
type Collector struct {
	Fetcher Fetcher
	Limit   int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, limit int) *Collector {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Collector{Fetcher: fetcher, Limit: limit}
}

// Collect fetches the current price and the recent bars for symbol.
func (c *Collector) Collect(ctx context.Context, symbol, timeframe string) (*model.MarketSnapshot, error) {
	price, err := c.Fetcher.FetchPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}
	bars, err := c.Fetcher.FetchOHLCV(ctx, symbol, timeframe, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("collect %s %s: %w", symbol, timeframe, err)
	}
	if len(bars) == 0 {
		return nil, &FetchError{Source: c.Fetcher.Name(), Op: "collect", Symbol: symbol, Err: fmt.Errorf("no bars for %s", timeframe)}
	}
	return &model.MarketSnapshot{
		Symbol:    symbol,
		Timeframe: timeframe,
		Price:     price,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

// mockBasePrice anchors the synthetic series of the "mock" exchange.
const mockBasePrice = 30000

// New builds the fetcher named by exchange.
func New(exchange, baseURL, apiKey, secretKey, proxyURL string, ratePerSec float64) (Fetcher, error) {
	switch exchange {
	case "okx", "":
		return NewOKXFetcher(baseURL, proxyURL, ratePerSec), nil
	case "binance":
		return NewBinanceFetcher(apiKey, secretKey, baseURL, proxyURL, ratePerSec), nil
	case "mock":
		return &MockFetcher{Price: mockBasePrice}, nil
	default:
		return nil, fmt.Errorf("unknown exchange %q", exchange)
	}
}
