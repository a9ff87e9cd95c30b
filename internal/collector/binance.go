package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"TradeAdvisor/internal/model"
)

// BinanceFetcher implements Fetcher using the Binance spot REST API.
type BinanceFetcher struct {
	client  *binance.Client
	limiter *rate.Limiter
}

// NewBinanceFetcher creates a spot client. Public market endpoints need no keys.
// An empty baseURL keeps the library default.
func NewBinanceFetcher(apiKey, secretKey, baseURL, proxyURL string, ratePerSec float64) *BinanceFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = &http.Client{Timeout: 30 * time.Second, Transport: transport}
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceFetcher{client: client, limiter: newLimiter(ratePerSec)}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol converts BTC-USDT to BTCUSDT.
func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}

func (f *BinanceFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, f.fail("fetch price", symbol, err)
	}
	prices, err := f.client.NewListPricesService().Symbol(binanceSymbol(symbol)).Do(ctx)
	if err != nil {
		return 0, f.fail("fetch price", symbol, err)
	}
	if len(prices) == 0 {
		return 0, f.fail("fetch price", symbol, errors.New("empty price list"))
	}
	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, f.fail("fetch price", symbol, fmt.Errorf("parse price: %w", err))
	}
	return price, nil
}

func (f *BinanceFetcher) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.OHLCV, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := f.wait(ctx); err != nil {
		return nil, f.fail("fetch klines", symbol, err)
	}
	klines, err := f.client.NewKlinesService().
		Symbol(binanceSymbol(symbol)).
		Interval(timeframe).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, f.fail("fetch klines", symbol, err)
	}
	if len(klines) == 0 {
		return nil, f.fail("fetch klines", symbol, errors.New("no klines returned"))
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for i, k := range klines {
		fields := [5]string{k.Open, k.High, k.Low, k.Close, k.Volume}
		var nums [5]float64
		for j, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, f.fail("fetch klines", symbol, fmt.Errorf("kline %d: %w", i, err))
			}
			nums[j] = v
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(k.OpenTime),
			Open:   nums[0],
			High:   nums[1],
			Low:    nums[2],
			Close:  nums[3],
			Volume: nums[4],
		})
	}
	return bars, nil
}

func (f *BinanceFetcher) wait(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	return f.limiter.Wait(ctx)
}

func (f *BinanceFetcher) fail(op, symbol string, err error) error {
	return &FetchError{Source: f.Name(), Op: op, Symbol: symbol, Err: err}
}
