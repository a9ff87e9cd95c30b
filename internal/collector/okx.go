package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"TradeAdvisor/internal/model"
)

// OKXBaseURL is the public OKX REST endpoint.
const OKXBaseURL = "https://www.okx.com"

// okxBars maps timeframes to OKX bar codes.
var okxBars = map[string]string{
	"1m":  "1m",
	"5m":  "5m",
	"15m": "15m",
	"30m": "30m",
	"1h":  "1H",
	"4h":  "4H",
	"1d":  "1D",
}

// OKXFetcher implements Fetcher using the OKX v5 public market API.
type OKXFetcher struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewOKXFetcher creates a new fetcher with optional proxy support.
// ratePerSec <= 0 disables rate limiting.
func NewOKXFetcher(baseURL, proxyURL string, ratePerSec float64) *OKXFetcher {
	if baseURL == "" {
		baseURL = OKXBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OKXFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: newLimiter(ratePerSec),
	}
}

func (f *OKXFetcher) Name() string { return "okx" }

// okxResponse is the envelope shared by all OKX v5 endpoints.
type okxResponse[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

type okxTicker struct {
	InstID string `json:"instId"`
	Last   string `json:"last"`
}

func (f *OKXFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", f.BaseURL, url.QueryEscape(symbol))
	var resp okxResponse[okxTicker]
	if err := f.get(ctx, endpoint, &resp); err != nil {
		return 0, f.fail("fetch price", symbol, err)
	}
	if len(resp.Data) == 0 {
		return 0, f.fail("fetch price", symbol, errors.New("empty ticker data"))
	}
	price, err := strconv.ParseFloat(resp.Data[0].Last, 64)
	if err != nil {
		return 0, f.fail("fetch price", symbol, fmt.Errorf("parse last price: %w", err))
	}
	return price, nil
}

func (f *OKXFetcher) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.OHLCV, error) {
	bar, ok := okxBars[timeframe]
	if !ok {
		return nil, f.fail("fetch candles", symbol, fmt.Errorf("unsupported timeframe %q", timeframe))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	endpoint := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), bar, limit)
	var resp okxResponse[[]string]
	if err := f.get(ctx, endpoint, &resp); err != nil {
		return nil, f.fail("fetch candles", symbol, err)
	}
	if len(resp.Data) == 0 {
		return nil, f.fail("fetch candles", symbol, errors.New("no candles returned"))
	}

	bars := make([]model.OHLCV, 0, len(resp.Data))
	for i, row := range resp.Data {
		b, err := parseOKXCandle(row)
		if err != nil {
			return nil, f.fail("fetch candles", symbol, fmt.Errorf("row %d: %w", i, err))
		}
		bars = append(bars, b)
	}
	// OKX returns newest first
	slices.Reverse(bars)
	return bars, nil
}

// parseOKXCandle reads [ts, o, h, l, c, vol, ...].
func parseOKXCandle(row []string) (model.OHLCV, error) {
	if len(row) < 6 {
		return model.OHLCV{}, fmt.Errorf("expected at least 6 columns, got %d", len(row))
	}
	var nums [6]float64
	for i := range nums {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("column %d: %w", i, err)
		}
		nums[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(int64(nums[0])),
		Open:   nums[1],
		High:   nums[2],
		Low:    nums[3],
		Close:  nums[4],
		Volume: nums[5],
	}, nil
}

func (f *OKXFetcher) get(ctx context.Context, endpoint string, out interface{ code() (string, string) }) error {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if code, msg := out.code(); code != "" && code != "0" {
		return fmt.Errorf("api error %s: %s", code, msg)
	}
	return nil
}

func (r *okxResponse[T]) code() (string, string) { return r.Code, r.Msg }

func (f *OKXFetcher) fail(op, symbol string, err error) error {
	return &FetchError{Source: f.Name(), Op: op, Symbol: symbol, Err: err}
}

func newLimiter(perSec float64) *rate.Limiter {
	if perSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSec), max(1, int(perSec)))
}
