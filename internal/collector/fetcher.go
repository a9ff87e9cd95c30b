package collector

import (
	"context"
	"fmt"

	"TradeAdvisor/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.OHLCV, error)
	Name() string
}

// DefaultLimit is the number of bars requested per analysis. It is large enough
// for the 200-bar average to be defined on the last bar.
const DefaultLimit = 300

// FetchError reports that the upstream source returned no usable data.
type FetchError struct {
	Source string
	Op     string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Source, e.Op, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
