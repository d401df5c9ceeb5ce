package interfaces

import (
	"context"

	"stocksy/internal/types"
)

// QuoteProvider returns the latest quote for a symbol.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (types.Quote, error)
}

// HistoryProvider returns bars for a symbol at a provider interval ("1day", "1week").
// Order is whatever the provider returns.
type HistoryProvider interface {
	TimeSeries(ctx context.Context, symbol, interval string, outputSize int) ([]types.HistoricalBar, error)
}

// MarketData is the fetcher used by the pipelines.
type MarketData interface {
	FetchQuote(ctx context.Context, symbol string) types.Quote
	FetchHistory(ctx context.Context, symbol string, days int) ([]types.HistoricalBar, error)
}
