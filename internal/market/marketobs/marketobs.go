package marketobs

import (
	"context"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/trace"
	"stocksy/internal/types"
)

// observableMarket wraps MarketData with logging and tracing
type observableMarket struct {
	market interfaces.MarketData
}

var _ interfaces.MarketData = (*observableMarket)(nil)

// Wrap wraps market data with observability middleware
func Wrap(market interfaces.MarketData) interfaces.MarketData {
	return &observableMarket{market: market}
}

// FetchQuote fetches the latest quote with observability
func (om *observableMarket) FetchQuote(ctx context.Context, symbol string) types.Quote {
	ctx, span := trace.StartSpan(ctx, "market.Quote")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "symbol", symbol)

	q := om.market.FetchQuote(ctx, symbol)
	if q.CurrentPrice == nil {
		logger.DebugSkip(ctx, 1, "Quote degraded", "symbol", symbol)
		return q
	}

	logger.DebugSkip(ctx, 1, "Quote fetched successfully", "symbol", symbol, "price", *q.CurrentPrice, "trend", q.Trend)
	return q
}

// FetchHistory fetches historical bars with observability
func (om *observableMarket) FetchHistory(ctx context.Context, symbol string, days int) ([]types.HistoricalBar, error) {
	ctx, span := trace.StartSpan(ctx, "market.History")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching history", "symbol", symbol, "days", days)

	bars, err := om.market.FetchHistory(ctx, symbol, days)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch history", err, "symbol", symbol, "days", days)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "History fetched successfully", "symbol", symbol, "bars", len(bars))
	return bars, nil
}
