package market

import (
	"context"
	"sort"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/types"
)

const (
	IntervalDaily  = "1day"
	IntervalWeekly = "1week"
)

// Fetcher combines a quote provider and a history provider.
type Fetcher struct {
	quotes          interfaces.QuoteProvider
	history         interfaces.HistoryProvider
	weeklyAboveDays int
	minWeeklyBars   int
}

var _ interfaces.MarketData = (*Fetcher)(nil)

// NewFetcher switches to weekly bars for windows longer than weeklyAboveDays and
// never requests fewer than minWeeklyBars weekly bars.
func NewFetcher(quotes interfaces.QuoteProvider, history interfaces.HistoryProvider, weeklyAboveDays, minWeeklyBars int) *Fetcher {
	if weeklyAboveDays <= 0 {
		weeklyAboveDays = 60
	}
	return &Fetcher{
		quotes:          quotes,
		history:         history,
		weeklyAboveDays: weeklyAboveDays,
		minWeeklyBars:   minWeeklyBars,
	}
}

// FetchQuote never fails; any provider error yields an empty quote with a neutral trend.
func (f *Fetcher) FetchQuote(ctx context.Context, symbol string) types.Quote {
	if f.quotes == nil {
		return types.EmptyQuote()
	}
	q, err := f.quotes.Quote(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Quote unavailable, continuing without price", "symbol", symbol, "error", err)
		return types.EmptyQuote()
	}
	if q.Trend == "" {
		q.Trend = types.TrendNeutral
	}
	return q
}

// Plan describes the series request for a window of days.
type Plan struct {
	Interval   string
	OutputSize int // bars requested
	Keep       int // trailing bars kept
}

// Weekly reports whether the plan uses weekly bars.
func (p Plan) Weekly() bool { return p.Interval == IntervalWeekly }

// PlanFor picks daily bars for short windows and weekly bars sized to cover long ones.
func (f *Fetcher) PlanFor(days int) Plan {
	if days < 1 {
		days = 1
	}
	if days <= f.weeklyAboveDays {
		return Plan{Interval: IntervalDaily, OutputSize: days, Keep: days}
	}
	weeks := days / 7
	if days%7 != 0 {
		weeks++
	}
	size := weeks
	if size < f.minWeeklyBars {
		size = f.minWeeklyBars
	}
	return Plan{Interval: IntervalWeekly, OutputSize: size, Keep: weeks}
}

// FetchHistory returns the trailing window oldest-first. Provider errors are returned as is.
func (f *Fetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]types.HistoricalBar, error) {
	plan := f.PlanFor(days)

	bars, err := f.history.TimeSeries(ctx, symbol, plan.Interval, plan.OutputSize)
	if err != nil {
		return nil, err
	}

	bars = append([]types.HistoricalBar(nil), bars...)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time < bars[j].Time })

	if plan.Keep > 0 && len(bars) > plan.Keep {
		bars = bars[len(bars)-plan.Keep:]
	}

	logger.Debug(ctx, "History fetched", "symbol", symbol, "days", days, "interval", plan.Interval, "bars", len(bars))
	return bars, nil
}
