package engine

import (
	"stocksy/internal/interfaces"
	"stocksy/internal/store"
)

func New(cfg *store.Config, r interfaces.Resolver, n NewsCollector, s interfaces.Scorer, m interfaces.MarketData) *Engine {
	return newEngine(r, n, s, m, cfg.Backtest.DefaultDays, cfg.Market.WeeklyAboveDays)
}
