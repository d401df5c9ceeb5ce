package backtest

import (
	"github.com/shopspring/decimal"

	"stocksy/internal/types"
)

const (
	Profitable    = "Profitable (Buy Signal Valid)"
	Loss          = "Loss (Sell Signal Better)"
	NotEnoughData = "Not enough data"
)

// Simulate buys at the first close and sells at the last close.
// Fewer than 2 bars returns the NotEnoughData sentinel.
func Simulate(bars []types.HistoricalBar) types.BacktestResult {
	if len(bars) < 2 {
		return types.BacktestResult{Recommendation: NotEnoughData}
	}

	buy := decimal.NewFromFloat(bars[0].Close)
	sell := decimal.NewFromFloat(bars[len(bars)-1].Close)
	profit := sell.Sub(buy)

	returnPct := decimal.Zero
	if !buy.IsZero() {
		returnPct = profit.Div(buy).Mul(decimal.NewFromInt(100)).Round(2)
	}

	rec := Loss
	if profit.IsPositive() {
		rec = Profitable
	}

	return types.BacktestResult{
		BuyPrice:       buy.InexactFloat64(),
		SellPrice:      sell.InexactFloat64(),
		Profit:         profit.Round(2).InexactFloat64(),
		ReturnPct:      returnPct.InexactFloat64(),
		Recommendation: rec,
	}
}
