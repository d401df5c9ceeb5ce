package backtest

import (
	"testing"

	"stocksy/internal/types"
)

func closes(vals ...float64) []types.HistoricalBar {
	bars := make([]types.HistoricalBar, len(vals))
	for i, v := range vals {
		bars[i] = types.HistoricalBar{Time: string(rune('a' + i)), Close: v}
	}
	return bars
}

func TestSimulateNotEnoughData(t *testing.T) {
	for _, bars := range [][]types.HistoricalBar{nil, closes(100)} {
		got := Simulate(bars)
		want := types.BacktestResult{Recommendation: NotEnoughData}
		if got != want {
			t.Errorf("Simulate(%d bars) = %+v, want %+v", len(bars), got, want)
		}
	}
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name string
		bars []types.HistoricalBar
		want types.BacktestResult
	}{
		{
			name: "ten percent gain",
			bars: closes(100, 95, 130, 110),
			want: types.BacktestResult{BuyPrice: 100, SellPrice: 110, Profit: 10, ReturnPct: 10, Recommendation: Profitable},
		},
		{
			name: "ten percent loss",
			bars: closes(100, 90),
			want: types.BacktestResult{BuyPrice: 100, SellPrice: 90, Profit: -10, ReturnPct: -10, Recommendation: Loss},
		},
		{
			name: "flat is a loss",
			bars: closes(50, 60, 50),
			want: types.BacktestResult{BuyPrice: 50, SellPrice: 50, Profit: 0, ReturnPct: 0, Recommendation: Loss},
		},
		{
			name: "rounds return",
			bars: closes(3, 4),
			want: types.BacktestResult{BuyPrice: 3, SellPrice: 4, Profit: 1, ReturnPct: 33.33, Recommendation: Profitable},
		},
		{
			name: "rounds sub-cent profit",
			bars: closes(187.123, 190.456),
			want: types.BacktestResult{BuyPrice: 187.123, SellPrice: 190.456, Profit: 3.33, ReturnPct: 1.78, Recommendation: Profitable},
		},
		{
			name: "rounds sub-cent loss",
			bars: closes(10.004, 10.001),
			want: types.BacktestResult{BuyPrice: 10.004, SellPrice: 10.001, Profit: 0, ReturnPct: 0, Recommendation: Loss},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Simulate(tt.bars); got != tt.want {
				t.Errorf("Simulate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSimulateUsesOnlyEndpoints(t *testing.T) {
	a := Simulate(closes(100, 1, 1000, 120))
	b := Simulate(closes(100, 500, 2, 120))
	if a != b {
		t.Errorf("Expected interior bars to be ignored: %+v vs %+v", a, b)
	}
}
