package interfaces

import (
	"context"

	"stocksy/internal/types"
)

// Advisor runs the two request pipelines.
type Advisor interface {
	Analyze(ctx context.Context, prompt string) (*types.SentimentReport, error)
	Backtest(ctx context.Context, prompt string) (*types.BacktestReport, error)
}
