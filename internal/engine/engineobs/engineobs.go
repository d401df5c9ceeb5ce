package engineobs

import (
	"context"
	"time"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/trace"
	"stocksy/internal/types"
)

type observableEngine struct {
	engine interfaces.Advisor
}

var _ interfaces.Advisor = (*observableEngine)(nil)

func Wrap(eng interfaces.Advisor) interfaces.Advisor {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Analyze(ctx context.Context, prompt string) (*types.SentimentReport, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting sentiment analysis",
		"prompt", prompt,
	)

	report, err := oe.engine.Analyze(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Sentiment analysis failed", err,
			"status", types.StatusCode(err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Sentiment analysis completed",
		"symbol", report.Symbol,
		"action", report.Action,
		"headlines", len(report.News),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}

func (oe *observableEngine) Backtest(ctx context.Context, prompt string) (*types.BacktestReport, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Backtest")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting backtest",
		"prompt", prompt,
	)

	report, err := oe.engine.Backtest(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Backtest failed", err,
			"status", types.StatusCode(err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Backtest completed",
		"symbol", report.Symbol,
		"days", report.Days,
		"return_pct", report.BacktestResult.ReturnPct,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
