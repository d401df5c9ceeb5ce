package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stocksy/internal/backtest"
	"stocksy/internal/decision"
	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/news"
	"stocksy/internal/resolver"
	"stocksy/internal/types"
)

// NewsCollector gathers headlines and reports which providers failed.
type NewsCollector interface {
	Collect(ctx context.Context, symbol, companyName string) news.Result
}

type Engine struct {
	resolver interfaces.Resolver
	news     NewsCollector
	scorer   interfaces.Scorer
	market   interfaces.MarketData

	defaultDays     int
	weeklyAboveDays int
}

var _ interfaces.Advisor = (*Engine)(nil)

func newEngine(r interfaces.Resolver, n NewsCollector, s interfaces.Scorer, m interfaces.MarketData, defaultDays, weeklyAboveDays int) *Engine {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	if weeklyAboveDays <= 0 {
		weeklyAboveDays = 60
	}
	return &Engine{
		resolver:        r,
		news:            n,
		scorer:          s,
		market:          m,
		defaultDays:     defaultDays,
		weeklyAboveDays: weeklyAboveDays,
	}
}

func promptRequired(prompt string) (string, error) {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "", &types.InputError{Msg: "Prompt is required"}
	}
	return p, nil
}

// Analyze runs resolve, news and quote, scoring, then the net-vote decision.
func (e *Engine) Analyze(ctx context.Context, prompt string) (*types.SentimentReport, error) {
	prompt, err := promptRequired(prompt)
	if err != nil {
		return nil, err
	}

	target := e.resolver.Resolve(ctx, prompt)
	logger.Debug(ctx, "Analyzing prompt", "symbol", target.Symbol, "company", target.CompanyName)

	var (
		wg        sync.WaitGroup
		collected news.Result
		quote     types.Quote
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		collected = e.news.Collect(ctx, target.Symbol, target.CompanyName)
	}()
	go func() {
		defer wg.Done()
		quote = e.market.FetchQuote(ctx, target.Symbol)
	}()
	wg.Wait()

	items := collected.Items
	if len(items) == 0 {
		if collected.AllFailed() {
			return nil, upstreamFromNews(collected.Failures)
		}
		return nil, &types.NotFoundError{
			Msg:        fmt.Sprintf("No recent news found for %s", target.CompanyName),
			Suggestion: "Try a different company name or ticker symbol",
		}
	}

	op := logger.StartOperation(ctx, "score_headlines", "symbol", target.Symbol, "headlines", len(items))
	scored := e.scorer.ScoreAll(op.GetContext(), items)
	tally := decision.Count(decision.Labels(scored))
	action := tally.Action()
	op.End("action", string(action))

	reason := fmt.Sprintf("Based on sentiment analysis of %d recent news headlines for \"%s\". %d positive, %d negative, %d neutral.",
		len(items), target.CompanyName, tally.Positive, tally.Negative, tally.Neutral)

	logger.Decision(ctx, target.Symbol, string(action), len(items), reason,
		"positive", tally.Positive,
		"negative", tally.Negative,
		"neutral", tally.Neutral,
	)

	return &types.SentimentReport{
		Sentiment:           action.Sentiment(),
		Action:              action,
		ConfidenceBreakdown: scored,
		CurrentPrice:        quote.CurrentPrice,
		Change:              quote.Change,
		ChangePercent:       quote.ChangePercent,
		Trend:               quote.Trend,
		Reason:              reason,
		News:                items,
		CompanyName:         target.CompanyName,
		Symbol:              target.Symbol,
	}, nil
}

// Backtest simulates buy-and-hold over the window named in the prompt.
func (e *Engine) Backtest(ctx context.Context, prompt string) (*types.BacktestReport, error) {
	prompt, err := promptRequired(prompt)
	if err != nil {
		return nil, err
	}

	target := e.resolver.Resolve(ctx, prompt)
	days := resolver.ParseDays(prompt, e.defaultDays)

	bars, err := e.market.FetchHistory(ctx, target.Symbol, days)
	if err != nil {
		return nil, &types.UpstreamError{Provider: "twelvedata", Err: err}
	}
	if bars == nil {
		bars = []types.HistoricalBar{}
	}

	result := backtest.Simulate(bars)

	granularity := "daily"
	if days > e.weeklyAboveDays {
		granularity = "weekly"
	}
	reason := fmt.Sprintf("Backtest simulation for %s over last %d days using Twelve Data (%s data).", target.Symbol, days, granularity)

	logger.Backtest(ctx, target.Symbol, days, result.ReturnPct, result.Recommendation, "bars", len(bars))

	return &types.BacktestReport{
		Symbol:         target.Symbol,
		Days:           days,
		BacktestResult: result,
		HistoricalData: bars,
		Reason:         reason,
	}, nil
}

func upstreamFromNews(failures []news.ProviderFailure) error {
	names := make([]string, len(failures))
	msgs := make([]string, len(failures))
	for i, f := range failures {
		names[i] = f.Provider
		msgs[i] = f.Provider + ": " + f.Err.Error()
	}
	return &types.UpstreamError{
		Provider: strings.Join(names, ","),
		Err:      fmt.Errorf("news providers failed: %s", strings.Join(msgs, "; ")),
	}
}
