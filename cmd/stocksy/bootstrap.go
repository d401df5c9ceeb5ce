package main

import (
	"context"
	"fmt"
	"os"

	"stocksy/internal/engine"
	"stocksy/internal/engine/engineobs"
	"stocksy/internal/finnhub"
	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/market"
	"stocksy/internal/market/marketobs"
	"stocksy/internal/news"
	"stocksy/internal/resolver"
	"stocksy/internal/sentiment"
	"stocksy/internal/store"
	"stocksy/internal/trace"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the YAML config and fills secrets from the environment
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	cfg.LoadSecrets()
	warnMissingSecrets(ctx, cfg)
	return cfg, nil
}

func warnMissingSecrets(ctx context.Context, cfg *store.Config) {
	missing := map[string]string{
		cfg.News.NewsAPIKeyEnv:      cfg.Secrets.NewsAPIKey,
		cfg.Sentiment.APIKeyEnv:     cfg.Secrets.HFAPIKey,
		cfg.Market.FinnhubKeyEnv:    cfg.Secrets.FinnhubAPIKey,
		cfg.Market.TwelveDataKeyEnv: cfg.Secrets.TwelveDataKey,
	}
	for env, val := range missing {
		if val == "" {
			logger.Warn(ctx, "API key not set, provider calls will fail", "env", env)
		}
	}
}

// initializeResolver builds the symbol resolver backed by Finnhub search
func initializeResolver(cfg *store.Config, fh *finnhub.Client) interfaces.Resolver {
	return resolver.New(fh, cfg.Resolver.SearchTimeout, cfg.Resolver.DefaultSymbol)
}

// initializeNews builds the NewsAPI + Google News aggregator
func initializeNews(cfg *store.Config) *news.Aggregator {
	primary := news.NewNewsAPI(cfg.News.NewsAPIBaseURL, cfg.Secrets.NewsAPIKey, cfg.News.Language, cfg.News.PageSize, cfg.News.Timeout)
	secondary := news.NewGoogleNews(cfg.News.RSSBaseURL, cfg.News.Language, cfg.News.MaxItems, cfg.News.Timeout)

	return news.NewAggregator(primary, secondary, news.Options{
		MaxItems:    cfg.News.MaxItems,
		MinRelevant: cfg.News.MinRelevant,
		Timeout:     cfg.News.Timeout,
	})
}

// initializeScorer builds the rate-limited FinBERT scorer
func initializeScorer(cfg *store.Config) interfaces.Scorer {
	classifier := sentiment.NewHuggingFace(cfg.Sentiment.BaseURL, cfg.Sentiment.Model, cfg.Secrets.HFAPIKey, cfg.Sentiment.Timeout)
	return sentiment.NewScorer(classifier, cfg.Sentiment.RequestsPerSecond, cfg.Sentiment.Burst, cfg.Sentiment.Timeout)
}

// initializeMarket builds the quote/history fetcher with observability
func initializeMarket(cfg *store.Config, fh *finnhub.Client) interfaces.MarketData {
	td := market.NewTwelveData(cfg.Market.TwelveDataBaseURL, cfg.Secrets.TwelveDataKey, cfg.Market.Timeout)
	fetcher := market.NewFetcher(fh, td, cfg.Market.WeeklyAboveDays, cfg.Market.MinWeeklyBars)

	return marketobs.Wrap(fetcher)
}

// initializeEngine wires every component into the advisor with observability
func initializeEngine(cfg *store.Config) interfaces.Advisor {
	fh := finnhub.NewClient(cfg.Market.FinnhubBaseURL, cfg.Secrets.FinnhubAPIKey, cfg.Market.Timeout)

	eng := engine.New(cfg,
		initializeResolver(cfg, fh),
		initializeNews(cfg),
		initializeScorer(cfg),
		initializeMarket(cfg, fh),
	)

	return engineobs.Wrap(eng)
}
