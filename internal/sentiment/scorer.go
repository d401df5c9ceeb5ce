package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/trace"
	"stocksy/internal/types"
)

// Scorer classifies headlines concurrently.
type Scorer struct {
	classifier interfaces.Classifier
	limiter    *rate.Limiter
	timeout    time.Duration
}

var _ interfaces.Scorer = (*Scorer)(nil)

// NewScorer limits classifier calls to rps with the given burst. timeout bounds each call.
func NewScorer(classifier interfaces.Classifier, rps float64, burst int, timeout time.Duration) *Scorer {
	if burst < 1 {
		burst = 1
	}
	return &Scorer{
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		timeout:    timeout,
	}
}

func fallback() types.ScoredItem {
	return types.ScoredItem{Sentiment: types.Neutral, Confidence: 0}
}

// Score classifies one item. Any failure yields neutral with zero confidence.
func (s *Scorer) Score(ctx context.Context, item types.NewsItem) types.ScoredItem {
	scored, err := s.score(ctx, item)
	if err != nil {
		logger.Warn(ctx, "Headline scoring failed, using neutral", "title", item.Title, "error", err)
		return fallback()
	}
	return scored
}

func (s *Scorer) score(ctx context.Context, item types.NewsItem) (types.ScoredItem, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return types.ScoredItem{}, errors.New("empty title")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return types.ScoredItem{}, fmt.Errorf("limiter wait error: %w", err)
	}

	preds, err := s.classifier.Classify(ctx, title)
	if err != nil {
		return types.ScoredItem{}, err
	}
	best, ok := Best(preds)
	if !ok {
		return types.ScoredItem{}, errors.New("no predictions")
	}

	return types.ScoredItem{
		Sentiment:  Normalize(best.Label),
		Confidence: Confidence(best.Score),
	}, nil
}

// ScoreAll scores every item concurrently and waits for all of them.
// The result has one entry per input item, in input order.
func (s *Scorer) ScoreAll(ctx context.Context, items []types.NewsItem) []types.ScoredItem {
	ctx, span := trace.StartSpan(ctx, "sentiment.Score")
	defer span.End()

	results := make([]types.ScoredItem, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item types.NewsItem) {
			defer wg.Done()
			results[i] = s.Score(ctx, item)
		}(i, item)
	}
	wg.Wait()

	logger.Debug(ctx, "Headlines scored", "count", len(results))
	return results
}
