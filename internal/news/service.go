package news

import (
	"context"
	"strings"
	"time"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/trace"
	"stocksy/internal/types"
)

// Aggregator combines a primary provider searched by company name with a
// secondary provider searched by symbol.
type Aggregator struct {
	primary   interfaces.NewsProvider
	secondary interfaces.NewsProvider
	cfg       Options
}

type Options struct {
	MaxItems    int           // cap on returned items
	MinRelevant int           // below this many relevant primary items the secondary is queried
	Timeout     time.Duration // per provider call
}

func DefaultOptions() Options {
	return Options{MaxItems: 6, MinRelevant: 3, Timeout: 8 * time.Second}
}

// ProviderFailure records a provider call that errored or timed out.
type ProviderFailure struct {
	Provider string
	Err      error
}

// Result is the outcome of one collection run.
type Result struct {
	Items     []types.NewsItem
	Attempted int
	Failures  []ProviderFailure
}

// AllFailed reports whether every attempted provider errored.
func (r Result) AllFailed() bool {
	return r.Attempted > 0 && len(r.Failures) == r.Attempted
}

func NewAggregator(primary, secondary interfaces.NewsProvider, opts Options) *Aggregator {
	def := DefaultOptions()
	if opts.MaxItems <= 0 {
		opts.MaxItems = def.MaxItems
	}
	if opts.MinRelevant < 0 {
		opts.MinRelevant = def.MinRelevant
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &Aggregator{primary: primary, secondary: secondary, cfg: opts}
}

// FetchNews returns at most MaxItems items and never fails.
func (a *Aggregator) FetchNews(ctx context.Context, symbol, companyName string) []types.NewsItem {
	return a.Collect(ctx, symbol, companyName).Items
}

// Collect is FetchNews with the provider failures kept for the caller.
func (a *Aggregator) Collect(ctx context.Context, symbol, companyName string) Result {
	ctx, span := trace.StartSpan(ctx, "news.Collect")
	defer span.End()

	var res Result
	var items []types.NewsItem

	if a.primary != nil {
		term := companyName
		if term == "" {
			term = symbol
		}
		raw, err := a.search(ctx, a.primary, term, &res)
		if err == nil {
			items = FilterRelevant(raw, symbol, companyName)
			logger.Debug(ctx, "Primary news filtered", "provider", a.primary.Name(), "raw", len(raw), "relevant", len(items))
		}
	}

	if len(items) < a.cfg.MinRelevant && a.secondary != nil {
		raw, err := a.search(ctx, a.secondary, symbol, &res)
		if err == nil {
			items = append(items, raw...)
		}
	}

	if len(items) > a.cfg.MaxItems {
		items = items[:a.cfg.MaxItems]
	}
	if items == nil {
		items = []types.NewsItem{}
	}
	res.Items = items

	logger.Info(ctx, "News collected", "symbol", symbol, "items", len(items), "failed_providers", len(res.Failures))
	return res
}

func (a *Aggregator) search(ctx context.Context, p interfaces.NewsProvider, term string, res *Result) ([]types.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	res.Attempted++
	items, err := p.Search(ctx, term)
	if err != nil {
		logger.Warn(ctx, "News provider failed", "provider", p.Name(), "term", term, "error", err)
		res.Failures = append(res.Failures, ProviderFailure{Provider: p.Name(), Err: err})
		return nil, err
	}
	return items, nil
}

// IsRelevant reports whether the item text mentions the symbol, the full
// company name, or any company-name word of at least 3 characters.
func IsRelevant(item types.NewsItem, symbol, companyName string) bool {
	text := strings.ToLower(item.Text())
	if text == "" {
		return false
	}
	if symbol != "" && strings.Contains(text, strings.ToLower(symbol)) {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" {
		return false
	}
	if strings.Contains(text, name) {
		return true
	}
	for _, w := range strings.Fields(name) {
		if len(w) >= 3 && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// FilterRelevant keeps relevant items in their original order.
func FilterRelevant(items []types.NewsItem, symbol, companyName string) []types.NewsItem {
	out := make([]types.NewsItem, 0, len(items))
	for _, it := range items {
		if IsRelevant(it, symbol, companyName) {
			out = append(out, it)
		}
	}
	return out
}
