package resolver

import (
	"context"
	"regexp"
	"strings"
	"time"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/types"
)

// Strategy is one link of the resolution chain. ok=false passes to the next link.
type Strategy func(ctx context.Context, query string) (target types.ResolvedTarget, ok bool)

// Company is an entry of the static name table.
type Company struct {
	Match  string // upper-case token searched for in the query
	Symbol string
	Name   string
}

// KnownCompanies is checked in order; the first match wins.
var KnownCompanies = []Company{
	{Match: "TESLA", Symbol: "TSLA", Name: "Tesla"},
	{Match: "APPLE", Symbol: "AAPL", Name: "Apple"},
	{Match: "MICROSOFT", Symbol: "MSFT", Name: "Microsoft"},
	{Match: "GOOGLE", Symbol: "GOOGL", Name: "Google"},
	{Match: "ALPHABET", Symbol: "GOOGL", Name: "Alphabet"},
	{Match: "AMAZON", Symbol: "AMZN", Name: "Amazon"},
	{Match: "NVIDIA", Symbol: "NVDA", Name: "Nvidia"},
	{Match: "META", Symbol: "META", Name: "Meta"},
	{Match: "FACEBOOK", Symbol: "META", Name: "Meta"},
	{Match: "NETFLIX", Symbol: "NFLX", Name: "Netflix"},
}

const (
	SourceKnown    = "known"
	SourceSearch   = "search"
	SourceFallback = "fallback"
)

// Resolver tries each strategy in order and falls back to a text heuristic.
type Resolver struct {
	strategies    []Strategy
	defaultSymbol string
}

var _ interfaces.Resolver = (*Resolver)(nil)

// New builds the standard chain: static table, then searcher (if non-nil).
func New(searcher interfaces.SymbolSearcher, searchTimeout time.Duration, defaultSymbol string) *Resolver {
	strategies := []Strategy{LookupKnown}
	if searcher != nil {
		strategies = append(strategies, Search(searcher, searchTimeout))
	}
	return NewWithStrategies(defaultSymbol, strategies...)
}

func NewWithStrategies(defaultSymbol string, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, defaultSymbol: strings.ToUpper(defaultSymbol)}
}

// Resolve always returns a target.
func (r *Resolver) Resolve(ctx context.Context, query string) types.ResolvedTarget {
	for _, s := range r.strategies {
		if t, ok := s(ctx, query); ok {
			logger.Debug(ctx, "Symbol resolved", "query", query, "symbol", t.Symbol, "company", t.CompanyName, "source", t.Source)
			return t
		}
	}
	t := Fallback(query, r.defaultSymbol)
	logger.Debug(ctx, "Symbol resolved by fallback", "query", query, "symbol", t.Symbol)
	return t
}

// LookupKnown matches the query against KnownCompanies (case-insensitive substring).
func LookupKnown(_ context.Context, query string) (types.ResolvedTarget, bool) {
	q := strings.ToUpper(query)
	for _, c := range KnownCompanies {
		if strings.Contains(q, c.Match) {
			return types.ResolvedTarget{Symbol: c.Symbol, CompanyName: c.Name, Source: SourceKnown}, true
		}
	}
	return types.ResolvedTarget{}, false
}

// Search queries an external provider with the extracted name or last meaningful word.
func Search(searcher interfaces.SymbolSearcher, timeout time.Duration) Strategy {
	return func(ctx context.Context, query string) (types.ResolvedTarget, bool) {
		term := SearchTerm(query)
		if term == "" {
			return types.ResolvedTarget{}, false
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		t, err := searcher.SearchSymbol(ctx, term)
		if err != nil {
			logger.Warn(ctx, "Symbol search failed, falling back", "term", term, "error", err)
			return types.ResolvedTarget{}, false
		}
		if t.Symbol == "" {
			return types.ResolvedTarget{}, false
		}
		if t.CompanyName == "" {
			t.CompanyName = t.Symbol
		}
		t.Source = SourceSearch
		return t, true
	}
}

// Fallback upper-cases the extracted name (or last meaningful word) and uses it
// as both symbol and company name. defaultSymbol covers queries with no words.
func Fallback(query, defaultSymbol string) types.ResolvedTarget {
	name := ExtractName(query)
	if name == "" {
		name = LastMeaningfulWord(query)
	}
	if name == "" {
		return types.ResolvedTarget{Symbol: defaultSymbol, CompanyName: defaultSymbol, Source: SourceFallback}
	}
	upper := strings.ToUpper(name)
	return types.ResolvedTarget{
		Symbol:      strings.Join(strings.Fields(upper), ""),
		CompanyName: upper,
		Source:      SourceFallback,
	}
}

var (
	actionPattern = regexp.MustCompile(`(?i)\b(?:buy|sell|hold)\s+([a-z.\s]+)`)
	wordPattern   = regexp.MustCompile(`[A-Za-z][A-Za-z.]*`)
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "me": true, "my": true, "we": true, "you": true,
	"is": true, "it": true, "its": true, "be": true, "do": true, "does": true, "should": true,
	"would": true, "could": true, "can": true, "will": true, "what": true, "if": true,
	"or": true, "and": true, "to": true, "of": true, "in": true, "on": true, "for": true, "at": true,
	"about": true, "with": true, "now": true, "today": true, "right": true, "this": true,
	"buy": true, "sell": true, "hold": true, "invest": true, "stock": true, "stocks": true,
	"share": true, "shares": true, "price": true, "backtest": true, "over": true, "last": true,
	"past": true, "day": true, "days": true, "week": true, "weeks": true, "month": true,
	"months": true, "year": true, "years": true, "think": true, "good": true, "time": true,
}

// ExtractName returns the company phrase following buy/sell/hold with stop words removed.
func ExtractName(query string) string {
	m := actionPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return strings.Join(meaningfulWords(m[1]), " ")
}

// LastMeaningfulWord returns the last alphabetic token that is not a stop word.
func LastMeaningfulWord(query string) string {
	words := meaningfulWords(query)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// SearchTerm is what the search strategy sends upstream.
func SearchTerm(query string) string {
	if name := ExtractName(query); name != "" {
		return name
	}
	return LastMeaningfulWord(query)
}

func meaningfulWords(s string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(s, -1) {
		w = strings.TrimRight(w, ".")
		if w == "" || stopWords[strings.ToLower(w)] {
			continue
		}
		out = append(out, w)
	}
	return out
}
