package types

import "strings"

// Sentiment is the normalized three-way classifier output.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Action is the trading recommendation derived from a set of sentiments.
type Action string

const (
	Buy  Action = "Buy"
	Sell Action = "Sell"
	Hold Action = "Hold"
)

// Sentiment maps an action back to the overall sentiment reported alongside it.
func (a Action) Sentiment() Sentiment {
	switch a {
	case Buy:
		return Positive
	case Sell:
		return Negative
	default:
		return Neutral
	}
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// TrendFromChange is up for a positive change, down for a negative one.
func TrendFromChange(change float64) Trend {
	switch {
	case change > 0:
		return TrendUp
	case change < 0:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// ResolvedTarget is the canonical ticker and display name for a query.
type ResolvedTarget struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Source      string `json:"-"` // which resolver strategy produced it
}

type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Text returns the title and description joined for relevance matching.
func (n NewsItem) Text() string {
	if n.Description == "" {
		return n.Title
	}
	return strings.TrimSpace(n.Title + " " + n.Description)
}

// ScoredItem is the classifier verdict for one NewsItem. Confidence is in [0,100].
type ScoredItem struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// Quote fields are pointers so a degraded quote serializes as nulls.
type Quote struct {
	CurrentPrice  *float64 `json:"currentPrice"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Open          *float64 `json:"open,omitempty"`
	PrevClose     *float64 `json:"prevClose,omitempty"`
	Trend         Trend    `json:"trend"`
}

// EmptyQuote is the degraded quote: no numbers, neutral trend.
func EmptyQuote() Quote {
	return Quote{Trend: TrendNeutral}
}

type HistoricalBar struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type BacktestResult struct {
	BuyPrice       float64 `json:"buyPrice"`
	SellPrice      float64 `json:"sellPrice"`
	Profit         float64 `json:"profit"`
	ReturnPct      float64 `json:"returnPct"`
	Recommendation string  `json:"recommendation"`
}

// SentimentReport is the response of the sentiment pipeline.
type SentimentReport struct {
	Sentiment           Sentiment    `json:"sentiment"`
	Action              Action       `json:"action"`
	ConfidenceBreakdown []ScoredItem `json:"confidenceBreakdown,omitempty"`
	CurrentPrice        *float64     `json:"currentPrice"`
	Change              *float64     `json:"change"`
	ChangePercent       *float64     `json:"changePercent"`
	Trend               Trend        `json:"trend"`
	Reason              string       `json:"reason"`
	News                []NewsItem   `json:"news"`
	CompanyName         string       `json:"companyName,omitempty"`
	Symbol              string       `json:"symbol,omitempty"`
}

// BacktestReport is the response of the backtest pipeline.
type BacktestReport struct {
	Symbol         string          `json:"symbol"`
	Days           int             `json:"days"`
	BacktestResult BacktestResult  `json:"backtestResult"`
	HistoricalData []HistoricalBar `json:"historicalData"`
	Reason         string          `json:"reason"`
}
