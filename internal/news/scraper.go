package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// GoogleNews reads the Google News RSS search feed.
type GoogleNews struct {
	baseURL  string
	language string
	timeout  time.Duration
	maxItems int
}

var _ interfaces.NewsProvider = (*GoogleNews)(nil)

func NewGoogleNews(baseURL, language string, maxItems int, timeout time.Duration) *GoogleNews {
	return &GoogleNews{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		timeout:  timeout,
		maxItems: maxItems,
	}
}

func (g *GoogleNews) Name() string { return "googlenews" }

// Search returns feed items for term in feed order.
func (g *GoogleNews) Search(ctx context.Context, term string) ([]types.NewsItem, error) {
	items := []types.NewsItem{}

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(g.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnXML("//item", func(e *colly.XMLElement) {
		if g.maxItems > 0 && len(items) >= g.maxItems {
			return
		}

		source := strings.TrimSpace(e.ChildText("source"))
		title := trimSourceSuffix(CleanText(e.ChildText("title")), source)
		link := strings.TrimSpace(e.ChildText("link"))
		if title == "" || link == "" {
			return
		}
		if source == "" {
			source = "Google News"
		}

		items = append(items, types.NewsItem{
			Title:       title,
			Description: CleanText(e.ChildText("description")),
			URL:         link,
			Source:      source,
			PublishedAt: strings.TrimSpace(e.ChildText("pubDate")),
		})
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("google news status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(g.searchURL(term)); err != nil {
		return nil, fmt.Errorf("failed to fetch google news feed: %w", err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}

	logger.Debug(ctx, "Google News feed parsed", "term", term, "items", len(items))
	return items, nil
}

func (g *GoogleNews) searchURL(term string) string {
	q := url.Values{
		"q":    {term},
		"hl":   {g.language + "-US"},
		"gl":   {"US"},
		"ceid": {"US:" + g.language},
	}
	return g.baseURL + "/rss/search?" + q.Encode()
}
