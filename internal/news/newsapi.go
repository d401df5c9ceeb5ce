package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stocksy/internal/api"
	"stocksy/internal/interfaces"
	"stocksy/internal/types"
)

// NewsAPI searches the NewsAPI /everything endpoint.
type NewsAPI struct {
	client   *api.Client
	apiKey   string
	language string
	pageSize int
}

var _ interfaces.NewsProvider = (*NewsAPI)(nil)

func NewNewsAPI(baseURL, apiKey, language string, pageSize int, timeout time.Duration) *NewsAPI {
	return &NewsAPI{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithHeader("X-Api-Key", apiKey),
			api.WithLogging(true),
		),
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns articles matching term, most relevant first.
func (n *NewsAPI) Search(ctx context.Context, term string) ([]types.NewsItem, error) {
	if n.apiKey == "" {
		return nil, errors.New("newsapi key not configured")
	}

	query := url.Values{
		"q":        {term},
		"language": {n.language},
		"sortBy":   {"relevancy"},
		"pageSize": {strconv.Itoa(n.pageSize)},
	}

	resp, err := n.client.GET(ctx, "/everything", query)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			var body everythingResponse
			if jsonErr := (&api.Response{Body: []byte(se.Body)}).ParseJSON(&body); jsonErr == nil && body.Message != "" {
				return nil, fmt.Errorf("newsapi: %s", body.Message)
			}
		}
		return nil, fmt.Errorf("newsapi search: %w", err)
	}

	var body everythingResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("newsapi: %s", body.Message)
	}

	items := make([]types.NewsItem, 0, len(body.Articles))
	for _, a := range body.Articles {
		title := CleanText(a.Title)
		// NewsAPI keeps tombstones for deleted articles
		if title == "" || title == "[Removed]" {
			continue
		}
		items = append(items, types.NewsItem{
			Title:       title,
			Description: CleanText(a.Description),
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}
