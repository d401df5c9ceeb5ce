package interfaces

import (
	"context"

	"stocksy/internal/types"
)

// NewsProvider is a single news source. Errors are reported, not swallowed;
// aggregation decides how to degrade.
type NewsProvider interface {
	Name() string
	Search(ctx context.Context, term string) ([]types.NewsItem, error)
}
