package interfaces

import (
	"context"

	"stocksy/internal/types"
)

// Resolver maps free text to a ticker. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, query string) types.ResolvedTarget
}

// SymbolSearcher is an external symbol-search provider.
type SymbolSearcher interface {
	SearchSymbol(ctx context.Context, term string) (types.ResolvedTarget, error)
}
