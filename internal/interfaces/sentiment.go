package interfaces

import (
	"context"

	"stocksy/internal/types"
)

// Prediction is one label/score pair returned by a text classifier.
type Prediction struct {
	Label string
	Score float64
}

// Classifier sends text to an external classification model.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// Scorer scores every item and keeps positions aligned with the input.
type Scorer interface {
	ScoreAll(ctx context.Context, items []types.NewsItem) []types.ScoredItem
}
