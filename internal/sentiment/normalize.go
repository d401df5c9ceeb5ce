package sentiment

import (
	"strings"

	"github.com/shopspring/decimal"

	"stocksy/internal/interfaces"
	"stocksy/internal/types"
)

var labels = map[string]types.Sentiment{
	"positive": types.Positive,
	"pos":      types.Positive,
	"bullish":  types.Positive,
	"label_2":  types.Positive,
	"negative": types.Negative,
	"neg":      types.Negative,
	"bearish":  types.Negative,
	"label_0":  types.Negative,
	"neutral":  types.Neutral,
	"label_1":  types.Neutral,
}

// Normalize maps a model label to one of the three sentiments. Unknown labels are neutral.
func Normalize(label string) types.Sentiment {
	if s, ok := labels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s
	}
	return types.Neutral
}

// Best returns the highest-scoring prediction. The first one wins ties.
func Best(preds []interfaces.Prediction) (interfaces.Prediction, bool) {
	if len(preds) == 0 {
		return interfaces.Prediction{}, false
	}
	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, true
}

// Confidence converts a [0,1] model score to a percentage with 2 decimals, clamped to [0,100].
func Confidence(score float64) float64 {
	pct := decimal.NewFromFloat(score).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.IsNegative() {
		return 0
	}
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return pct.InexactFloat64()
}
