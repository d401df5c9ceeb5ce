package decision

import "stocksy/internal/types"

// Tally counts each sentiment in a set of labels.
type Tally struct {
	Positive int
	Negative int
	Neutral  int
}

func Count(labels []types.Sentiment) Tally {
	var t Tally
	for _, l := range labels {
		switch l {
		case types.Positive:
			t.Positive++
		case types.Negative:
			t.Negative++
		default:
			t.Neutral++
		}
	}
	return t
}

// Score is #positive - #negative.
func (t Tally) Score() int {
	return t.Positive - t.Negative
}

// Action turns the net score into a recommendation: >0 Buy, <0 Sell, 0 Hold.
func (t Tally) Action() types.Action {
	switch s := t.Score(); {
	case s > 0:
		return types.Buy
	case s < 0:
		return types.Sell
	default:
		return types.Hold
	}
}

// Decide is the net-vote recommendation for labels. Empty input holds.
func Decide(labels []types.Sentiment) types.Action {
	return Count(labels).Action()
}

// Labels extracts the sentiment of each scored item.
func Labels(scored []types.ScoredItem) []types.Sentiment {
	out := make([]types.Sentiment, len(scored))
	for i, s := range scored {
		out[i] = s.Sentiment
	}
	return out
}
