package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"stocksy/internal/interfaces"
	"stocksy/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := map[string]types.Sentiment{
		"positive": types.Positive,
		"Positive": types.Positive,
		"LABEL_2":  types.Positive,
		"bearish":  types.Negative,
		"negative": types.Negative,
		"neutral":  types.Neutral,
		"LABEL_1":  types.Neutral,
		"joy":      types.Neutral,
		"":         types.Neutral,
	}
	for label, want := range tests {
		if got := Normalize(label); got != want {
			t.Errorf("Normalize(%q) = %s, want %s", label, got, want)
		}
	}
}

func TestBest(t *testing.T) {
	preds := []interfaces.Prediction{
		{Label: "neutral", Score: 0.2},
		{Label: "negative", Score: 0.7},
		{Label: "positive", Score: 0.1},
	}
	best, ok := Best(preds)
	if !ok || best.Label != "negative" {
		t.Errorf("Expected negative, got %+v", best)
	}
	if _, ok := Best(nil); ok {
		t.Error("Expected no best for empty input")
	}
}

func TestConfidence(t *testing.T) {
	tests := map[float64]float64{
		0.98765: 98.77,
		1:       100,
		0:       0,
		1.2:     100,
		-0.3:    0,
	}
	for in, want := range tests {
		if got := Confidence(in); got != want {
			t.Errorf("Confidence(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParsePredictions(t *testing.T) {
	nested := `[[{"label":"positive","score":0.9},{"label":"negative","score":0.05}]]`
	flat := `[{"label":"neutral","score":0.6}]`

	got, err := parsePredictions([]byte(nested))
	if err != nil || len(got) != 2 || got[0].Label != "positive" {
		t.Errorf("nested: got %v, %v", got, err)
	}
	got, err = parsePredictions([]byte(flat))
	if err != nil || len(got) != 1 || got[0].Label != "neutral" {
		t.Errorf("flat: got %v, %v", got, err)
	}
	if _, err := parsePredictions([]byte(`{"error":"x"}`)); err == nil {
		t.Error("Expected error for object payload")
	}
	if _, err := parsePredictions([]byte(`[]`)); err == nil {
		t.Error("Expected error for empty payload")
	}
}

func TestHuggingFaceClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/ProsusAI/finbert" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf" {
			t.Error("Expected bearer token")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["inputs"] != "Tesla beats estimates" {
			t.Errorf("Unexpected inputs %q", body["inputs"])
		}
		_, _ = w.Write([]byte(`[[{"label":"positive","score":0.91},{"label":"neutral","score":0.06}]]`))
	}))
	defer srv.Close()

	h := NewHuggingFace(srv.URL, "ProsusAI/finbert", "hf", time.Second)
	preds, err := h.Classify(context.Background(), "Tesla beats estimates")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(preds) != 2 || preds[0].Score != 0.91 {
		t.Errorf("Unexpected predictions %v", preds)
	}
}

func TestHuggingFaceModelLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model ProsusAI/finbert is currently loading","estimated_time":20}`))
	}))
	defer srv.Close()

	h := NewHuggingFace(srv.URL, "ProsusAI/finbert", "", time.Second)
	_, err := h.Classify(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "currently loading") {
		t.Errorf("Expected model loading error, got %v", err)
	}
}

// fakeClassifier answers by headline; headlines containing "fail" error out.
type fakeClassifier struct {
	calls int32
}

func (f *fakeClassifier) Classify(_ context.Context, text string) ([]interfaces.Prediction, error) {
	atomic.AddInt32(&f.calls, 1)
	switch {
	case strings.Contains(text, "fail"):
		return nil, errors.New("upstream 500")
	case strings.Contains(text, "up"):
		return []interfaces.Prediction{{Label: "positive", Score: 0.8}, {Label: "negative", Score: 0.1}}, nil
	case strings.Contains(text, "down"):
		return []interfaces.Prediction{{Label: "negative", Score: 0.75}}, nil
	default:
		return []interfaces.Prediction{{Label: "mystery", Score: 0.5}}, nil
	}
}

func TestScoreAllKeepsOrderAndLength(t *testing.T) {
	fc := &fakeClassifier{}
	s := NewScorer(fc, 1000, 10, time.Second)

	items := []types.NewsItem{
		{Title: "shares up"},
		{Title: "this will fail"},
		{Title: "shares down"},
		{Title: ""},
		{Title: "odd label"},
	}
	got := s.ScoreAll(context.Background(), items)

	want := []types.ScoredItem{
		{Sentiment: types.Positive, Confidence: 80},
		{Sentiment: types.Neutral, Confidence: 0},
		{Sentiment: types.Negative, Confidence: 75},
		{Sentiment: types.Neutral, Confidence: 0},
		{Sentiment: types.Neutral, Confidence: 50},
	}
	if len(got) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := atomic.LoadInt32(&fc.calls); n != 4 {
		t.Errorf("Expected 4 classifier calls (empty title skipped), got %d", n)
	}
}

func TestScoreAllEmpty(t *testing.T) {
	s := NewScorer(&fakeClassifier{}, 10, 1, time.Second)
	if got := s.ScoreAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}

type slowClassifier struct{}

func (slowClassifier) Classify(ctx context.Context, _ string) ([]interfaces.Prediction, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestScoreTimeoutFallsBack(t *testing.T) {
	s := NewScorer(slowClassifier{}, 100, 5, 20*time.Millisecond)
	got := s.Score(context.Background(), types.NewsItem{Title: "slow headline"})
	if got.Sentiment != types.Neutral || got.Confidence != 0 {
		t.Errorf("Expected neutral fallback, got %+v", got)
	}
}
