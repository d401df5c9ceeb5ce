package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stocksy/internal/store"
	"stocksy/internal/types"
)

type fakeAdvisor struct {
	err     error
	prompts []string
}

func (f *fakeAdvisor) Analyze(_ context.Context, prompt string) (*types.SentimentReport, error) {
	f.prompts = append(f.prompts, prompt)
	if strings.TrimSpace(prompt) == "" {
		return nil, &types.InputError{Msg: "Prompt is required"}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &types.SentimentReport{
		Sentiment:   types.Positive,
		Action:      types.Buy,
		Trend:       types.TrendNeutral,
		Reason:      "ok",
		News:        []types.NewsItem{{Title: "Tesla up", URL: "u", Source: "s"}},
		CompanyName: "Tesla",
		Symbol:      "TSLA",
	}, nil
}

func (f *fakeAdvisor) Backtest(_ context.Context, prompt string) (*types.BacktestReport, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &types.BacktestReport{
		Symbol:         "TSLA",
		Days:           21,
		BacktestResult: types.BacktestResult{Recommendation: "Not enough data"},
		HistoricalData: []types.HistoricalBar{},
		Reason:         "r",
	}, nil
}

func newTestServer(a *fakeAdvisor) http.Handler {
	cfg := store.Default()
	cfg.Server.RequestTimeout = time.Second
	return New(a, cfg).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestSentimentEndpoint(t *testing.T) {
	a := &fakeAdvisor{}
	rec := do(t, newTestServer(a), http.MethodPost, "/api/sentiment", `{"prompt":"Should I buy Tesla?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["action"] != "Buy" || payload["sentiment"] != "positive" {
		t.Errorf("Unexpected payload %v", payload)
	}
	if v, ok := payload["currentPrice"]; !ok || v != nil {
		t.Errorf("Expected currentPrice null, got %v (present=%v)", v, ok)
	}
	if a.prompts[0] != "Should I buy Tesla?" {
		t.Errorf("Unexpected prompt %q", a.prompts[0])
	}
}

func TestBacktestEndpoint(t *testing.T) {
	rec := do(t, newTestServer(&fakeAdvisor{}), http.MethodPost, "/api/backtest", `{"prompt":"backtest tsla 3 weeks"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload types.BacktestReport
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Symbol != "TSLA" || payload.Days != 21 {
		t.Errorf("Unexpected payload %+v", payload)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	for _, path := range []string{"/api/sentiment", "/api/backtest"} {
		rec := do(t, newTestServer(&fakeAdvisor{}), http.MethodGet, path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", path, rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("%s: expected Allow: POST, got %q", path, rec.Header().Get("Allow"))
		}
	}
}

func TestBadInput(t *testing.T) {
	h := newTestServer(&fakeAdvisor{})

	rec := do(t, h, http.MethodPost, "/api/sentiment", `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/sentiment", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing prompt: expected 400, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "Prompt is required" {
		t.Errorf("Unexpected error message %q", msg)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&types.NotFoundError{Msg: "No recent news found for Tesla", Suggestion: "Try another"}, http.StatusNotFound},
		{&types.UpstreamError{Provider: "twelvedata", Err: errors.New("quota exceeded")}, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := do(t, newTestServer(&fakeAdvisor{err: tt.err}), http.MethodPost, "/api/sentiment", `{"prompt":"tesla"}`)
		if rec.Code != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, rec.Code)
		}
		if msg := errorBody(t, rec); msg != tt.err.Error() {
			t.Errorf("Expected error %q, got %q", tt.err.Error(), msg)
		}
	}
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestServer(&fakeAdvisor{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("Expected request id echoed, got %q", rec.Header().Get("X-Request-ID"))
	}

	rec = do(t, h, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected generated request id")
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(&fakeAdvisor{}), http.MethodOptions, "/api/sentiment", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
