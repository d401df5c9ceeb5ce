package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGETAppliesBaseURLQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("Expected path /v2/everything, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Tesla Inc" {
			t.Errorf("Expected q=Tesla Inc, got %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("Expected X-Api-Key header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected per-request Accept header, got %q", got)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL+"/v2/"), WithHeader("X-Api-Key", "secret"), WithTimeout(time.Second))
	resp, err := c.GET(context.Background(), "/everything", url.Values{"q": {"Tesla Inc"}},
		map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("GET: %v", err)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("Expected status ok, got %s", body.Status)
	}
}

func TestPOSTEncodesJSONBodyWithBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected JSON content type, got %q", got)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["inputs"]})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithBearerToken("tok"))
	resp, err := c.POST(context.Background(), "/models/x", map[string]string{"inputs": "headline"})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var out map[string]string
	if err := resp.ParseJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out["echo"] != "headline" {
		t.Errorf("Expected echo of body, got %v", out)
	}
}

func TestErrorStatusReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GET(context.Background(), "/x", nil)
	if err == nil {
		t.Fatal("Expected error for 429")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StatusError, got %T", err)
	}
	if se.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", se.StatusCode)
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.GET(ctx, "/slow", nil); err == nil {
		t.Fatal("Expected timeout error")
	}
}
