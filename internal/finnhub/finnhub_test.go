package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocksy/internal/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", time.Second)
}

func TestSearchSymbolTakesTopResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected /search, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "palantir" || r.URL.Query().Get("token") != "test-key" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"count":2,"result":[
			{"description":"PALANTIR TECHNOLOGIES INC-A","displaySymbol":"PLTR","symbol":"PLTR","type":"Common Stock"},
			{"description":"PALANTIR TECH-CDR","displaySymbol":"PLTR.NE","symbol":"PLTR.NE","type":"Common Stock"}]}`))
	})

	got, err := c.SearchSymbol(context.Background(), "palantir")
	if err != nil {
		t.Fatalf("SearchSymbol: %v", err)
	}
	if got.Symbol != "PLTR" || got.CompanyName != "PALANTIR TECHNOLOGIES INC-A" {
		t.Errorf("Unexpected target %+v", got)
	}
}

func TestSearchSymbolNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"result":[]}`))
	})
	if _, err := c.SearchSymbol(context.Background(), "zzzz"); err == nil {
		t.Fatal("Expected error for empty result")
	}
}

func TestSearchSymbolRequiresKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", time.Second)
	if _, err := c.SearchSymbol(context.Background(), "x"); err == nil {
		t.Fatal("Expected error without API key")
	}
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" || r.URL.Query().Get("symbol") != "TSLA" {
			t.Errorf("Unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"c":250.5,"d":-3.25,"dp":-1.28,"h":255,"l":248,"o":254,"pc":253.75,"t":1718000000}`))
	})

	q, err := c.Quote(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.CurrentPrice == nil || *q.CurrentPrice != 250.5 {
		t.Errorf("Expected current price 250.5, got %v", q.CurrentPrice)
	}
	if q.PrevClose == nil || *q.PrevClose != 253.75 {
		t.Errorf("Expected prev close 253.75, got %v", q.PrevClose)
	}
	if q.Trend != types.TrendDown {
		t.Errorf("Expected trend down, got %s", q.Trend)
	}
}

func TestQuoteUnknownSymbolIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	})
	if _, err := c.Quote(context.Background(), "NOPE"); err == nil {
		t.Fatal("Expected error for all-zero quote")
	}
}

func TestQuoteHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := c.Quote(context.Background(), "TSLA"); err == nil {
		t.Fatal("Expected error for 429")
	}
}
