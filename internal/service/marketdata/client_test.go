package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	svccache "SharePulse/internal/service/cache"
	"SharePulse/internal/service/ratelimit"
	xhttp "SharePulse/pkg/http"
	"SharePulse/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		PriceScale: 100,
		SeriesTTL:  time.Minute,
	}
	return New(cfg, xhttp.NewClient(), svccache.NewTTLCache(), ratelimit.New(), lgr)
}

func TestHistoryScalesPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "NPN" {
			t.Errorf("symbol = %q, want NPN", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"NPN","bars":[
			{"date":"2024-01-02","open":250000,"high":255000,"low":249000,"close":252500,"volume":1000},
			{"date":"2024-01-03","open":252500,"high":253000,"low":251000,"close":251800,"volume":900}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	bars, err := c.History(context.Background(), "NPN", "1y")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("len(bars) = %d, want 2", len(bars))
	}
	if bars[0].Close != 2525.0 {
		t.Errorf("close = %v, want 2525 (cents / 100)", bars[0].Close)
	}
	if bars[0].Volume != 1000 {
		t.Errorf("volume = %v, want 1000 (unscaled)", bars[0].Volume)
	}
	if bars[0].Date.Format("2006-01-02") != "2024-01-02" {
		t.Errorf("date = %v", bars[0].Date)
	}
}

func TestHistoryUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"SOL","bars":[{"date":"2024-01-02","close":10000,"volume":1}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.History(context.Background(), "SOL", "1y"); err != nil {
			t.Fatalf("History: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestHistoryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.History(context.Background(), "AGL", "1y"); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}

func TestFundamentalsMissingMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"SHP"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	f, err := c.Fundamentals(context.Background(), "SHP")
	if err != nil {
		t.Fatalf("Fundamentals: %v", err)
	}
	if f == nil {
		t.Fatal("want non-nil map for missing metrics")
	}
	if v := f["pe_ratio"]; v != 0 {
		t.Errorf("absent key should read zero, got %v", v)
	}
}
