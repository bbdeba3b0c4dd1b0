package prices

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"fintrack-server/src/db"
)

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	if CacheKey([]string{"solana", "bitcoin"}) != CacheKey([]string{"bitcoin", "solana"}) {
		t.Error("Expected identical cache keys")
	}
	if CacheKey([]string{"b", "a"}) != "a,b" {
		t.Errorf("Unexpected key %q", CacheKey([]string{"b", "a"}))
	}
}

func TestPricesFetchesAndCaches(t *testing.T) {
	db.InitCache()
	defer db.ClearAllPriceCaches()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/simple/price" || r.URL.Query().Get("vs_currencies") != "idr" {
			t.Errorf("Unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`{"bitcoin":{"idr":1500000000},"ethereum":{"idr":55000000}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	got, err := c.Prices(context.Background(), []string{"ethereum", "bitcoin"})
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if got["bitcoin"] != 1500000000 || got["ethereum"] != 55000000 {
		t.Errorf("Unexpected prices %v", got)
	}

	db.Cache.Wait()
	if _, err := c.Prices(context.Background(), []string{"bitcoin", "ethereum"}); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected cached second lookup, got %d upstream calls", calls)
	}
}

func TestPricesRelaysUpstreamStatus(t *testing.T) {
	db.InitCache()
	defer db.ClearAllPriceCaches()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Prices(context.Background(), []string{"dogecoin"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected upstream 429 error, got %v", err)
	}
}
