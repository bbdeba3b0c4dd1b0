package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack-server/src/prices"
)

func TestGetPricesRequiresCoinIDs(t *testing.T) {
	client := prices.NewClient("http://127.0.0.1:0")
	for _, body := range []string{`{}`, `{"coinIds":["  "]}`, `not json`} {
		req := httptest.NewRequest("POST", "/api/price", bytesReader([]byte(body)))
		w := httptest.NewRecorder()
		GetPrices(client).ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest || errorMessage(t, w) != "Coin ID kosong" {
			t.Errorf("Expected 400 for %s, got %d %s", body, w.Code, w.Body.String())
		}
	}
}

func TestGetPricesRelaysQuotes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currencies") != "idr" {
			t.Errorf("Expected idr quotes, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"handler-test-coin":{"idr":1250.5}}`))
	}))
	defer upstream.Close()

	req := httptest.NewRequest("POST", "/api/price", bytesReader([]byte(`{"coinIds":["handler-test-coin"]}`)))
	w := httptest.NewRecorder()
	GetPrices(prices.NewClient(upstream.URL)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", w.Code, w.Body.String())
	}
	var body map[string]map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["handler-test-coin"]["idr"] != 1250.5 {
		t.Errorf("Unexpected quotes %v", body)
	}
}

func TestGetPricesRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	req := httptest.NewRequest("POST", "/api/price", bytesReader([]byte(`{"coinIds":["handler-limited-coin"]}`)))
	w := httptest.NewRecorder()
	GetPrices(prices.NewClient(upstream.URL)).ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests || errorMessage(t, w) != "Failed to fetch prices from CoinGecko" {
		t.Errorf("Expected relayed 429, got %d %s", w.Code, w.Body.String())
	}
}
