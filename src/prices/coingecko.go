package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"fintrack-server/src/db"
)

const requestTimeout = 10 * time.Second

// UpstreamError carries a non-2xx status returned by the price API.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("price API returned status %d", e.StatusCode)
}

// Client quotes coin prices in IDR from a CoinGecko-compatible API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// CacheKey sorts the ids so the same set in any order shares a cache entry.
func CacheKey(coinIDs []string) string {
	ids := append([]string(nil), coinIDs...)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// Prices returns the IDR price per coin id. Results are cached for db.PriceCacheTTL.
func (c *Client) Prices(ctx context.Context, coinIDs []string) (map[string]float64, error) {
	key := CacheKey(coinIDs)
	if cached, ok := db.GetPriceCache(key); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=idr", c.BaseURL, url.QueryEscape(strings.Join(coinIDs, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var body map[string]struct {
		IDR float64 `json:"idr"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}

	quotes := make(map[string]float64, len(body))
	for id, q := range body {
		quotes[id] = q.IDR
	}
	db.SetPriceCache(key, quotes)
	return quotes, nil
}
