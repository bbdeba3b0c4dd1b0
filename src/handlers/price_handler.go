package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"fintrack-server/src/prices"
	"fintrack-server/src/util"
)

// GetPrices relays IDR quotes in the CoinGecko shape: {"bitcoin": {"idr": 1.5e9}}.
func GetPrices(client *prices.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CoinIDs []string `json:"coinIds"`
		}
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode price request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "Coin ID kosong")
			return
		}
		ids := make([]string, 0, len(req.CoinIDs))
		for _, id := range req.CoinIDs {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			util.WriteError(w, http.StatusBadRequest, "Coin ID kosong")
			return
		}

		quotes, err := client.Prices(r.Context(), ids)
		if err != nil {
			var upstream *prices.UpstreamError
			if errors.As(err, &upstream) {
				log.Printf("ERROR: Price API returned status %d for %v", upstream.StatusCode, ids)
				util.WriteError(w, upstream.StatusCode, "Failed to fetch prices from CoinGecko")
				return
			}
			log.Printf("ERROR: Failed to fetch prices for %v: %v", ids, err)
			util.WriteError(w, http.StatusInternalServerError, "Internal server error while fetching prices")
			return
		}

		body := make(map[string]map[string]float64, len(quotes))
		for id, idr := range quotes {
			body[id] = map[string]float64{"idr": idr}
		}
		util.WriteJSON(w, http.StatusOK, body)
	}
}
