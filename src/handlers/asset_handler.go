package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/prices"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
)

const (
	defaultAssetType  = "stock"
	defaultAssetColor = "bg-gray-500"
)

// assetRequest fields are optional so PUT can patch a subset, e.g. only the canvas position.
type assetRequest struct {
	Name      *string    `json:"name"`
	Amount    *flexFloat `json:"amount"`
	BuyPrice  *flexFloat `json:"buyPrice"`
	Type      *string    `json:"type"`
	Category  *string    `json:"category"`
	Color     *string    `json:"color"`
	CoinID    *string    `json:"coinId"`
	PositionX *float64   `json:"positionX"`
	PositionY *float64   `json:"positionY"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// apply merges the request into a.
func (req assetRequest) apply(a *models.Asset) {
	if v := trimmed(req.Name); v != "" {
		a.Name = v
	}
	if req.Amount != nil {
		a.Amount = float64(*req.Amount)
	}
	if req.BuyPrice != nil {
		a.BuyPrice = float64(*req.BuyPrice)
	}
	if v := trimmed(req.Type); v != "" {
		a.Type = v
	}
	if v := trimmed(req.Category); v != "" {
		a.Category = v
	}
	if v := trimmed(req.Color); v != "" {
		a.Color = v
	}
	if req.CoinID != nil {
		a.CoinID = util.OptionalString(*req.CoinID)
	}
	if req.PositionX != nil {
		a.PositionX = req.PositionX
	}
	if req.PositionY != nil {
		a.PositionY = req.PositionY
	}
}

func GetAssets(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		assets, err := db.ListAssets(r.Context(), pool, userID, 0)
		if err != nil {
			internalError(w, "Failed to list assets for user %s: %v", userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, assets)
	}
}

func CreateAsset(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req assetRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create asset request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if trimmed(req.Name) == "" || req.Amount == nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}

		asset := &models.Asset{UserID: userID, Type: defaultAssetType, Color: defaultAssetColor}
		req.apply(asset)
		if trimmed(req.Category) == "" {
			asset.Category = asset.Type
		}

		created, err := db.CreateAsset(r.Context(), pool, asset)
		if err != nil {
			internalError(w, "Failed to create asset for user %s: %v", userID, err)
			return
		}

		log.Printf("INFO: Created asset %s (%s) for user %s", created.ID, created.Type, userID)
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

func UpdateAsset(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		assetID := chi.URLParam(r, "id")

		asset, err := db.GetAsset(r.Context(), pool, userID, assetID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get asset %s for user %s: %v", assetID, userID, err)
			return
		}

		var req assetRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update asset request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		req.apply(asset)

		updated, err := db.UpdateAsset(r.Context(), pool, asset)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to update asset %s for user %s: %v", assetID, userID, err)
			return
		}

		log.Printf("INFO: Updated asset %s for user %s", assetID, userID)
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteAsset(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		assetID := chi.URLParam(r, "id")

		if err := db.DeleteAsset(r.Context(), pool, userID, assetID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to delete asset %s for user %s: %v", assetID, userID, err)
			return
		}

		log.Printf("INFO: Deleted asset %s for user %s", assetID, userID)
		util.WriteSuccess(w)
	}
}

// GetPortfolioSummary values the user's assets at current coin prices. When the price
// lookup fails the assets are valued at their buy price.
func GetPortfolioSummary(pool db.Querier, client *prices.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		assets, err := db.ListAssets(r.Context(), pool, userID, 0)
		if err != nil {
			internalError(w, "Failed to list assets for user %s: %v", userID, err)
			return
		}

		var quotes map[string]float64
		if ids := reports.CoinIDs(assets); len(ids) > 0 {
			quotes, err = client.Prices(r.Context(), ids)
			if err != nil {
				log.Printf("ERROR: Failed to fetch coin prices for user %s: %v", userID, err)
			}
		}
		util.WriteJSON(w, http.StatusOK, reports.ValuePortfolio(assets, quotes))
	}
}
