package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
)

type incomeRequest struct {
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	AccountID string  `json:"accountId"`
}

// toIncome validates the request. A missing date means now.
func (req incomeRequest) toIncome(userID string) (*models.Income, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Amount <= 0 || req.AccountID == "" {
		return nil, errInvalidInput
	}
	date := time.Now().UTC()
	if req.Date != "" {
		d, err := util.ParseDate(req.Date)
		if err != nil {
			return nil, errInvalidInput
		}
		date = d
	}
	return &models.Income{
		UserID:    userID,
		Title:     title,
		Amount:    req.Amount,
		Date:      date,
		AccountID: req.AccountID,
	}, nil
}

func GetIncomes(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		incomes, err := sqldb.ListIncomes(r.Context(), pool, userID, 0)
		if err != nil {
			internalError(w, "Failed to list incomes for user %s: %v", userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, incomes)
	}
}

func CreateIncome(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create income request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		income, err := req.toIncome(userID)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := sqldb.CreateIncome(r.Context(), pool, income)
		if err != nil {
			if errors.Is(err, sqldb.ErrAccountNotFound) {
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
				return
			}
			internalError(w, "Failed to create income for user %s: %v", userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Created income %s (%.2f) for user %s", created.ID, created.Amount, userID)
		util.WriteJSON(w, http.StatusOK, created)
	}
}

func UpdateIncome(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		incomeID := chi.URLParam(r, "id")

		old, err := sqldb.GetIncome(r.Context(), pool, userID, incomeID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get income %s for user %s: %v", incomeID, userID, err)
			return
		}

		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update income request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if req.Date == "" {
			req.Date = old.Date.Format(time.RFC3339)
		}
		updated, err := req.toIncome(userID)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := sqldb.UpdateIncome(r.Context(), pool, old, updated)
		if err != nil {
			switch {
			case errors.Is(err, sqldb.ErrAccountNotFound):
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
			case errors.Is(err, sqldb.ErrNotFound):
				util.WriteError(w, http.StatusNotFound, "Not found")
			default:
				internalError(w, "Failed to update income %s for user %s: %v", incomeID, userID, err)
			}
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Updated income %s for user %s", incomeID, userID)
		util.WriteJSON(w, http.StatusOK, result)
	}
}

func DeleteIncome(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		incomeID := chi.URLParam(r, "id")

		income, err := sqldb.GetIncome(r.Context(), pool, userID, incomeID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get income %s for user %s: %v", incomeID, userID, err)
			return
		}

		if err := sqldb.DeleteIncome(r.Context(), pool, income); err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to delete income %s for user %s: %v", incomeID, userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Deleted income %s for user %s", incomeID, userID)
		util.WriteSuccess(w)
	}
}
