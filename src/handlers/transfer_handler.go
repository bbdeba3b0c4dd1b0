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

func GetTransfers(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		month := r.URL.Query().Get("month")
		start, err := util.ToMonthStart(month, time.Now())
		if err != nil {
			log.Printf("ERROR: Invalid month %q in transfers request for user %s", month, userID)
			util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
			return
		}
		from, end := util.MonthRange(start)

		transfers, err := sqldb.ListTransfers(r.Context(), pool, userID, from, end, 0)
		if err != nil {
			internalError(w, "Failed to list transfers for user %s: %v", userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, transfers)
	}
}

func CreateTransfer(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req struct {
			FromAccountID string  `json:"fromAccountId"`
			ToAccountID   string  `json:"toAccountId"`
			Amount        float64 `json:"amount"`
			Note          string  `json:"note"`
			Date          string  `json:"date"`
		}
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode transfer request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Data tidak lengkap")
			return
		}
		req.FromAccountID = strings.TrimSpace(req.FromAccountID)
		req.ToAccountID = strings.TrimSpace(req.ToAccountID)

		if req.FromAccountID == "" || req.ToAccountID == "" || req.Amount <= 0 {
			util.WriteError(w, http.StatusBadRequest, "Data tidak lengkap")
			return
		}
		if req.FromAccountID == req.ToAccountID {
			util.WriteError(w, http.StatusBadRequest, "Akun tidak boleh sama")
			return
		}
		date := time.Now().UTC()
		if req.Date != "" {
			d, err := util.ParseDate(req.Date)
			if err != nil {
				util.WriteError(w, http.StatusBadRequest, "Format tanggal tidak valid")
				return
			}
			date = d
		}

		created, err := sqldb.CreateTransfer(r.Context(), pool, &models.Transfer{
			UserID:        userID,
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
			Amount:        req.Amount,
			Note:          util.OptionalString(req.Note),
			Date:          date,
		})
		if err != nil {
			switch {
			case errors.Is(err, sqldb.ErrAccountNotFound):
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
			case errors.Is(err, sqldb.ErrInsufficientBalance):
				util.WriteError(w, http.StatusBadRequest, "Saldo akun asal tidak mencukupi")
			default:
				internalError(w, "Failed to create transfer for user %s: %v", userID, err)
			}
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Transferred %.2f from %s to %s for user %s", created.Amount, created.FromAccountID, created.ToAccountID, userID)
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

func DeleteTransfer(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		transferID := chi.URLParam(r, "id")

		transfer, err := sqldb.GetTransfer(r.Context(), pool, userID, transferID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get transfer %s for user %s: %v", transferID, userID, err)
			return
		}

		if err := sqldb.DeleteTransfer(r.Context(), pool, transfer); err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to delete transfer %s for user %s: %v", transferID, userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Reversed transfer %s for user %s", transferID, userID)
		util.WriteSuccess(w)
	}
}
