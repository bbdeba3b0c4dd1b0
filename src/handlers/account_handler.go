package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
)

type accountRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Balance *float64 `json:"balance"`
}

func (req *accountRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
}

func (req accountRequest) balance() float64 {
	if req.Balance == nil {
		return 0
	}
	return *req.Balance
}

var accountInUseMessages = map[error]string{
	sqldb.ErrAccountUsedByExpense:  "Akun ini masih dipakai pada transaksi pengeluaran. Tidak bisa dihapus.",
	sqldb.ErrAccountUsedByIncome:   "Akun ini masih dipakai pada transaksi pemasukan. Tidak bisa dihapus.",
	sqldb.ErrAccountUsedByTransfer: "Akun ini masih dipakai pada transaksi transfer. Tidak bisa dihapus.",
}

const cashExistsMessage = "Akun cash sudah ada. Tidak boleh lebih dari 1."

func GetAccounts(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		version := db.AccountCacheVersion(userID)
		if cached, found := db.GetAccountCache(userID, version); found {
			if accounts, ok := cached.([]models.Account); ok {
				util.WriteJSON(w, http.StatusOK, accounts)
				return
			}
		}

		if err := sqldb.EnsureCashAccount(r.Context(), pool, userID); err != nil {
			internalError(w, "Failed to ensure cash account for user %s: %v", userID, err)
			return
		}
		accounts, err := sqldb.ListAccounts(r.Context(), pool, userID)
		if err != nil {
			internalError(w, "Failed to list accounts for user %s: %v", userID, err)
			return
		}

		db.SetAccountCache(userID, version, accounts)
		util.WriteJSON(w, http.StatusOK, accounts)
	}
}

func CreateAccount(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req accountRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		req.normalize()
		if req.Name == "" || req.Type == "" {
			util.WriteError(w, http.StatusBadRequest, "Nama dan tipe wajib diisi")
			return
		}
		if !models.ValidAccountType(req.Type) {
			util.WriteError(w, http.StatusBadRequest, "Tipe akun tidak valid")
			return
		}

		created, err := sqldb.CreateAccount(r.Context(), pool, &models.Account{
			UserID:  userID,
			Name:    req.Name,
			Type:    req.Type,
			Balance: req.balance(),
		})
		if err != nil {
			if errors.Is(err, sqldb.ErrCashAccountExists) {
				util.WriteError(w, http.StatusBadRequest, cashExistsMessage)
				return
			}
			internalError(w, "Failed to create account for user %s: %v", userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Created account %s (%s) for user %s", created.ID, created.Type, userID)
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

func UpdateAccount(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		accountID := chi.URLParam(r, "id")

		var req accountRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		req.normalize()
		if req.Name == "" || req.Type == "" {
			util.WriteError(w, http.StatusBadRequest, "Nama dan jenis wajib diisi")
			return
		}
		if !models.ValidAccountType(req.Type) {
			util.WriteError(w, http.StatusBadRequest, "Tipe akun tidak valid")
			return
		}

		updated, err := sqldb.UpdateAccount(r.Context(), pool, &models.Account{
			ID:      accountID,
			UserID:  userID,
			Name:    req.Name,
			Type:    req.Type,
			Balance: req.balance(),
		})
		if err != nil {
			switch {
			case errors.Is(err, sqldb.ErrCashAccountExists):
				util.WriteError(w, http.StatusBadRequest, cashExistsMessage)
			case errors.Is(err, sqldb.ErrAccountNotFound):
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
			default:
				internalError(w, "Failed to update account %s for user %s: %v", accountID, userID, err)
			}
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Updated account %s for user %s", accountID, userID)
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteAccount(pool sqldb.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		accountID := chi.URLParam(r, "id")

		err := sqldb.DeleteAccount(r.Context(), pool, userID, accountID)
		if err != nil {
			for sentinel, msg := range accountInUseMessages {
				if errors.Is(err, sentinel) {
					util.WriteError(w, http.StatusBadRequest, msg)
					return
				}
			}
			if errors.Is(err, sqldb.ErrAccountNotFound) {
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
				return
			}
			internalError(w, "Failed to delete account %s for user %s: %v", accountID, userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Deleted account %s for user %s", accountID, userID)
		util.WriteSuccess(w)
	}
}
