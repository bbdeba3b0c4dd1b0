package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
)

type budgetRequest struct {
	Name     string    `json:"name"`
	Limit    flexFloat `json:"limit"`
	Category string    `json:"category"`
	Notes    string    `json:"notes"`
	Month    string    `json:"month"`
}

func (req budgetRequest) valid() bool {
	return strings.TrimSpace(req.Name) != "" && req.Limit > 0
}

// budgetWithUsage loads the spending for a single budget's month.
func budgetWithUsage(r *http.Request, pool db.Querier, b *models.Budget) (models.BudgetUsage, error) {
	start, end := util.MonthRange(b.Month)
	spent, err := db.SumExpensesByBudget(r.Context(), pool, b.UserID, start, end)
	if err != nil {
		return models.BudgetUsage{}, err
	}
	return reports.BudgetUsage(*b, spent[b.ID]), nil
}

func GetBudgets(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		month, err := util.ToMonthStart(r.URL.Query().Get("month"), time.Now())
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
			return
		}
		start, end := util.MonthRange(month)

		budgets, err := db.ListBudgetsForMonth(r.Context(), pool, userID, start)
		if err != nil {
			internalError(w, "Failed to list budgets for user %s: %v", userID, err)
			return
		}
		spent, err := db.SumExpensesByBudget(r.Context(), pool, userID, start, end)
		if err != nil {
			internalError(w, "Failed to sum budget expenses for user %s: %v", userID, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"month":   util.FormatMonth(start),
			"budgets": reports.BudgetUsages(budgets, spent),
		})
	}
}

func GetBudgetByID(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		budgetID := chi.URLParam(r, "id")

		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			if errors.Is(err, db.ErrBudgetNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget tidak ditemukan")
				return
			}
			internalError(w, "Failed to get budget %s for user %s: %v", budgetID, userID, err)
			return
		}
		usage, err := budgetWithUsage(r, pool, budget)
		if err != nil {
			internalError(w, "Failed to sum expenses of budget %s: %v", budgetID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, usage)
	}
}

func CreateBudget(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req budgetRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Nama dan limit budget wajib diisi")
			return
		}
		if !req.valid() {
			util.WriteError(w, http.StatusBadRequest, "Nama dan limit budget wajib diisi")
			return
		}
		month, err := util.ToMonthStart(req.Month, time.Now())
		if err != nil {
			log.Printf("ERROR: Invalid budget month %q for user %s", req.Month, userID)
			util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
			return
		}

		created, err := db.CreateBudget(r.Context(), pool, &models.Budget{
			UserID:   userID,
			Name:     strings.TrimSpace(req.Name),
			Category: util.OptionalString(req.Category),
			Limit:    float64(req.Limit),
			Month:    month,
			Notes:    util.OptionalString(req.Notes),
		})
		if err != nil {
			internalError(w, "Failed to create budget for user %s: %v", userID, err)
			return
		}

		log.Printf("INFO: Created budget %s for user %s, month %s", created.ID, userID, util.FormatMonth(created.Month))
		util.WriteJSON(w, http.StatusCreated, reports.BudgetUsage(*created, 0))
	}
}

func UpdateBudget(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		budgetID := chi.URLParam(r, "id")

		existing, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			if errors.Is(err, db.ErrBudgetNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget tidak ditemukan")
				return
			}
			internalError(w, "Failed to get budget %s for user %s: %v", budgetID, userID, err)
			return
		}

		var req budgetRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "Nama dan limit budget wajib diisi")
			return
		}
		if !req.valid() {
			util.WriteError(w, http.StatusBadRequest, "Nama dan limit budget wajib diisi")
			return
		}
		month := existing.Month
		if req.Month != "" {
			if month, err = util.ToMonthStart(req.Month, time.Now()); err != nil {
				util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
				return
			}
		}

		updated, err := db.UpdateBudget(r.Context(), pool, &models.Budget{
			ID:       budgetID,
			UserID:   userID,
			Name:     strings.TrimSpace(req.Name),
			Category: util.OptionalString(req.Category),
			Limit:    float64(req.Limit),
			Month:    month,
			Notes:    util.OptionalString(req.Notes),
		})
		if err != nil {
			if errors.Is(err, db.ErrBudgetNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget tidak ditemukan")
				return
			}
			internalError(w, "Failed to update budget %s for user %s: %v", budgetID, userID, err)
			return
		}

		usage, err := budgetWithUsage(r, pool, updated)
		if err != nil {
			internalError(w, "Failed to sum expenses of budget %s: %v", budgetID, err)
			return
		}
		log.Printf("INFO: Updated budget %s for user %s", budgetID, userID)
		util.WriteJSON(w, http.StatusOK, usage)
	}
}

func DeleteBudget(pool db.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		budgetID := chi.URLParam(r, "id")

		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			if errors.Is(err, db.ErrBudgetNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget tidak ditemukan")
				return
			}
			internalError(w, "Failed to delete budget %s for user %s: %v", budgetID, userID, err)
			return
		}

		log.Printf("INFO: Deleted budget %s for user %s", budgetID, userID)
		util.WriteSuccess(w)
	}
}
