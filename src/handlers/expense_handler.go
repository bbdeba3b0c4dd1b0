package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
)

// formError messages are returned to the client verbatim.
type formError string

func (e formError) Error() string { return string(e) }

const (
	errAccountRequired formError = "Account required"
	errInvalidInput    formError = "Invalid input"
	errInvalidDate     formError = "Format tanggal tidak valid"
)

type expenseForm struct {
	Title       string
	Amount      float64
	Category    *string
	Description *string
	Date        time.Time
	AccountID   string
	// BudgetSet is true when the form carried a budgetId field at all.
	BudgetSet   bool
	BudgetID    *string
	RemovePhoto bool
	Photo       *multipart.FileHeader
}

func parseExpenseForm(r *http.Request) (*expenseForm, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, errInvalidInput
	}

	f := &expenseForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    util.OptionalString(r.FormValue("category")),
		Description: util.OptionalString(r.FormValue("description")),
		AccountID:   strings.TrimSpace(r.FormValue("accountId")),
		RemovePhoto: r.FormValue("removePhoto") == "true",
	}
	if f.AccountID == "" {
		return nil, errAccountRequired
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
	if err != nil || amount <= 0 || f.Title == "" {
		return nil, errInvalidInput
	}
	f.Amount = amount

	f.Date = time.Now().UTC()
	if raw := strings.TrimSpace(r.FormValue("date")); raw != "" {
		if f.Date, err = util.ParseDate(raw); err != nil {
			return nil, errInvalidInput
		}
	}

	if _, ok := r.Form["budgetId"]; ok {
		f.BudgetSet = true
		f.BudgetID = util.OptionalString(r.FormValue("budgetId"))
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["photo"]; len(files) > 0 && files[0].Size > 0 {
			f.Photo = files[0]
		}
	}
	return f, nil
}

// checkBudget verifies the budget belongs to the user and covers the expense date's month.
// It writes the error response and returns false on failure.
func checkBudget(w http.ResponseWriter, r *http.Request, pool sqldb.Querier, userID, budgetID string, date time.Time) bool {
	budget, err := sqldb.GetBudgetByID(r.Context(), pool, userID, budgetID)
	if err != nil {
		if errors.Is(err, sqldb.ErrBudgetNotFound) {
			util.WriteError(w, http.StatusNotFound, "Budget tidak ditemukan")
			return false
		}
		internalError(w, "Failed to load budget %s for user %s: %v", budgetID, userID, err)
		return false
	}
	if !util.SameMonth(date, budget.Month) {
		util.WriteError(w, http.StatusBadRequest, "Tanggal pengeluaran harus berada di bulan yang sama dengan budget")
		return false
	}
	return true
}

// expenseFilterFromQuery reads category, startDate and endDate.
func expenseFilterFromQuery(r *http.Request) (models.ExpenseFilter, error) {
	q := r.URL.Query()
	filter := models.ExpenseFilter{Category: strings.TrimSpace(q.Get("category"))}
	if v := q.Get("startDate"); v != "" {
		from, err := util.ParseDate(v)
		if err != nil {
			return filter, errInvalidDate
		}
		filter.From = from
	}
	if v := q.Get("endDate"); v != "" {
		to, err := util.EndOfDay(v)
		if err != nil {
			return filter, errInvalidDate
		}
		filter.To = to
	}
	return filter, nil
}

// applyMonth narrows the filter to a month. An explicit startDate still wins for the lower bound.
func applyMonth(filter *models.ExpenseFilter, month string) error {
	start, err := util.ToMonthStart(month, time.Now())
	if err != nil {
		return err
	}
	from, end := util.MonthRange(start)
	if filter.From.IsZero() {
		filter.From = from
	}
	filter.Before = end
	return nil
}

func GetExpenses(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		filter, err := expenseFilterFromQuery(r)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		expenses, err := sqldb.ListExpenses(r.Context(), pool, userID, filter)
		if err != nil {
			internalError(w, "Failed to list expenses for user %s: %v", userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, expenses)
	}
}

func GetExpense(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		expenseID := chi.URLParam(r, "id")

		expense, err := sqldb.GetExpense(r.Context(), pool, userID, expenseID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get expense %s for user %s: %v", expenseID, userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, expense)
	}
}

func CreateExpense(pool sqldb.Pool, photos *PhotoStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		form, err := parseExpenseForm(r)
		if err != nil {
			log.Printf("ERROR: Invalid expense form from user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if form.BudgetID != nil && !checkBudget(w, r, pool, userID, *form.BudgetID, form.Date) {
			return
		}

		expense := &models.Expense{
			UserID:      userID,
			Title:       form.Title,
			Amount:      form.Amount,
			Category:    form.Category,
			Description: form.Description,
			Date:        form.Date,
			AccountID:   form.AccountID,
			BudgetID:    form.BudgetID,
		}
		if form.Photo != nil {
			url, err := photos.Save(form.Photo)
			if err != nil {
				internalError(w, "Failed to save expense photo for user %s: %v", userID, err)
				return
			}
			expense.PhotoURL = &url
		}

		created, err := sqldb.CreateExpense(r.Context(), pool, expense)
		if err != nil {
			if expense.PhotoURL != nil {
				photos.Remove(*expense.PhotoURL)
			}
			if errors.Is(err, sqldb.ErrAccountNotFound) {
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
				return
			}
			internalError(w, "Failed to create expense for user %s: %v", userID, err)
			return
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Created expense %s (%.2f) for user %s", created.ID, created.Amount, userID)
		util.WriteJSON(w, http.StatusOK, created)
	}
}

func UpdateExpense(pool sqldb.Pool, photos *PhotoStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		expenseID := chi.URLParam(r, "id")

		old, err := sqldb.GetExpense(r.Context(), pool, userID, expenseID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get expense %s for user %s: %v", expenseID, userID, err)
			return
		}

		form, err := parseExpenseForm(r)
		if err != nil {
			log.Printf("ERROR: Invalid expense form from user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		budgetID := old.BudgetID
		if form.BudgetSet {
			budgetID = form.BudgetID
		}
		if budgetID != nil && !checkBudget(w, r, pool, userID, *budgetID, form.Date) {
			return
		}

		updated := &models.Expense{
			Title:       form.Title,
			Amount:      form.Amount,
			Category:    form.Category,
			Description: form.Description,
			Date:        form.Date,
			AccountID:   form.AccountID,
			BudgetID:    budgetID,
			PhotoURL:    old.PhotoURL,
		}
		var staleURL string
		if form.RemovePhoto && old.PhotoURL != nil {
			staleURL = *old.PhotoURL
			updated.PhotoURL = nil
		}
		if form.Photo != nil {
			url, err := photos.Save(form.Photo)
			if err != nil {
				internalError(w, "Failed to save expense photo for user %s: %v", userID, err)
				return
			}
			if old.PhotoURL != nil {
				staleURL = *old.PhotoURL
			}
			updated.PhotoURL = &url
		}

		result, err := sqldb.UpdateExpense(r.Context(), pool, old, updated)
		if err != nil {
			if form.Photo != nil {
				photos.Remove(*updated.PhotoURL)
			}
			switch {
			case errors.Is(err, sqldb.ErrAccountNotFound):
				util.WriteError(w, http.StatusNotFound, "Akun tidak ditemukan")
			case errors.Is(err, sqldb.ErrNotFound):
				util.WriteError(w, http.StatusNotFound, "Not found")
			default:
				internalError(w, "Failed to update expense %s for user %s: %v", expenseID, userID, err)
			}
			return
		}
		if staleURL != "" {
			photos.Remove(staleURL)
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Updated expense %s for user %s", expenseID, userID)
		util.WriteJSON(w, http.StatusOK, result)
	}
}

func DeleteExpense(pool sqldb.Pool, photos *PhotoStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		expenseID := chi.URLParam(r, "id")

		expense, err := sqldb.GetExpense(r.Context(), pool, userID, expenseID)
		if err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to get expense %s for user %s: %v", expenseID, userID, err)
			return
		}

		if err := sqldb.DeleteExpense(r.Context(), pool, expense); err != nil {
			if errors.Is(err, sqldb.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			internalError(w, "Failed to delete expense %s for user %s: %v", expenseID, userID, err)
			return
		}
		if expense.PhotoURL != nil {
			photos.Remove(*expense.PhotoURL)
		}

		db.DelAccountCache(userID)
		log.Printf("INFO: Deleted expense %s for user %s", expenseID, userID)
		util.WriteSuccess(w)
	}
}

func ExportExpenses(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		filter, err := expenseFilterFromQuery(r)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		month := r.URL.Query().Get("month")
		if err := applyMonth(&filter, month); err != nil {
			log.Printf("ERROR: Invalid month %q in expenses export for user %s", month, userID)
			util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
			return
		}

		expenses, err := sqldb.ListExpenses(r.Context(), pool, userID, filter)
		if err != nil {
			internalError(w, "Failed to list expenses for export, user %s: %v", userID, err)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses-%s.xlsx", util.FormatMonth(filter.Before.AddDate(0, -1, 0))))
		if err := reports.WriteExpensesXLSX(w, expenses); err != nil {
			log.Printf("ERROR: Failed to write expenses workbook for user %s: %v", userID, err)
		}
	}
}

func GetExpenseSummary(pool sqldb.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		filter, err := expenseFilterFromQuery(r)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if month := r.URL.Query().Get("month"); month != "" {
			if err := applyMonth(&filter, month); err != nil {
				util.WriteError(w, http.StatusBadRequest, "Format bulan tidak valid")
				return
			}
		}

		expenses, err := sqldb.ListExpenses(r.Context(), pool, userID, filter)
		if err != nil {
			internalError(w, "Failed to list expenses for summary, user %s: %v", userID, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, reports.SummarizeExpenses(expenses))
	}
}
