package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/shopspring/decimal"
)

func GetDashboard(pool db.Querier) http.HandlerFunc {
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

		accounts, err := db.ListAccounts(r.Context(), pool, userID)
		if err != nil {
			internalError(w, "Failed to list accounts for dashboard, user %s: %v", userID, err)
			return
		}
		income, expense, transfers, err := db.MonthTotals(r.Context(), pool, userID, start, end)
		if err != nil {
			internalError(w, "Failed to compute month totals for user %s: %v", userID, err)
			return
		}
		budgets, err := db.ListBudgetsForMonth(r.Context(), pool, userID, start)
		if err != nil {
			internalError(w, "Failed to list budgets for dashboard, user %s: %v", userID, err)
			return
		}
		spent, err := db.SumExpensesByBudget(r.Context(), pool, userID, start, end)
		if err != nil {
			internalError(w, "Failed to sum budget expenses for user %s: %v", userID, err)
			return
		}

		total := decimal.Zero
		for _, a := range accounts {
			total = total.Add(decimal.NewFromFloat(a.Balance))
		}
		in, out := decimal.NewFromFloat(income), decimal.NewFromFloat(expense)

		util.WriteJSON(w, http.StatusOK, models.Dashboard{
			Month:         util.FormatMonth(start),
			TotalBalance:  total.InexactFloat64(),
			Income:        income,
			Expense:       expense,
			Net:           in.Sub(out).InexactFloat64(),
			TransferCount: transfers,
			Budgets:       reports.SumBudgets(reports.BudgetUsages(budgets, spent)),
			Accounts:      accounts,
		})
	}
}

func GetStatementPDF(pool db.Querier) http.HandlerFunc {
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

		expenses, err := db.ListExpenses(r.Context(), pool, userID, models.ExpenseFilter{From: start, Before: end})
		if err != nil {
			internalError(w, "Failed to list expenses for statement, user %s: %v", userID, err)
			return
		}
		incomes, err := db.ListIncomesBetween(r.Context(), pool, userID, start, end)
		if err != nil {
			internalError(w, "Failed to list incomes for statement, user %s: %v", userID, err)
			return
		}

		statement := reports.Statement{Month: start, Incomes: incomes, Expenses: expenses}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%s.pdf", util.FormatMonth(start)))
		if err := statement.WritePDF(w); err != nil {
			log.Printf("ERROR: Failed to render statement for user %s: %v", userID, err)
		}
	}
}
