package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/shopspring/decimal"
)

const (
	assetLimit    = 20
	expenseLimit  = 20
	incomeLimit   = 10
	budgetLimit   = 6
	transferLimit = 10
)

type Summary struct {
	TotalBalance       string `json:"totalBalance"`
	ExpenseRecentTotal string `json:"expenseRecentTotal"`
	IncomeRecentTotal  string `json:"incomeRecentTotal"`
	NetRecent          string `json:"netRecent"`
}

type assetContext struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	CoinID   *string `json:"coinId"`
	Amount   float64 `json:"amount"`
	BuyPrice float64 `json:"buyPrice"`
	Category string  `json:"category"`
}

type balanceContext struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type expenseContext struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Category  *string `json:"category"`
	Date      string  `json:"date"`
	AccountID string  `json:"accountId"`
	BudgetID  *string `json:"budgetId"`
}

type incomeContext struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	AccountID string  `json:"accountId"`
}

type budgetContext struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category"`
	Limit    float64 `json:"limit"`
	Month    string  `json:"month"`
	Notes    *string `json:"notes"`
}

type transferContext struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Note          *string `json:"note"`
	Date          string  `json:"date"`
	FromAccountID string  `json:"fromAccountId"`
	ToAccountID   string  `json:"toAccountId"`
}

// UserContext is the financial snapshot handed to the model.
type UserContext struct {
	Summary   Summary           `json:"summary"`
	Assets    []assetContext    `json:"assets"`
	Balances  []balanceContext  `json:"balances"`
	Expenses  []expenseContext  `json:"expenses"`
	Incomes   []incomeContext   `json:"incomes"`
	Budgets   []budgetContext   `json:"budgets"`
	Transfers []transferContext `json:"transfers"`
}

func round(v float64, decimals int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(decimals).InexactFloat64()
}

// BuildContext gathers the user's latest records and summary totals.
func BuildContext(ctx context.Context, q db.Querier, userID string) (*UserContext, error) {
	assets, err := db.ListAssets(ctx, q, userID, assetLimit)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	accounts, err := db.ListAccounts(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}
	expenses, err := db.ListExpenses(ctx, q, userID, models.ExpenseFilter{Limit: expenseLimit})
	if err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	incomes, err := db.ListIncomes(ctx, q, userID, incomeLimit)
	if err != nil {
		return nil, fmt.Errorf("incomes: %w", err)
	}
	budgets, err := db.ListRecentBudgets(ctx, q, userID, budgetLimit)
	if err != nil {
		return nil, fmt.Errorf("budgets: %w", err)
	}
	transfers, err := db.ListTransfers(ctx, q, userID, time.Time{}, time.Time{}, transferLimit)
	if err != nil {
		return nil, fmt.Errorf("transfers: %w", err)
	}
	return assemble(assets, accounts, expenses, incomes, budgets, transfers), nil
}

func assemble(assets []models.Asset, accounts []models.Account, expenses []models.Expense,
	incomes []models.Income, budgets []models.Budget, transfers []models.Transfer) *UserContext {
	uc := &UserContext{
		Assets:    make([]assetContext, 0, len(assets)),
		Balances:  make([]balanceContext, 0, len(accounts)),
		Expenses:  make([]expenseContext, 0, len(expenses)),
		Incomes:   make([]incomeContext, 0, len(incomes)),
		Budgets:   make([]budgetContext, 0, len(budgets)),
		Transfers: make([]transferContext, 0, len(transfers)),
	}

	totalBalance, expenseTotal, incomeTotal := decimal.Zero, decimal.Zero, decimal.Zero
	for _, a := range assets {
		uc.Assets = append(uc.Assets, assetContext{
			ID: a.ID, Name: a.Name, Type: a.Type, CoinID: a.CoinID,
			Amount: round(a.Amount, 4), BuyPrice: round(a.BuyPrice, 2), Category: a.Category,
		})
	}
	for _, a := range accounts {
		totalBalance = totalBalance.Add(decimal.NewFromFloat(a.Balance))
		uc.Balances = append(uc.Balances, balanceContext{ID: a.ID, Name: a.Name, Type: a.Type, Balance: a.Balance})
	}
	for _, e := range expenses {
		expenseTotal = expenseTotal.Add(decimal.NewFromFloat(e.Amount))
		uc.Expenses = append(uc.Expenses, expenseContext{
			ID: e.ID, Title: e.Title, Amount: e.Amount, Category: e.Category,
			Date: e.Date.UTC().Format("2006-01-02"), AccountID: e.AccountID, BudgetID: e.BudgetID,
		})
	}
	for _, i := range incomes {
		incomeTotal = incomeTotal.Add(decimal.NewFromFloat(i.Amount))
		uc.Incomes = append(uc.Incomes, incomeContext{
			ID: i.ID, Title: i.Title, Amount: i.Amount,
			Date: i.Date.UTC().Format("2006-01-02"), AccountID: i.AccountID,
		})
	}
	for _, b := range budgets {
		uc.Budgets = append(uc.Budgets, budgetContext{
			ID: b.ID, Name: b.Name, Category: b.Category, Limit: b.Limit,
			Month: util.FormatMonth(b.Month), Notes: b.Notes,
		})
	}
	for _, t := range transfers {
		uc.Transfers = append(uc.Transfers, transferContext{
			ID: t.ID, Amount: t.Amount, Note: t.Note, Date: t.Date.UTC().Format("2006-01-02T15:04:05.000Z"),
			FromAccountID: t.FromAccountID, ToAccountID: t.ToAccountID,
		})
	}

	uc.Summary = Summary{
		TotalBalance:       util.FormatIDR(totalBalance),
		ExpenseRecentTotal: util.FormatIDR(expenseTotal),
		IncomeRecentTotal:  util.FormatIDR(incomeTotal),
		NetRecent:          util.FormatIDR(incomeTotal.Sub(expenseTotal)),
	}
	return uc
}

// SystemPrompt embeds the context as indented JSON.
func SystemPrompt(uc *UserContext) (string, error) {
	data, err := json.MarshalIndent(uc, "", "  ")
	if err != nil {
		return "", err
	}
	return "Anda adalah asisten keuangan. Gunakan data JSON berikut untuk menjawab ringkas dan actionable. " +
		"Jika data kurang, minta klarifikasi. Jangan berikan saran investasi spesifik jika data tidak cukup.\n" +
		"CONTEXT:\n" + string(data), nil
}
