package models

type ExpenseSummary struct {
	Total          float64            `json:"total"`
	Count          int                `json:"count"`
	Average        float64            `json:"average"`
	TopCategory    string             `json:"topCategory"`
	CategoryTotals map[string]float64 `json:"categoryTotals"`
}

type BudgetTotals struct {
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type Dashboard struct {
	Month         string       `json:"month"`
	TotalBalance  float64      `json:"totalBalance"`
	Income        float64      `json:"income"`
	Expense       float64      `json:"expense"`
	Net           float64      `json:"net"`
	TransferCount int          `json:"transferCount"`
	Budgets       BudgetTotals `json:"budgets"`
	Accounts      []Account    `json:"accounts"`
}
