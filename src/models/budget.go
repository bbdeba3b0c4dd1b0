package models

import "time"

type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Limit     float64   `json:"limit"`
	Month     time.Time `json:"month"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BudgetUsage is a budget with its spending for the budget month.
type BudgetUsage struct {
	Budget
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	MonthKey  string  `json:"monthKey"`
}

type BudgetRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
