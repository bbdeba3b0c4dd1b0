package models

import "time"

type Expense struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	PhotoURL    *string    `json:"photoUrl"`
	Date        time.Time  `json:"date"`
	CreatedAt   time.Time  `json:"createdAt"`
	AccountID   string     `json:"accountId"`
	BudgetID    *string    `json:"budgetId"`
	Budget      *BudgetRef `json:"budget,omitempty"`
}

// ExpenseFilter narrows expense listings. Zero values are ignored.
type ExpenseFilter struct {
	Category string
	From     time.Time
	To       time.Time
	// Before is an exclusive upper bound, used for month ranges.
	Before time.Time
	Limit  int
}
