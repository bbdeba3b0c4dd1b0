package models

import "time"

const (
	AccountTypeCash    = "cash"
	AccountTypeBank    = "bank"
	AccountTypeEWallet = "ewallet"
)

type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountRef is the slim account shape embedded in incomes and transfers.
type AccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeEWallet:
		return true
	}
	return false
}
