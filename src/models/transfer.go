package models

import "time"

type Transfer struct {
	ID            string      `json:"id"`
	UserID        string      `json:"-"`
	FromAccountID string      `json:"fromAccountId"`
	ToAccountID   string      `json:"toAccountId"`
	Amount        float64     `json:"amount"`
	Note          *string     `json:"note"`
	Date          time.Time   `json:"date"`
	FromAccount   *AccountRef `json:"fromAccount,omitempty"`
	ToAccount     *AccountRef `json:"toAccount,omitempty"`
}
