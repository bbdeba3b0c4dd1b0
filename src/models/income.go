package models

import "time"

type Income struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Title     string      `json:"title"`
	Amount    float64     `json:"amount"`
	Date      time.Time   `json:"date"`
	CreatedAt time.Time   `json:"createdAt"`
	AccountID string      `json:"accountId"`
	Account   *AccountRef `json:"account,omitempty"`
}
