package db

import (
	"context"
	"time"
)

// MonthTotals sums the user's incomes and expenses dated in [start, end) and counts transfers.
func MonthTotals(ctx context.Context, q Querier, userID string, start, end time.Time) (income, expense float64, transfers int, err error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = $1 AND date >= $2 AND date < $3),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1 AND date >= $2 AND date < $3),
			(SELECT COUNT(*) FROM account_transfers WHERE user_id = $1 AND date >= $2 AND date < $3)
	`
	err = q.QueryRow(ctx, query, userID, start, end).Scan(&income, &expense, &transfers)
	return income, expense, transfers, err
}
