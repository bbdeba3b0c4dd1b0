package db

import (
	"context"
	"time"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const incomeColumns = `i.id, i.user_id, i.title, i.amount, i.date, i.created_at, i.account_id, a.name, a.type`

func scanIncome(row interface{ Scan(...any) error }) (*models.Income, error) {
	var i models.Income
	var accountName, accountType *string
	err := row.Scan(&i.ID, &i.UserID, &i.Title, &i.Amount, &i.Date, &i.CreatedAt, &i.AccountID, &accountName, &accountType)
	if err != nil {
		return nil, err
	}
	if accountName != nil {
		i.Account = &models.AccountRef{ID: i.AccountID, Name: *accountName}
		if accountType != nil {
			i.Account.Type = *accountType
		}
	}
	return &i, nil
}

// ListIncomes returns the user's incomes newest first. A positive limit caps the result.
func ListIncomes(ctx context.Context, q Querier, userID string, limit int) ([]models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes i
		LEFT JOIN account_balances a ON a.id = i.account_id
		WHERE i.user_id = $1
		ORDER BY i.date DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	return queryIncomes(ctx, q, query, args...)
}

// ListIncomesBetween returns incomes dated in [start, end), newest first.
func ListIncomesBetween(ctx context.Context, q Querier, userID string, start, end time.Time) ([]models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes i
		LEFT JOIN account_balances a ON a.id = i.account_id
		WHERE i.user_id = $1 AND i.date >= $2 AND i.date < $3
		ORDER BY i.date DESC
	`
	return queryIncomes(ctx, q, query, userID, start, end)
}

func queryIncomes(ctx context.Context, q Querier, query string, args ...any) ([]models.Income, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, *i)
	}
	return incomes, rows.Err()
}

func GetIncome(ctx context.Context, q Querier, userID, incomeID string) (*models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes i
		LEFT JOIN account_balances a ON a.id = i.account_id
		WHERE i.id = $1 AND i.user_id = $2
	`
	i, err := scanIncome(q.QueryRow(ctx, query, incomeID, userID))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return i, nil
}

// CreateIncome records the income and credits its account atomically.
func CreateIncome(ctx context.Context, pool Pool, in *models.Income) (*models.Income, error) {
	created := *in
	created.ID = uuid.NewString()
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO incomes (id, user_id, account_id, title, amount, date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, created.ID, created.UserID, created.AccountID, created.Title, created.Amount, created.Date).Scan(&created.CreatedAt)
		if err != nil {
			return err
		}
		return AdjustBalance(ctx, tx, created.UserID, created.AccountID, created.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func lockIncome(ctx context.Context, tx pgx.Tx, userID, incomeID string) (string, float64, error) {
	var accountID string
	var amount float64
	err := tx.QueryRow(ctx,
		`SELECT account_id, amount FROM incomes WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		incomeID, userID).Scan(&accountID, &amount)
	if err != nil {
		return "", 0, notFound(err, ErrNotFound)
	}
	return accountID, amount, nil
}

// UpdateIncome debits the stored amount from the stored account, rewrites the row and credits
// the new amount to the new account.
func UpdateIncome(ctx context.Context, pool Pool, old, updated *models.Income) (*models.Income, error) {
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		accountID, amount, err := lockIncome(ctx, tx, old.UserID, old.ID)
		if err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, old.UserID, accountID, -amount); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `
			UPDATE incomes SET title = $1, amount = $2, date = $3, account_id = $4
			WHERE id = $5 AND user_id = $6
		`, updated.Title, updated.Amount, updated.Date, updated.AccountID, old.ID, old.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return AdjustBalance(ctx, tx, old.UserID, updated.AccountID, updated.Amount)
	})
	if err != nil {
		return nil, err
	}
	result := *updated
	result.ID = old.ID
	result.UserID = old.UserID
	result.CreatedAt = old.CreatedAt
	result.Account = nil
	return &result, nil
}

func DeleteIncome(ctx context.Context, pool Pool, in *models.Income) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		accountID, amount, err := lockIncome(ctx, tx, in.UserID, in.ID)
		if err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, in.UserID, accountID, -amount); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM incomes WHERE id = $1 AND user_id = $2`, in.ID, in.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
