package db

import (
	"context"
	"fmt"
	"strings"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const expenseColumns = `e.id, e.user_id, e.title, e.amount, e.category, e.description, e.photo_url, e.date, e.created_at, e.account_id, e.budget_id, b.name`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var e models.Expense
	var budgetName *string
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Description, &e.PhotoURL,
		&e.Date, &e.CreatedAt, &e.AccountID, &e.BudgetID, &budgetName)
	if err != nil {
		return nil, err
	}
	if e.BudgetID != nil && budgetName != nil {
		e.Budget = &models.BudgetRef{ID: *e.BudgetID, Name: *budgetName}
	}
	return &e, nil
}

func ListExpenses(ctx context.Context, q Querier, userID string, filter models.ExpenseFilter) ([]models.Expense, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN budgets b ON b.id = e.budget_id
		WHERE e.user_id = $1`)
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND e.category = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, " AND e.date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&sb, " AND e.date <= $%d", len(args))
	}
	if !filter.Before.IsZero() {
		args = append(args, filter.Before)
		fmt.Fprintf(&sb, " AND e.date < $%d", len(args))
	}
	sb.WriteString(" ORDER BY e.date DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func GetExpense(ctx context.Context, q Querier, userID, expenseID string) (*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN budgets b ON b.id = e.budget_id
		WHERE e.id = $1 AND e.user_id = $2
	`
	e, err := scanExpense(q.QueryRow(ctx, query, expenseID, userID))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return e, nil
}

func insertExpense(ctx context.Context, tx pgx.Tx, e *models.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, account_id, budget_id, title, amount, category, description, photo_url, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	return tx.QueryRow(ctx, query, e.ID, e.UserID, e.AccountID, e.BudgetID, e.Title, e.Amount,
		e.Category, e.Description, e.PhotoURL, e.Date).Scan(&e.CreatedAt)
}

// CreateExpense records the expense and debits its account atomically.
func CreateExpense(ctx context.Context, pool Pool, e *models.Expense) (*models.Expense, error) {
	created := *e
	created.ID = uuid.NewString()
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		if err := insertExpense(ctx, tx, &created); err != nil {
			return err
		}
		return AdjustBalance(ctx, tx, created.UserID, created.AccountID, -created.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// lockExpense locks the stored row and returns the account and amount it currently applies.
func lockExpense(ctx context.Context, tx pgx.Tx, userID, expenseID string) (string, float64, error) {
	var accountID string
	var amount float64
	err := tx.QueryRow(ctx,
		`SELECT account_id, amount FROM expenses WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		expenseID, userID).Scan(&accountID, &amount)
	if err != nil {
		return "", 0, notFound(err, ErrNotFound)
	}
	return accountID, amount, nil
}

// UpdateExpense credits the stored amount back to the stored account, rewrites the row and
// debits the new amount from the new account, all in one transaction.
func UpdateExpense(ctx context.Context, pool Pool, old, updated *models.Expense) (*models.Expense, error) {
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		accountID, amount, err := lockExpense(ctx, tx, old.UserID, old.ID)
		if err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, old.UserID, accountID, amount); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `
			UPDATE expenses
			SET title = $1, amount = $2, category = $3, description = $4, photo_url = $5,
			    date = $6, account_id = $7, budget_id = $8
			WHERE id = $9 AND user_id = $10
		`, updated.Title, updated.Amount, updated.Category, updated.Description, updated.PhotoURL,
			updated.Date, updated.AccountID, updated.BudgetID, old.ID, old.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return AdjustBalance(ctx, tx, old.UserID, updated.AccountID, -updated.Amount)
	})
	if err != nil {
		return nil, err
	}
	result := *updated
	result.ID = old.ID
	result.UserID = old.UserID
	result.CreatedAt = old.CreatedAt
	result.Budget = nil
	return &result, nil
}

// DeleteExpense credits the amount back to the account and removes the row.
func DeleteExpense(ctx context.Context, pool Pool, e *models.Expense) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		accountID, amount, err := lockExpense(ctx, tx, e.UserID, e.ID)
		if err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, e.UserID, accountID, amount); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, e.ID, e.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
