package db

import (
	"context"
	"time"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, name, category, "limit", month, notes, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Limit, &b.Month, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Month = b.Month.UTC()
	return &b, nil
}

func CreateBudget(ctx context.Context, q Querier, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, name, category, "limit", month, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + budgetColumns
	return scanBudget(q.QueryRow(ctx, query, uuid.NewString(), budget.UserID, budget.Name,
		budget.Category, budget.Limit, budget.Month, budget.Notes))
}

func GetBudgetByID(ctx context.Context, q Querier, userID, budgetID string) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	b, err := scanBudget(q.QueryRow(ctx, query, budgetID, userID))
	if err != nil {
		return nil, notFound(err, ErrBudgetNotFound)
	}
	return b, nil
}

func ListBudgetsForMonth(ctx context.Context, q Querier, userID string, month time.Time) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE user_id = $1 AND month = $2
		ORDER BY created_at ASC
	`
	return queryBudgets(ctx, q, query, userID, month)
}

// ListRecentBudgets returns the latest budgets by month, newest first.
func ListRecentBudgets(ctx context.Context, q Querier, userID string, limit int) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE user_id = $1
		ORDER BY month DESC
		LIMIT $2
	`
	return queryBudgets(ctx, q, query, userID, limit)
}

func queryBudgets(ctx context.Context, q Querier, query string, args ...any) ([]models.Budget, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func UpdateBudget(ctx context.Context, q Querier, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET name = $1, category = $2, "limit" = $3, month = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + budgetColumns
	b, err := scanBudget(q.QueryRow(ctx, query, budget.Name, budget.Category, budget.Limit,
		budget.Month, budget.Notes, budget.ID, budget.UserID))
	if err != nil {
		return nil, notFound(err, ErrBudgetNotFound)
	}
	return b, nil
}

// DeleteBudget unlinks the budget's expenses and deletes it in one transaction.
func DeleteBudget(ctx context.Context, pool Pool, userID, budgetID string) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE expenses SET budget_id = NULL WHERE budget_id = $1 AND user_id = $2`,
			budgetID, userID); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrBudgetNotFound
		}
		return nil
	})
}

// SumExpensesByBudget totals the user's budget-linked expenses dated in [start, end).
func SumExpensesByBudget(ctx context.Context, q Querier, userID string, start, end time.Time) (map[string]float64, error) {
	query := `
		SELECT budget_id, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND budget_id IS NOT NULL AND date >= $2 AND date < $3
		GROUP BY budget_id
	`
	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spent := make(map[string]float64)
	for rows.Next() {
		var budgetID string
		var total float64
		if err := rows.Scan(&budgetID, &total); err != nil {
			return nil, err
		}
		spent[budgetID] = total
	}
	return spent, rows.Err()
}
