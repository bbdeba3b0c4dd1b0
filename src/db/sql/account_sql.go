package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const accountColumns = `id, user_id, name, type, balance, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func ListAccounts(ctx context.Context, q Querier, userID string) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM account_balances WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func GetAccount(ctx context.Context, q Querier, userID, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account_balances WHERE id = $1 AND user_id = $2`
	a, err := scanAccount(q.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

// lockAccount reads an account row and holds its lock until the transaction ends.
func lockAccount(ctx context.Context, tx pgx.Tx, userID, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account_balances WHERE id = $1 AND user_id = $2 FOR UPDATE`
	a, err := scanAccount(tx.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

// cashAccountExists reports whether the user owns a cash account other than excludeID.
func cashAccountExists(ctx context.Context, q Querier, userID, excludeID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM account_balances WHERE user_id = $1 AND type = 'cash' AND id <> $2)`,
		userID, excludeID).Scan(&exists)
	return exists, err
}

// EnsureCashAccount creates the default Cash account when the user has none.
func EnsureCashAccount(ctx context.Context, q Querier, userID string) error {
	query := `
		INSERT INTO account_balances (id, user_id, name, type, balance)
		SELECT $1, $2, 'Cash', 'cash', 0
		WHERE NOT EXISTS (SELECT 1 FROM account_balances WHERE user_id = $2 AND type = 'cash')
		ON CONFLICT DO NOTHING
	`
	if _, err := q.Exec(ctx, query, uuid.NewString(), userID); err != nil {
		return fmt.Errorf("failed to ensure cash account: %w", err)
	}
	return nil
}

func CreateAccount(ctx context.Context, q Querier, account *models.Account) (*models.Account, error) {
	if account.Type == models.AccountTypeCash {
		exists, err := cashAccountExists(ctx, q, account.UserID, "")
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCashAccountExists
		}
	}
	query := `
		INSERT INTO account_balances (id, user_id, name, type, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns
	a, err := scanAccount(q.QueryRow(ctx, query, uuid.NewString(), account.UserID, account.Name, account.Type, account.Balance))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCashAccountExists
		}
		return nil, err
	}
	return a, nil
}

func UpdateAccount(ctx context.Context, q Querier, account *models.Account) (*models.Account, error) {
	if account.Type == models.AccountTypeCash {
		exists, err := cashAccountExists(ctx, q, account.UserID, account.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCashAccountExists
		}
	}
	query := `
		UPDATE account_balances
		SET name = $1, type = $2, balance = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + accountColumns
	a, err := scanAccount(q.QueryRow(ctx, query, account.Name, account.Type, account.Balance, account.ID, account.UserID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCashAccountExists
		}
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

// DeleteAccount removes an account that no expense, income or transfer references.
func DeleteAccount(ctx context.Context, pool Pool, userID, accountID string) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := lockAccount(ctx, tx, userID, accountID); err != nil {
			return err
		}
		checks := []struct {
			query string
			err   error
		}{
			{`SELECT EXISTS (SELECT 1 FROM expenses WHERE account_id = $1)`, ErrAccountUsedByExpense},
			{`SELECT EXISTS (SELECT 1 FROM incomes WHERE account_id = $1)`, ErrAccountUsedByIncome},
			{`SELECT EXISTS (SELECT 1 FROM account_transfers WHERE from_account_id = $1 OR to_account_id = $1)`, ErrAccountUsedByTransfer},
		}
		for _, check := range checks {
			var used bool
			if err := tx.QueryRow(ctx, check.query, accountID).Scan(&used); err != nil {
				return err
			}
			if used {
				return check.err
			}
		}
		_, err := tx.Exec(ctx, `DELETE FROM account_balances WHERE id = $1 AND user_id = $2`, accountID, userID)
		return err
	})
}

// AdjustBalance adds delta to the account balance. Negative deltas debit.
func AdjustBalance(ctx context.Context, q Querier, userID, accountID string, delta float64) error {
	cmd, err := q.Exec(ctx,
		`UPDATE account_balances SET balance = balance + $1 WHERE id = $2 AND user_id = $3`,
		delta, accountID, userID)
	if err != nil {
		return fmt.Errorf("adjust balance of %s: %w", accountID, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
