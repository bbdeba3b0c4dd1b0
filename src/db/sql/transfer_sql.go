package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transferColumns = `t.id, t.user_id, t.from_account_id, t.to_account_id, t.amount, t.note, t.date,
	fa.name, fa.type, ta.name, ta.type`

func scanTransfer(row interface{ Scan(...any) error }) (*models.Transfer, error) {
	var t models.Transfer
	var fromName, fromType, toName, toType *string
	err := row.Scan(&t.ID, &t.UserID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Note, &t.Date,
		&fromName, &fromType, &toName, &toType)
	if err != nil {
		return nil, err
	}
	if fromName != nil {
		t.FromAccount = &models.AccountRef{ID: t.FromAccountID, Name: *fromName}
		if fromType != nil {
			t.FromAccount.Type = *fromType
		}
	}
	if toName != nil {
		t.ToAccount = &models.AccountRef{ID: t.ToAccountID, Name: *toName}
		if toType != nil {
			t.ToAccount.Type = *toType
		}
	}
	return &t, nil
}

// ListTransfers returns transfers dated in [start, end) newest first. Zero bounds are open.
func ListTransfers(ctx context.Context, q Querier, userID string, start, end time.Time, limit int) ([]models.Transfer, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + transferColumns + `
		FROM account_transfers t
		LEFT JOIN account_balances fa ON fa.id = t.from_account_id
		LEFT JOIN account_balances ta ON ta.id = t.to_account_id
		WHERE t.user_id = $1`)
	args := []any{userID}
	if !start.IsZero() {
		args = append(args, start)
		fmt.Fprintf(&sb, " AND t.date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		fmt.Fprintf(&sb, " AND t.date < $%d", len(args))
	}
	sb.WriteString(" ORDER BY t.date DESC")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := []models.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}

func GetTransfer(ctx context.Context, q Querier, userID, transferID string) (*models.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM account_transfers t
		LEFT JOIN account_balances fa ON fa.id = t.from_account_id
		LEFT JOIN account_balances ta ON ta.id = t.to_account_id
		WHERE t.id = $1 AND t.user_id = $2
	`
	t, err := scanTransfer(q.QueryRow(ctx, query, transferID, userID))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return t, nil
}

// lockPair locks both accounts in id order and returns them as (a, b).
func lockPair(ctx context.Context, tx pgx.Tx, userID, a, b string) (*models.Account, *models.Account, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*models.Account, 2)
	for _, id := range []string{first, second} {
		acc, err := lockAccount(ctx, tx, userID, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = acc
	}
	return locked[a], locked[b], nil
}

// CreateTransfer debits the source and credits the destination in one transaction.
// Both rows are locked before the source balance is checked.
func CreateTransfer(ctx context.Context, pool Pool, t *models.Transfer) (*models.Transfer, error) {
	created := *t
	created.ID = uuid.NewString()
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		from, to, err := lockPair(ctx, tx, created.UserID, created.FromAccountID, created.ToAccountID)
		if err != nil {
			return err
		}
		if from.Balance < created.Amount {
			return ErrInsufficientBalance
		}
		if err := AdjustBalance(ctx, tx, created.UserID, from.ID, -created.Amount); err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, created.UserID, to.ID, created.Amount); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO account_transfers (id, user_id, from_account_id, to_account_id, amount, note, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, created.ID, created.UserID, created.FromAccountID, created.ToAccountID, created.Amount,
			created.Note, created.Date); err != nil {
			return err
		}
		created.FromAccount = &models.AccountRef{ID: from.ID, Name: from.Name, Type: from.Type}
		created.ToAccount = &models.AccountRef{ID: to.ID, Name: to.Name, Type: to.Type}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTransfer reverses both legs of the stored transfer and removes it.
func DeleteTransfer(ctx context.Context, pool Pool, t *models.Transfer) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		var fromID, toID string
		var amount float64
		err := tx.QueryRow(ctx, `
			SELECT from_account_id, to_account_id, amount FROM account_transfers
			WHERE id = $1 AND user_id = $2 FOR UPDATE
		`, t.ID, t.UserID).Scan(&fromID, &toID, &amount)
		if err != nil {
			return notFound(err, ErrNotFound)
		}
		if _, _, err := lockPair(ctx, tx, t.UserID, fromID, toID); err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, t.UserID, fromID, amount); err != nil {
			return err
		}
		if err := AdjustBalance(ctx, tx, t.UserID, toID, -amount); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM account_transfers WHERE id = $1 AND user_id = $2`, t.ID, t.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
