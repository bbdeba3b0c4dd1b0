package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrBudgetNotFound        = errors.New("budget not found")
	ErrCashAccountExists     = errors.New("cash account already exists")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrAccountUsedByExpense  = errors.New("account is referenced by expenses")
	ErrAccountUsedByIncome   = errors.New("account is referenced by incomes")
	ErrAccountUsedByTransfer = errors.New("account is referenced by transfers")
	ErrDuplicateEmail        = errors.New("email already registered")
)

// notFound maps pgx.ErrNoRows to the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
