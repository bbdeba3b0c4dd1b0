package db

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

const testUserID = "user-1"

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("Error creating mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func checkExpectations(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func strPtr(s string) *string { return &s }

var accountRowColumns = []string{"id", "user_id", "name", "type", "balance", "created_at"}
