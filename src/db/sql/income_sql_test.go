package db

import (
	"context"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/pashagolub/pgxmock/v4"
)

var incomeRowColumns = []string{"id", "user_id", "title", "amount", "date", "created_at", "account_id", "name", "type"}

func TestCreateIncomeCreditsAccount(t *testing.T) {
	mock := newMock(t)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO incomes").
		WithArgs(pgxmock.AnyArg(), testUserID, "acc-bank", "Gaji", 8000000.0, date).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(date))
	mock.ExpectExec("UPDATE account_balances SET balance").
		WithArgs(8000000.0, "acc-bank", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	income, err := CreateIncome(context.Background(), mock, &models.Income{
		UserID: testUserID, Title: "Gaji", Amount: 8000000, Date: date, AccountID: "acc-bank",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if income.ID == "" || !income.CreatedAt.Equal(date) {
		t.Errorf("Unexpected income %+v", income)
	}
	checkExpectations(t, mock)
}

func TestUpdateIncomeRollsBackThenReapplies(t *testing.T) {
	mock := newMock(t)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	old := &models.Income{ID: "inc-1", UserID: testUserID, Title: "Gaji", Amount: 100, Date: date, AccountID: "acc-a"}
	updated := &models.Income{Title: "Gaji+", Amount: 150, Date: date, AccountID: "acc-b"}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM incomes WHERE id = .+ FOR UPDATE").
		WithArgs("inc-1", testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "amount"}).AddRow("acc-a", 100.0))
	mock.ExpectExec("UPDATE account_balances SET balance").
		WithArgs(-100.0, "acc-a", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE incomes SET").
		WithArgs("Gaji+", 150.0, date, "acc-b", "inc-1", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE account_balances SET balance").
		WithArgs(150.0, "acc-b", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, err := UpdateIncome(context.Background(), mock, old, updated)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ID != "inc-1" || result.AccountID != "acc-b" {
		t.Errorf("Unexpected result %+v", result)
	}
	checkExpectations(t, mock)
}

func TestDeleteIncomeMissingAccountRollsBack(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("inc-1", testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "amount"}).AddRow("gone", 50.0))
	mock.ExpectExec("UPDATE account_balances SET balance").
		WithArgs(-50.0, "gone", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := DeleteIncome(context.Background(), mock, &models.Income{ID: "inc-1", UserID: testUserID, Amount: 50, AccountID: "gone"})
	if err != ErrAccountNotFound {
		t.Fatalf("Expected ErrAccountNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestDeleteIncomeReversesStoredAmount(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("inc-1", testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "amount"}).AddRow("acc-b", 80.0))
	mock.ExpectExec("UPDATE account_balances SET balance").
		WithArgs(-80.0, "acc-b", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM incomes").
		WithArgs("inc-1", testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := DeleteIncome(context.Background(), mock, &models.Income{ID: "inc-1", UserID: testUserID, Amount: 50, AccountID: "acc-a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkExpectations(t, mock)
}

func TestListIncomesBetweenEmbedsAccount(t *testing.T) {
	mock := newMock(t)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	mock.ExpectQuery("FROM incomes i").
		WithArgs(testUserID, start, end).
		WillReturnRows(pgxmock.NewRows(incomeRowColumns).
			AddRow("inc-1", testUserID, "Gaji", 100.0, start, start, "acc-a", strPtr("BCA"), strPtr("bank")).
			AddRow("inc-2", testUserID, "Bonus", 50.0, start, start, "acc-x", (*string)(nil), (*string)(nil)))

	incomes, err := ListIncomesBetween(context.Background(), mock, testUserID, start, end)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(incomes) != 2 {
		t.Fatalf("Expected 2 incomes, got %d", len(incomes))
	}
	if incomes[0].Account == nil || incomes[0].Account.Type != "bank" {
		t.Errorf("Expected embedded account, got %+v", incomes[0].Account)
	}
	if incomes[1].Account != nil {
		t.Error("Expected no account ref when the join is empty")
	}
	checkExpectations(t, mock)
}
