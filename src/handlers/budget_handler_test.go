package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestGetBudgetsWithUsage(t *testing.T) {
	mock := newMock(t)
	month := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("FROM budgets WHERE user_id = .+ AND month").
		WithArgs(testUserID, month).
		WillReturnRows(pgxmock.NewRows(budgetRowColumns).
			AddRow("bud-1", testUserID, "Makan", strPtr("food"), 500000.0, month, (*string)(nil), now, now).
			AddRow("bud-2", testUserID, "Hiburan", (*string)(nil), 100000.0, month, (*string)(nil), now, now))
	mock.ExpectQuery("GROUP BY budget_id").
		WithArgs(testUserID, month, month.AddDate(0, 1, 0)).
		WillReturnRows(pgxmock.NewRows([]string{"budget_id", "sum"}).
			AddRow("bud-1", 200000.0).
			AddRow("bud-2", 150000.0))

	w := httptest.NewRecorder()
	GetBudgets(mock).ServeHTTP(w, authed("GET", "/api/budgets?month=2025-03", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Month   string `json:"month"`
		Budgets []struct {
			ID        string  `json:"id"`
			Spent     float64 `json:"spent"`
			Remaining float64 `json:"remaining"`
			MonthKey  string  `json:"monthKey"`
		} `json:"budgets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Month != "2025-03" || len(resp.Budgets) != 2 {
		t.Fatalf("Unexpected response %s", w.Body.String())
	}
	if resp.Budgets[0].Remaining != 300000 || resp.Budgets[0].MonthKey != "2025-03" {
		t.Errorf("Unexpected first budget %+v", resp.Budgets[0])
	}
	if resp.Budgets[1].Remaining != 0 {
		t.Errorf("Overspent budget should have zero remaining, got %v", resp.Budgets[1].Remaining)
	}
	checkExpectations(t, mock)
}

func TestCreateBudgetValidation(t *testing.T) {
	cases := []struct {
		body map[string]interface{}
		want string
	}{
		{map[string]interface{}{"name": "", "limit": 1000}, "Nama dan limit budget wajib diisi"},
		{map[string]interface{}{"name": "Makan", "limit": "0"}, "Nama dan limit budget wajib diisi"},
		{map[string]interface{}{"name": "Makan", "limit": 1000, "month": "2025-3"}, "Format bulan tidak valid"},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		CreateBudget(newMock(t)).ServeHTTP(w, authed("POST", "/api/budgets", mustJSON(t, c.body)))
		if w.Code != http.StatusBadRequest || errorMessage(t, w) != c.want {
			t.Errorf("Expected 400 %q, got %d %s", c.want, w.Code, w.Body.String())
		}
	}
}

func TestCreateBudgetAcceptsStringLimit(t *testing.T) {
	mock := newMock(t)
	month := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO budgets").
		WithArgs(pgxmock.AnyArg(), testUserID, "Transport", (*string)(nil), 750000.0, month, strPtr("ojek")).
		WillReturnRows(pgxmock.NewRows(budgetRowColumns).
			AddRow("bud-9", testUserID, "Transport", (*string)(nil), 750000.0, month, strPtr("ojek"), now, now))

	body := mustJSON(t, map[string]interface{}{"name": "Transport", "limit": "750000", "month": "2025-04", "notes": " ojek "})
	w := httptest.NewRecorder()
	CreateBudget(mock).ServeHTTP(w, authed("POST", "/api/budgets", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}

func TestUpdateBudgetKeepsMonth(t *testing.T) {
	mock := newMock(t)
	month := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery("FROM budgets WHERE id").
		WithArgs("bud-1", testUserID).
		WillReturnRows(pgxmock.NewRows(budgetRowColumns).
			AddRow("bud-1", testUserID, "Makan", (*string)(nil), 500000.0, month, (*string)(nil), now, now))
	mock.ExpectQuery("UPDATE budgets").
		WithArgs("Makan", (*string)(nil), 600000.0, month, (*string)(nil), "bud-1", testUserID).
		WillReturnRows(pgxmock.NewRows(budgetRowColumns).
			AddRow("bud-1", testUserID, "Makan", (*string)(nil), 600000.0, month, (*string)(nil), now, now))
	mock.ExpectQuery("GROUP BY budget_id").
		WithArgs(testUserID, month, month.AddDate(0, 1, 0)).
		WillReturnRows(pgxmock.NewRows([]string{"budget_id", "sum"}))

	body := mustJSON(t, map[string]interface{}{"name": "Makan", "limit": 600000})
	w := httptest.NewRecorder()
	UpdateBudget(mock).ServeHTTP(w, authed("PUT", "/api/budgets/bud-1", body, "id", "bud-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}

func TestDeleteBudgetNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE expenses SET budget_id = NULL").
		WithArgs("bud-x", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM budgets").
		WithArgs("bud-x", testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	DeleteBudget(mock).ServeHTTP(w, authed("DELETE", "/api/budgets/bud-x", nil, "id", "bud-x"))

	if w.Code != http.StatusNotFound || errorMessage(t, w) != "Budget tidak ditemukan" {
		t.Errorf("Expected 404, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}
