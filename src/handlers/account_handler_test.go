package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/pashagolub/pgxmock/v4"
)

func TestGetAccountsEnsuresCash(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO account_balances").
		WithArgs(pgxmock.AnyArg(), testUserID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FROM account_balances WHERE user_id").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(accountRowColumns).AddRow("acc-cash", testUserID, "Cash", "cash", 0.0, now))

	w := httptest.NewRecorder()
	GetAccounts(mock).ServeHTTP(w, authed("GET", "/api/account-balance", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var accounts []models.Account
	json.Unmarshal(w.Body.Bytes(), &accounts)
	if len(accounts) != 1 || accounts[0].Type != "cash" {
		t.Errorf("Expected the default cash account, got %+v", accounts)
	}
	checkExpectations(t, mock)
}

func TestCreateAccountValidation(t *testing.T) {
	cases := []struct {
		body map[string]interface{}
		want string
	}{
		{map[string]interface{}{"name": "", "type": "bank"}, "Nama dan tipe wajib diisi"},
		{map[string]interface{}{"name": "Dompet", "type": "crypto"}, "Tipe akun tidak valid"},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		CreateAccount(newMock(t)).ServeHTTP(w, authed("POST", "/api/account-balance", mustJSON(t, c.body)))
		if w.Code != http.StatusBadRequest || errorMessage(t, w) != c.want {
			t.Errorf("Expected 400 %q, got %d %s", c.want, w.Code, w.Body.String())
		}
	}
}

func TestCreateSecondCashAccountRejected(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID, "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	w := httptest.NewRecorder()
	body := mustJSON(t, map[string]interface{}{"name": "Cash 2", "type": "cash", "balance": 1000})
	CreateAccount(mock).ServeHTTP(w, authed("POST", "/api/account-balance", body))

	if w.Code != http.StatusBadRequest || errorMessage(t, w) != "Akun cash sudah ada. Tidak boleh lebih dari 1." {
		t.Errorf("Expected cash uniqueness error, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}

func TestCreateBankAccount(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("INSERT INTO account_balances").
		WithArgs(pgxmock.AnyArg(), testUserID, "BCA", "bank", 250000.0).
		WillReturnRows(pgxmock.NewRows(accountRowColumns).AddRow("acc-1", testUserID, "BCA", "bank", 250000.0, time.Now()))

	w := httptest.NewRecorder()
	body := mustJSON(t, map[string]interface{}{"name": "BCA", "type": "Bank", "balance": 250000})
	CreateAccount(mock).ServeHTTP(w, authed("POST", "/api/account-balance", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}

func TestUpdateAccountNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("UPDATE account_balances").
		WithArgs("Tabungan", "bank", 0.0, "acc-x", testUserID).
		WillReturnRows(pgxmock.NewRows(accountRowColumns))

	w := httptest.NewRecorder()
	body := mustJSON(t, map[string]interface{}{"name": "Tabungan", "type": "bank"})
	UpdateAccount(mock).ServeHTTP(w, authed("PUT", "/api/account-balance/acc-x", body, "id", "acc-x"))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d %s", w.Code, w.Body.String())
	}
	checkExpectations(t, mock)
}

func TestDeleteAccountInUse(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("acc-1", testUserID).
		WillReturnRows(pgxmock.NewRows(accountRowColumns).AddRow("acc-1", testUserID, "BCA", "bank", 0.0, time.Now()))
	mock.ExpectQuery("FROM expenses WHERE account_id").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("FROM incomes WHERE account_id").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	DeleteAccount(mock).ServeHTTP(w, authed("DELETE", "/api/account-balance/acc-1", nil, "id", "acc-1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Akun ini masih dipakai pada transaksi pemasukan. Tidak bisa dihapus." {
		t.Errorf("Unexpected message %q", msg)
	}
	checkExpectations(t, mock)
}
