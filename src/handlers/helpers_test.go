package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
)

const testUserID = "user-1"

var (
	accountRowColumns = []string{"id", "user_id", "name", "type", "balance", "created_at"}
	budgetRowColumns  = []string{"id", "user_id", "name", "category", "limit", "month", "notes", "created_at", "updated_at"}
)

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

// authed builds a request for testUserID with optional chi URL params given as key, value pairs.
func authed(method, target string, body []byte, params ...string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), testUserID)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not an error object: %s", w.Body.String())
	}
	return body["error"]
}

func strPtr(s string) *string { return &s }

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
