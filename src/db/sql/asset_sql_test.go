package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/pashagolub/pgxmock/v4"
)

var assetRowColumns = []string{"id", "user_id", "name", "type", "category", "color", "amount", "buy_price",
	"coin_id", "position_x", "position_y", "created_at"}

func TestListAssetsWithLimit(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	x := 120.5

	mock.ExpectQuery("FROM assets WHERE user_id = .+ LIMIT").
		WithArgs(testUserID, 20).
		WillReturnRows(pgxmock.NewRows(assetRowColumns).
			AddRow("as-1", testUserID, "Bitcoin", "crypto", "crypto", "bg-orange-500", 0.5, 900000000.0,
				strPtr("bitcoin"), &x, (*float64)(nil), now))

	assets, err := ListAssets(context.Background(), mock, testUserID, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(assets) != 1 || *assets[0].CoinID != "bitcoin" || *assets[0].PositionX != 120.5 {
		t.Errorf("Unexpected assets %+v", assets)
	}
	checkExpectations(t, mock)
}

func TestUpdateAssetNotOwned(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("UPDATE assets").
		WillReturnRows(pgxmock.NewRows(assetRowColumns))

	_, err := UpdateAsset(context.Background(), mock, &models.Asset{ID: "as-9", UserID: testUserID, Name: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestDeleteAsset(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec("DELETE FROM assets").
		WithArgs("as-1", testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM assets").
		WithArgs("as-1", testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := DeleteAsset(context.Background(), mock, testUserID, "as-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := DeleteAsset(context.Background(), mock, testUserID, "as-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
	checkExpectations(t, mock)
}
