package db

import (
	"context"

	"fintrack-server/src/models"

	"github.com/google/uuid"
)

const assetColumns = `id, user_id, name, type, category, color, amount, buy_price, coin_id, position_x, position_y, created_at`

func scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Category, &a.Color, &a.Amount, &a.BuyPrice,
		&a.CoinID, &a.PositionX, &a.PositionY, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssets returns the user's assets newest first. A positive limit caps the result.
func ListAssets(ctx context.Context, q Querier, userID string, limit int) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func GetAsset(ctx context.Context, q Querier, userID, assetID string) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 AND user_id = $2`
	a, err := scanAsset(q.QueryRow(ctx, query, assetID, userID))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return a, nil
}

func CreateAsset(ctx context.Context, q Querier, asset *models.Asset) (*models.Asset, error) {
	query := `
		INSERT INTO assets (id, user_id, name, type, category, color, amount, buy_price, coin_id, position_x, position_y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + assetColumns
	return scanAsset(q.QueryRow(ctx, query, uuid.NewString(), asset.UserID, asset.Name, asset.Type,
		asset.Category, asset.Color, asset.Amount, asset.BuyPrice, asset.CoinID, asset.PositionX, asset.PositionY))
}

func UpdateAsset(ctx context.Context, q Querier, asset *models.Asset) (*models.Asset, error) {
	query := `
		UPDATE assets
		SET name = $1, type = $2, category = $3, color = $4, amount = $5, buy_price = $6,
		    coin_id = $7, position_x = $8, position_y = $9
		WHERE id = $10 AND user_id = $11
		RETURNING ` + assetColumns
	a, err := scanAsset(q.QueryRow(ctx, query, asset.Name, asset.Type, asset.Category, asset.Color,
		asset.Amount, asset.BuyPrice, asset.CoinID, asset.PositionX, asset.PositionY, asset.ID, asset.UserID))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return a, nil
}

func DeleteAsset(ctx context.Context, q Querier, userID, assetID string) error {
	cmd, err := q.Exec(ctx, `DELETE FROM assets WHERE id = $1 AND user_id = $2`, assetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
