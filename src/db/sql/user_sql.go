package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, name, email, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	var hash string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.PasswordHash = []byte(hash)
	return &user, nil
}

func CreateUser(ctx context.Context, q Querier, req models.RegisterRequest, hashedPassword string) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	user, err := scanUser(q.QueryRow(ctx, query, uuid.NewString(), req.Name, req.Email, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return user, nil
}

func GetUserByID(ctx context.Context, q Querier, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return user, nil
}

func UpdateUserPassword(ctx context.Context, q Querier, userID, hashedPassword string) error {
	cmd, err := q.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
