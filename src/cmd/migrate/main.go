package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"fintrack-server/src/config"
	"fintrack-server/src/db"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	cfg := config.Load()

	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := conn.ExecContext(ctx, db.Schema); err != nil {
		log.Fatalf("ERROR: Failed to apply schema: %v", err)
	}
	log.Println("INFO: Schema applied")
}
