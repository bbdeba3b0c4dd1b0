package main

import (
	"log"
	"net/http"
	"os"

	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir %s: %v", cfg.UploadDir, err)
	}
	if cfg.ReadOnly {
		log.Println("INFO: Read-only demo mode enabled")
	}
	if cfg.OpenRouterKey == "" {
		log.Println("INFO: OPEN_ROUTER_API not set, AI chat disabled")
	}

	// Router
	router := api.NewRouter(pool, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
