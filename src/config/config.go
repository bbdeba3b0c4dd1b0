package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string
	UploadDir      string
	OpenRouterKey  string
	AIBaseURL      string
	AppURL         string
	CoinGeckoURL   string
	ReadOnly       bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := FromEnv()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

// FromEnv reads the configuration without validating required values.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		UploadDir:      getEnv("UPLOAD_DIR", "public/uploads/expenses"),
		OpenRouterKey:  getEnv("OPEN_ROUTER_API", ""),
		AIBaseURL:      getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AppURL:         getEnv("APP_URL", "http://localhost:3000"),
		CoinGeckoURL:   getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		ReadOnly:       getEnv("READ_ONLY", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
