package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("READ_ONLY", "true")

	cfg := FromEnv()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.ReadOnly {
		t.Error("Expected read-only mode to be enabled")
	}
	if cfg.UploadDir != "public/uploads/expenses" {
		t.Errorf("Unexpected upload dir %s", cfg.UploadDir)
	}
}
