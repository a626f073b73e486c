package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath   = "./crm.db"
	defaultPort     = "8080"
	defaultLogoPath = "web/static/logo_holding.png"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	LogoPath      string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// Production should use real env injection.
	_ = godotenv.Load()

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		LogoPath:      os.Getenv("LOGO_PATH"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogoPath == "" {
		cfg.LogoPath = defaultLogoPath
	}

	if cfg.AdminEmail == "" {
		slog.Warn("ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set")
	}

	return cfg
}
