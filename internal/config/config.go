package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	ListenAddr string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:     envOr("NOTES_DB_PATH", "notes.sqlite"),
		ListenAddr: envOr("NOTES_LISTEN_ADDR", "127.0.0.1:8080"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
