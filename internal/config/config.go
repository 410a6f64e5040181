package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	SessionID     string
	ExportEnabled bool
	ExportFile    string
}

// FromEnv loads an optional .env file and then reads configuration from the
// environment with defaults.
func FromEnv() Config {
	_ = godotenv.Load()

	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.SessionID = getenv("SESSION_ID", "default-session")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./firstclick-results.txt")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
