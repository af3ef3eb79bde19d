package config

import (
	"os"
	"strconv"

	"example/sweetshop-client/internal/logger"
)

// Config holds the client configuration read from the environment
type Config struct {
	APIBaseURL string
	StatePath  string
	PageSize   int
	Debug      bool
}

// Load reads configuration from environment variables with defaults.
// Callers are expected to have loaded a .env file beforehand if one exists.
func Load() *Config {
	cfg := &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
		StatePath:  getEnv("STATE_PATH", "./sweetshop.db"),
		PageSize:   100,
		Debug:      getEnv("DEBUG", "false") == "true",
	}

	if raw, ok := os.LookupEnv("PAGE_SIZE"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			logger.Log.Warnw("Invalid PAGE_SIZE, falling back to default", "PAGE_SIZE", raw)
		} else {
			cfg.PageSize = size
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
