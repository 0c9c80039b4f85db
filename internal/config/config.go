package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Token store
	TokenStore     string
	TokenPath      string
	RedisURL       string
	RedisKeyPrefix string

	// Chat
	ChatModel string

	// Gemini AI (optional, replaces the /chat-gpt endpoint when set)
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int

	// Local mock backend
	MockPort          string
	MockJWTSecret     string
	MockAuthRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		APIBaseURL:           getEnvOrDefault("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:          time.Duration(getEnvAsIntOrDefault("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		TokenStore:           getEnvOrDefault("TOKEN_STORE", "file"),
		TokenPath:            getEnvOrDefault("TOKEN_PATH", defaultTokenPath()),
		RedisKeyPrefix:       getEnvOrDefault("REDIS_KEY_PREFIX", "fittrack:"),
		ChatModel:            getEnvOrDefault("CHAT_MODEL", "gpt-3.5-turbo"),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 2),
		MockPort:             getEnvOrDefault("MOCK_PORT", "8080"),
		MockJWTSecret:        getEnvOrDefault("MOCK_JWT_SECRET", "fittrack-dev-secret"),
		MockAuthRateLimit:    getEnvAsIntOrDefault("MOCK_AUTH_RATE_LIMIT", 10),
	}

	if cfg.TokenStore == "redis" {
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	}

	return cfg
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fittrack/session.json"
	}
	return filepath.Join(home, ".fittrack", "session.json")
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
