package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port          string
	OpenAIAPIKey  string
	AllowedOrigin string
	Model         string
	Temperature   float32
	MaxTokens     int
	// Seconds the whole model invocation may take before the request fails
	RequestTimeoutSeconds int
	// Scratch directory for staged image uploads
	TempUploadDir string
	// Prompt spec steering the structured reply shape
	ReplyPromptFile string
	// Session persistence
	SessionBackend  string // memory | file | redis | postgres
	SessionDir      string
	SessionMaxTurns int
	SessionTTLHours int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	DatabaseURL     string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:                  getEnvDefault("PORT", "8080"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		AllowedOrigin:         getEnvDefault("ALLOWED_ORIGIN", "*"),
		Model:                 getEnvDefault("OPENAI_MODEL", "gpt-4.1"),
		Temperature:           float32(getEnvFloatDefault("OPENAI_TEMPERATURE", 0.5)),
		MaxTokens:             getEnvIntDefault("OPENAI_MAX_TOKENS", 20000),
		RequestTimeoutSeconds: getEnvIntDefault("REQUEST_TIMEOUT_SECONDS", 120),
		TempUploadDir:         getEnvDefault("TEMP_UPLOAD_DIR", "temp_uploads"),
		ReplyPromptFile:       getEnvDefault("REPLY_PROMPT_FILE", "prompts/reply.yaml"),
		SessionBackend:        strings.ToLower(getEnvDefault("SESSION_BACKEND", "memory")),
		SessionDir:            getEnvDefault("SESSION_DIR", "data/sessions"),
		SessionMaxTurns:       getEnvIntDefault("SESSION_MAX_TURNS", 0),
		SessionTTLHours:       getEnvIntDefault("SESSION_TTL_HOURS", 0),
		RedisAddr:             getEnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvIntDefault("REDIS_DB", 0),
		DatabaseURL:           os.Getenv("DB_URL"),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; model calls will fail until provided")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warnf("invalid integer for %s, using default %d", key, def)
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		log.Warnf("invalid number for %s, using default %v", key, def)
	}
	return def
}
