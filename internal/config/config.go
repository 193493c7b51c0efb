package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	CookieSecure bool
	CORSOrigins  []string

	LogLevel  string
	LogFormat string

	// redis (optional): per-conversation turn lock shared across instances
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TurnLockTTL   time.Duration

	// AI provider
	AIProvider        string
	AIModel           string
	AITimeout         time.Duration
	OllamaBaseURL     string
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterSiteURL string
	OpenRouterAppName string

	// rabbitMQ (optional): deferred conversation titling
	RabbitURL         string
	RabbitTitleQueue  string
	WorkerConcurrency int
}

// Load reads the process environment, after merging a local .env file if one exists.
func Load() Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))

	// DSN demo (mysql):
	// app:apppass@tcp(127.0.0.1:3306)/brand_assistant?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		if driver == "mysql" {
			dsn = "app:apppass@tcp(127.0.0.1:3306)/brand_assistant?charset=utf8mb4&parseTime=true&loc=Local"
		} else {
			dsn = "file:brand-assistant.db?_pragma=foreign_keys(1)"
		}
	}

	aiProvider := strings.ToLower(getEnv("AI_PROVIDER", "openrouter"))
	defaultModel := "openai/gpt-4o-mini"
	if aiProvider == "ollama" {
		defaultModel = "llama3:latest"
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBDriver: driver,
		DBDSN:    dsn,

		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:       time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "ba_auth"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		TurnLockTTL:   time.Duration(getEnvInt("TURN_LOCK_TTL_SECONDS", 120)) * time.Second,

		AIProvider:        aiProvider,
		AIModel:           getEnv("AI_MODEL", defaultModel),
		AITimeout:         time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 90)) * time.Second,
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterSiteURL: getEnv("OPENROUTER_SITE_URL", "http://localhost:5000"),
		OpenRouterAppName: getEnv("OPENROUTER_APP_NAME", "AI Brand Assistant"),

		RabbitURL:         os.Getenv("RABBIT_URL"),
		RabbitTitleQueue:  getEnv("RABBIT_TITLE_QUEUE", "conversation_titles"),
		WorkerConcurrency: clamp(getEnvInt("WORKER_CONCURRENCY", 2), 1, 50),
	}
}

// Validate rejects settings that cannot work together.
func (c Config) Validate() error {
	// a turn holds the lock across one provider call
	if c.RedisAddr != "" && c.TurnLockTTL <= c.AITimeout {
		return fmt.Errorf("TURN_LOCK_TTL_SECONDS (%s) must exceed AI_TIMEOUT_SECONDS (%s)", c.TurnLockTTL, c.AITimeout)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimRight(strings.TrimSpace(p), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
