package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported AI providers.
const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration. It is built once by Load and
// passed by value to the components that need it.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// AI
	AIProvider       string
	DisableAI        bool
	AIRequestTimeout time.Duration
	GroqAPIKey       string
	GroqModel        string
	GroqBaseURL      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
	AnthropicAPIKey  string
	AnthropicModel   string
	GeminiAPIKey     string
	GeminiModel      string

	// Access
	AdminUsers          []int64
	AutoRegistration    bool
	RequireRegistration bool

	// Domain
	CategoriesFile string
	CurrencySymbol string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Frontend pipeline
	PipelineAPIKey string

	// Events
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "data/finance_bot.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finbot"),
		DBPassword: getEnv("DB_PASSWORD", "finbot"),
		DBName:     getEnv("DB_NAME", "finbot"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AIProvider:       strings.ToLower(getEnv("AI_PROVIDER", ProviderGroq)),
		DisableAI:        getBool("DISABLE_AI", false),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqModel:        getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.2-3b-instruct:free"),
		OpenRouterURL:    getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		AutoRegistration:    getBool("AUTO_REGISTRATION", true),
		RequireRegistration: getBool("REQUIRE_REGISTRATION", false),

		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₸"),

		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "finbot"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "transactions"),
	}

	cfg.AIRequestTimeout = getDuration("AI_REQUEST_TIMEOUT", 30*time.Second)
	cfg.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)

	admins, err := ParseUserIDs(getEnv("ADMIN_USERS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("ADMIN_USERS: %w", err)
	}
	cfg.AdminUsers = admins

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AIProvider {
	case ProviderGroq, ProviderOpenRouter, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}
	if c.AIRequestTimeout <= 0 {
		return fmt.Errorf("AI_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// IsAdmin reports whether userID is in the configured admin list.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ParseUserIDs parses a comma separated list of chat user ids.
func ParseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
