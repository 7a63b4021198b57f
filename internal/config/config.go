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

// Generator providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Graph      GraphConfig
	Pipeline   PipelineConfig
	Generator  GeneratorConfig
	Breaker    BreakerConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds the market listings database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	Table              string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// GraphConfig locates the knowledge graph loaded at startup
type GraphConfig struct {
	Path string
}

// PipelineConfig bounds the fact selection stage
type PipelineConfig struct {
	MaxPromptFacts int
	MarketRowCap   int
}

// GeneratorConfig holds the language model configuration
type GeneratorConfig struct {
	Provider    string
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     int // seconds
}

// BreakerConfig holds the generator circuit breaker settings
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("GENERATOR_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "gadget_db"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			Table:              getEnv("MARKET_TABLE", "tb_market_listings"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 0),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 5001),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Graph: GraphConfig{
			Path: getEnv("KNOWLEDGE_BASE_PATH", "data/knowledge_base.mg"),
		},
		Pipeline: PipelineConfig{
			MaxPromptFacts: getEnvAsInt("PROMPT_MAX_FACTS", 5),
			MarketRowCap:   getEnvAsInt("MARKET_ROW_CAP", 50),
		},
		Generator: GeneratorConfig{
			Provider:    provider,
			APIKey:      generatorKey(provider),
			APIBase:     getEnv("GENERATOR_API_BASE", "https://api.groq.com/openai/v1"),
			Model:       getEnv("GENERATOR_MODEL", defaultModel(provider)),
			Temperature: getEnvAsFloat("GENERATOR_TEMPERATURE", 0.5),
			MaxTokens:   getEnvAsInt("GENERATOR_MAX_TOKENS", 1024),
			Timeout:     getEnvAsInt("GENERATOR_TIMEOUT", 30),
		},
		Breaker: BreakerConfig{
			Enabled:          getEnvAsBool("BREAKER_ENABLED", true),
			MaxRequests:      uint32(getEnvAsInt("BREAKER_MAX_REQUESTS", 5)),
			Interval:         getEnvAsDuration("BREAKER_INTERVAL", 30*time.Second),
			Timeout:          getEnvAsDuration("BREAKER_TIMEOUT", 60*time.Second),
			FailureThreshold: getEnvAsFloat("BREAKER_FAILURE_THRESHOLD", 0.8),
			MinRequests:      uint32(getEnvAsInt("BREAKER_MIN_REQUESTS", 5)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	switch c.Generator.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown GENERATOR_PROVIDER %q (want %s or %s)", c.Generator.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.Pipeline.MaxPromptFacts <= 0 {
		return fmt.Errorf("PROMPT_MAX_FACTS must be positive, got %d", c.Pipeline.MaxPromptFacts)
	}
	if c.Pipeline.MarketRowCap <= 0 {
		return fmt.Errorf("MARKET_ROW_CAP must be positive, got %d", c.Pipeline.MarketRowCap)
	}
	if c.PostgreSQL.MaxConnections < 0 || c.PostgreSQL.MaxIdleConnections < 0 {
		return fmt.Errorf("connection limits must not be negative")
	}
	if c.Graph.Path == "" {
		return fmt.Errorf("KNOWLEDGE_BASE_PATH must not be empty")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// HasCredential reports whether the generator key is configured
func (g GeneratorConfig) HasCredential() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

func generatorKey(provider string) string {
	if provider == ProviderGemini {
		return getEnv("GEMINI_API_KEY", getEnv("GENERATOR_API_KEY", ""))
	}
	return getEnv("GROQ_API_KEY", getEnv("GENERATOR_API_KEY", ""))
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "qwen-2.5-32b"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid bool value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
