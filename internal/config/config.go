package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServiceName string
	Environment string
	ServerPort  string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	LLMDefaultProvider string
	OllamaBaseURL      string
	OllamaDefaultModel string
	OllamaTimeout      time.Duration
	OllamaStartupCheck bool
	OpenAIKey          string
	OpenAIBaseURL      string
	OpenAIDefaultModel string

	OTELEnabled  bool
	OTELEndpoint string

	CORSAllowedOrigin string
	DebugMode         bool
}

// Load loads configuration from the environment. An optional .env file is
// read first so local development matches the deployed environment layout;
// a missing file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "conversations-api"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),

		PostgresHost:     getEnv("POSTGRES_HOSTNAME", ""),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", ""),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		LLMDefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "ollama"),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaDefaultModel: getEnv("OLLAMA_DEFAULT_MODEL", "llama3.2:3b"),
		OllamaTimeout:      getEnvDuration("OLLAMA_TIMEOUT_SECONDS", 30*time.Second),
		OllamaStartupCheck: getEnvBool("OLLAMA_STARTUP_CHECK_ENABLED", true),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIDefaultModel: getEnv("OPENAI_DEFAULT_MODEL", "gpt-4o-mini"),

		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		DebugMode:         getEnvBool("DEBUG", false),
	}

	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}

	return cfg, nil
}

// DatabaseURL builds the lib/pq connection string from the POSTGRES_* pieces.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration expressed in whole or fractional seconds,
// matching how the provider timeout is configured in deployment manifests.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return defaultValue
}
