package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/spendeats/internal/logger"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	GeminiModel   string
	StoreDriver   string
	Timezone      *time.Location
	DB            DBConfig
	Redis         RedisConfig
	Jobs          JobsConfig
	Logger        LoggerConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the libpq connection string for the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig is optional; an empty Host keeps conversation state in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	StateTTL time.Duration
}

type JobsConfig struct {
	RolloverSchedule string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	tz, err := time.LoadLocation(getEnvOrDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	stateTTL, err := time.ParseDuration(getEnvOrDefault("STATE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL: %w", err)
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		StoreDriver:   strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverPostgres)),
		Timezone:      tz,
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "spendeats"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			StateTTL: stateTTL,
		},
		Jobs: JobsConfig{
			RolloverSchedule: getEnvOrDefault("ROLLOVER_SCHEDULE", "0 0 1 * *"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once so validate-config can print them together.
func (c *Config) Validate() error {
	var problems []string
	if c.TelegramToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN environment variable not set")
	}
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.StoreDriver == StoreDriverPostgres && c.DB.DBName == "" {
		problems = append(problems, "DB_NAME environment variable not set")
	}
	if c.Jobs.RolloverSchedule != "" {
		if _, err := cron.ParseStandard(c.Jobs.RolloverSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("ROLLOVER_SCHEDULE is not a valid cron spec: %v", err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// RedisEnabled reports whether conversation state should live in Redis.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
