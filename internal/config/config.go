package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Driver           string
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	SSLMode          string
	MaxConns         int32
	MinConns         int32
	AutoMigrate      bool
	// EmployeeSeedFile is a JSON array of employees loaded into the memory directory.
	EmployeeSeedFile string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PayrollConfig holds salary and payroll engine settings
type PayrollConfig struct {
	ApprovalPolicy        lifecycle.ApprovalPolicy
	// CronInterval is how often due payrolls are calculated; zero disables the job.
	CronInterval          time.Duration
	// SeedDefaultComponents creates the starter component catalog on startup.
	SeedDefaultComponents bool
}

// Load reads configuration from the environment. A .env file is optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:           strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:             getEnv("DB_HOST", "localhost"),
		Port:             dbPort,
		User:             getEnv("DB_USER", "postgres"),
		Password:         getEnv("DB_PASSWORD", ""),
		Name:             getEnv("DB_NAME", "salary_engine"),
		SSLMode:          getEnv("DB_SSL_MODE", "disable"),
		MaxConns:         int32(maxConns),
		MinConns:         int32(minConns),
		AutoMigrate:      autoMigrate,
		EmployeeSeedFile: getEnv("EMPLOYEE_SEED_FILE", ""),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	policy, err := lifecycle.ParseApprovalPolicy(getEnv("APPROVAL_POLICY", string(lifecycle.ApprovalPermissive)))
	if err != nil {
		return nil, fmt.Errorf("invalid APPROVAL_POLICY: %w", err)
	}
	var cronInterval time.Duration
	if raw := getEnv("CRON_PAYROLL_INTERVAL", ""); raw != "" {
		cronInterval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CRON_PAYROLL_INTERVAL: %w", err)
		}
	}
	seedComponents, err := strconv.ParseBool(getEnv("SEED_DEFAULT_COMPONENTS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULT_COMPONENTS: %w", err)
	}
	config.Payroll = PayrollConfig{
		ApprovalPolicy:        policy,
		CronInterval:          cronInterval,
		SeedDefaultComponents: seedComponents,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if c.Payroll.CronInterval < 0 {
		return fmt.Errorf("CRON_PAYROLL_INTERVAL must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
