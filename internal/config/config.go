// Package config loads runtime configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server and the seed command read at startup.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	Database DatabaseConfig
	Redis    RedisConfig
	AMQP     AMQPConfig

	JWTSecret   string
	CORSOrigins string

	// PlacementTimeout bounds a single order placement transaction.
	PlacementTimeout time.Duration
	TokenPoolSize    int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// AMQPConfig is left with an empty URL when no broker is configured.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return &Config{
		Port:     GetEnv("PORT", "5000"),
		Env:      GetEnv("ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetIntEnv("DB_PORT", 5432),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "canteen"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			TTL:      GetDurationEnv("REDIS_TTL", 10*time.Minute),
		},
		AMQP: AMQPConfig{
			URL:      GetEnv("AMQP_URL", ""),
			Exchange: GetEnv("AMQP_EXCHANGE", "canteen_events"),
		},
		JWTSecret:        GetEnv("JWT_SECRET", "canteen-dev-secret"),
		CORSOrigins:      GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		PlacementTimeout: GetDurationEnv("PLACEMENT_TIMEOUT", 5*time.Second),
		TokenPoolSize:    GetIntEnv("TOKEN_POOL_SIZE", 50),
	}
}

// DSN renders the Postgres connection string for the gorm driver.
func (d DatabaseConfig) DSN() string {
	parts := []string{
		"host=" + d.Host,
		"user=" + d.User,
		"password=" + d.Password,
		"dbname=" + d.Name,
		"port=" + strconv.Itoa(d.Port),
		"sslmode=" + d.SSLMode,
	}
	return strings.Join(parts, " ")
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv parses values such as "5s" or "30m"; invalid values fall back to the default.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
