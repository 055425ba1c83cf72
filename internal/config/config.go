package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	MarketData MarketDataConfig
	Kafka      KafkaConfig
	Benchmark  BenchmarkConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration for the price cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MarketDataConfig holds quote feed configuration
type MarketDataConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers     []string
	PriceTopic  string
	LedgerTopic string
	GroupID     string
}

// BenchmarkConfig holds the index the portfolio is compared against
type BenchmarkConfig struct {
	Symbol string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "portfolio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MarketData: MarketDataConfig{
			BaseURL:  getEnv("MARKETDATA_BASE_URL", "http://localhost:8090"),
			Timeout:  getEnvDuration("MARKETDATA_TIMEOUT", 10*time.Second),
			CacheTTL: getEnvDuration("PRICE_CACHE_TTL", 120*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			PriceTopic:  getEnv("KAFKA_PRICE_TOPIC", "price-events"),
			LedgerTopic: getEnv("KAFKA_LEDGER_TOPIC", "ledger-events"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "portfolio-service"),
		},
		Benchmark: BenchmarkConfig{
			Symbol: getEnv("BENCHMARK_SYMBOL", "^GSPC"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
