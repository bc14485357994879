// Package config loads service settings from environment variables with
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	BrokerRabbitMQ = "rabbitmq"
	BrokerRedis    = "redis"
)

type Config struct {
	Env             string
	Server          ServerConfig
	Database        DatabaseConfig
	Broker          string
	RabbitMQ        RabbitMQConfig
	Redis           RedisConfig
	ShutdownTimeout time.Duration
}

type ServerConfig struct {
	HTTPPort int
	GRPCPort int
}

type DatabaseConfig struct {
	Driver          string // mysql, postgres, sqlite3
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RabbitMQConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	VirtualHost string
	Exchange    string
}

type RedisConfig struct {
	Addr string
}

// Load reads the configuration from the environment and validates the
// enumerated settings.
func Load() (*Config, error) {
	cfg := &Config{
		Env: strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		Server: ServerConfig{
			HTTPPort: getEnvInt("HTTP_PORT", 8080),
			GRPCPort: getEnvInt("GRPC_PORT", 50051),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
			DSN:             getEnv("DB_DSN", "root:root@tcp(localhost:3306)/coffee?parseTime=true"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Broker: strings.ToLower(getEnv("BROKER", BrokerRabbitMQ)),
		RabbitMQ: RabbitMQConfig{
			Host:        getEnv("RABBITMQ_HOST", "localhost"),
			Port:        getEnvInt("RABBITMQ_PORT", 5672),
			User:        getEnv("RABBITMQ_USER", "guest"),
			Password:    getEnv("RABBITMQ_PASSWORD", "guest"),
			VirtualHost: getEnv("RABBITMQ_VHOST", "/"),
			Exchange:    getEnv("RABBITMQ_EXCHANGE", "coffee.exchange"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Broker {
	case BrokerRabbitMQ, BrokerRedis:
	default:
		return fmt.Errorf("unsupported BROKER %q", c.Broker)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN environment variable is required")
	}
	if c.RabbitMQ.Exchange == "" {
		return fmt.Errorf("RABBITMQ_EXCHANGE must not be empty")
	}
	if c.Server.HTTPPort <= 0 || c.Server.GRPCPort <= 0 {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must be positive")
	}
	return nil
}

// getEnv retrieves environment variable or returns default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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
