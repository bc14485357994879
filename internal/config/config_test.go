package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_PORT", "GRPC_PORT", "DB_DRIVER", "DB_DSN", "DB_MAX_OPEN_CONNS",
		"DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "BROKER", "RABBITMQ_HOST", "RABBITMQ_PORT",
		"RABBITMQ_USER", "RABBITMQ_PASSWORD", "RABBITMQ_VHOST", "RABBITMQ_EXCHANGE",
		"REDIS_ADDR", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "root:root@tcp(localhost:3306)/coffee?parseTime=true", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 25, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, BrokerRabbitMQ, cfg.Broker)
	assert.Equal(t, RabbitMQConfig{
		Host:        "localhost",
		Port:        5672,
		User:        "guest",
		Password:    "guest",
		VirtualHost: "/",
		Exchange:    "coffee.exchange",
	}, cfg.RabbitMQ)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", "file:coffee.db")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30s")
	t.Setenv("BROKER", "redis")
	t.Setenv("RABBITMQ_EXCHANGE", "lab.coffee")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:coffee.db", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, BrokerRedis, cfg.Broker)
	assert.Equal(t, "lab.coffee", cfg.RabbitMQ.Exchange)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"unknown broker", "BROKER", "kafka"},
		{"negative port", "GRPC_PORT", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
