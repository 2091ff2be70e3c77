package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "taskhub-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "cache", cfg.Cache.KeyPrefix)
	assert.Equal(t, "notification-events", cfg.Broker.NotificationTopic)
	assert.Equal(t, "todo-events", cfg.Broker.TodoTopic)
	assert.Equal(t, 3, cfg.Broker.PublishRetries)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TASKHUB_APP_PORT", "9090")
	t.Setenv("TASKHUB_REDIS_HOST", "cache.internal")
	t.Setenv("TASKHUB_BROKER_NOTIFICATION_TOPIC", "notif-stream")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, "notif-stream", cfg.Broker.NotificationTopic)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("TASKHUB_APP_ENV", "weird")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "taskhub", Password: "secret",
		DBName: "taskhub", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=taskhub password=secret dbname=taskhub sslmode=disable",
		cfg.DSN())
	assert.Equal(t,
		"postgres://taskhub:secret@db:5432/taskhub?sslmode=disable",
		cfg.URL())
}
