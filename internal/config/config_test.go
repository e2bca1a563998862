package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "RABBITMQ_URL", "MAX_UPLOAD_SIZE", "UPLOAD_DIR", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadSize)
	// notifications stay off unless a broker URL is explicitly configured
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
}
