package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: http://backend.local/api/places
`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10000, cfg.Backend.Timeout)
	assert.Equal(t, []string{"tourist_attraction", "point_of_interest"}, cfg.Widget.AllowedTypes)
	assert.Equal(t, 1800000, cfg.Sessions.IdleTTL)
	assert.Equal(t, "place-intake", cfg.Kafka.GroupID)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MissingBackendURLFails(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url")
}

func TestLoadFromFile_KafkaEnabledRequiresBrokersAndTopic(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: http://backend.local/api/places
kafka:
  enabled: true
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestLoadFromFile_RedisEnabledRequiresAddress(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: http://backend.local/api/places
redis:
  enabled: true
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis.address")
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://env-backend.local/api/places")

	path := writeConfig(t, `
backend:
  url: ${BACKEND_URL}
`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "http://env-backend.local/api/places", cfg.Backend.URL)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, GetDuration(2000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
