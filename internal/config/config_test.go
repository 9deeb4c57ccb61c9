package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.BasicListenAddress)
	assert.Equal(t, ":8001", cfg.TasksListenAddress)
	assert.Equal(t, ":8002", cfg.AsyncListenAddress)
	assert.Equal(t, ":8003", cfg.ItemsListenAddress)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "secret-key-123", cfg.APIKey)
	assert.Empty(t, cfg.APITokens)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.TimeUnit)
	assert.Equal(t, 4, cfg.BackgroundWorkers)
	assert.Equal(t, "llama2", cfg.AgentModel)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ALLOWED_ORIGINS": "http://a.example,http://b.example",
		"API_TOKENS":      "t1,t2",
		"TIME_UNIT":       "10ms",
		"REQUEST_TIMEOUT": "5s",
		"MONGO_URL":       "mongodb://localhost:27017",
		"DEBUG":           "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"t1", "t2"}, cfg.APITokens)
	assert.Equal(t, 10*time.Millisecond, cfg.TimeUnit)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDBURL)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"zero time unit": {"TIME_UNIT": "0s"},
		"no workers":     {"BACKGROUND_WORKERS": "0"},
		"bad duration":   {"REQUEST_TIMEOUT": "soon"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
