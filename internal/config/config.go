package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	BasicListenAddress string   `env:"BASIC_LISTEN_ADDRESS, default=:8000"`
	TasksListenAddress string   `env:"TASKS_LISTEN_ADDRESS, default=:8001"`
	AsyncListenAddress string   `env:"ASYNC_LISTEN_ADDRESS, default=:8002"`
	ItemsListenAddress string   `env:"ITEMS_LISTEN_ADDRESS, default=:8003"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS, default=*"`

	// MongoDBURL enables the mongodb task backend when set.
	MongoDBURL        string `env:"MONGO_URL"`
	MongoDatabaseName string `env:"MONGO_DATABASE, default=agenticai-patterns"`

	// ItemsDatabase is the path of a sqlite database used for items. Items
	// are kept in memory when empty.
	ItemsDatabase string `env:"ITEMS_DATABASE"`

	APIKey    string   `env:"API_KEY, default=secret-key-123"`
	APITokens []string `env:"API_TOKENS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s"`

	// TimeUnit scales every simulated delay of the async app.
	TimeUnit          time.Duration `env:"TIME_UNIT, default=1s"`
	BackgroundWorkers int           `env:"BACKGROUND_WORKERS, default=4"`

	AgentModel  string `env:"AGENT_MODEL, default=llama2"`
	AgentScript string `env:"AGENT_SCRIPT"`

	Debug bool `env:"DEBUG"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	if cfg.TimeUnit <= 0 {
		return nil, fmt.Errorf("invalid TIME_UNIT %s: must be positive", cfg.TimeUnit)
	}

	if cfg.BackgroundWorkers < 1 {
		return nil, fmt.Errorf("invalid BACKGROUND_WORKERS %d: must be at least 1", cfg.BackgroundWorkers)
	}

	return &cfg, nil
}
