package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const configKeyPrefix = "roomify_hosting_config:" // roomify_hosting_config:{uid}

// Config is the per-account hosting namespace, created once and reused.
type Config struct {
	Slug      string    `json:"slug"`
	Host      string    `json:"host"` // public host, slug + domain suffix
	RootDir   string    `json:"root_dir"`
	CreatedAt time.Time `json:"created_at"`
}

// ConfigRepository caches hosting configs in the key-value store.
type ConfigRepository struct {
	client *redis.Client
}

func NewConfigRepository(client *redis.Client) *ConfigRepository {
	return &ConfigRepository{client: client}
}

// Get returns the cached config for uid, or nil if none is recorded.
func (r *ConfigRepository) Get(ctx context.Context, uid string) (*Config, error) {
	data, err := r.client.Get(ctx, configKeyPrefix+uid).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hosting config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal hosting config: %w", err)
	}
	return &cfg, nil
}

// Save persists the config under the account's well-known key.
func (r *ConfigRepository) Save(ctx context.Context, uid string, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal hosting config: %w", err)
	}
	if err := r.client.Set(ctx, configKeyPrefix+uid, data, 0).Err(); err != nil {
		return fmt.Errorf("save hosting config: %w", err)
	}
	return nil
}
