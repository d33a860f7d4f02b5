package healthquest

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	DB       DBConfig       `toml:"db"`
	Mongo    MongoConfig    `toml:"mongo"`
	Spaces   SpacesConfig   `toml:"spaces"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Web      WebConfig      `toml:"web"`
	Sync     SyncConfig     `toml:"sync"`
	Rewards  RewardsConfig  `toml:"rewards"`
	Activity ActivityConfig `toml:"activity"`
	Cache    CacheConfig    `toml:"cache"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// MongoConfig points at the remote document store used for progress sync.
// An empty URI disables remote sync entirely.
type MongoConfig struct {
	URI                string `toml:"uri"`
	Database           string `toml:"database"`
	ProgressCollection string `toml:"progress_collection"`
	ActivityCollection string `toml:"activity_collection"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
}

type CatalogConfig struct {
	// Source is "dir" or "spaces".
	Source string `toml:"source"`
	Path   string `toml:"path"`
	Prefix string `toml:"prefix"`
}

type WebConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	AllowOrigins    []string `toml:"allow_origins"`
	RateLimit       int      `toml:"rate_limit"`
	RateLimitWindow int      `toml:"rate_limit_window_seconds"`
}

type SyncConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
	TimeoutSeconds  int `toml:"timeout_seconds"`
	MaxParallel     int `toml:"max_parallel"`
}

type RewardsConfig struct {
	// Gating is "any" (level or badges) or "all" (level and badges).
	Gating               string `toml:"gating"`
	ClaimTTLHours        int    `toml:"claim_ttl_hours"`
	SweepIntervalMinutes int    `toml:"sweep_interval_minutes"`
}

type ActivityConfig struct {
	// Backend is "postgres" or "mongo".
	Backend       string `toml:"backend"`
	MemoryPerUser int    `toml:"memory_per_user"`
}

type CacheConfig struct {
	ProgressSize int `toml:"progress_size"`
	SessionSize  int `toml:"session_size"`
	ActivitySize int `toml:"activity_size"`
}

func (c *Config) applyDefaults() {
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.PoolSize == 0 {
		c.DB.PoolSize = 10
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "healthquest"
	}
	if c.Mongo.ProgressCollection == "" {
		c.Mongo.ProgressCollection = "user_progress"
	}
	if c.Mongo.ActivityCollection == "" {
		c.Mongo.ActivityCollection = "activities"
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = "dir"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "content"
	}
	if c.Web.Host == "" {
		c.Web.Host = "0.0.0.0"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Web.RateLimit == 0 {
		c.Web.RateLimit = 120
	}
	if c.Web.RateLimitWindow == 0 {
		c.Web.RateLimitWindow = 60
	}
	if c.Sync.IntervalSeconds == 0 {
		c.Sync.IntervalSeconds = 30
	}
	if c.Sync.TimeoutSeconds == 0 {
		c.Sync.TimeoutSeconds = 5
	}
	if c.Sync.MaxParallel == 0 {
		c.Sync.MaxParallel = 8
	}
	if c.Rewards.Gating == "" {
		c.Rewards.Gating = "any"
	}
	if c.Rewards.ClaimTTLHours == 0 {
		c.Rewards.ClaimTTLHours = 7 * 24
	}
	if c.Rewards.SweepIntervalMinutes == 0 {
		c.Rewards.SweepIntervalMinutes = 60
	}
	if c.Activity.Backend == "" {
		c.Activity.Backend = "postgres"
	}
	if c.Activity.MemoryPerUser == 0 {
		c.Activity.MemoryPerUser = 100
	}
	if c.Cache.ProgressSize == 0 {
		c.Cache.ProgressSize = 10000
	}
	if c.Cache.SessionSize == 0 {
		c.Cache.SessionSize = 10000
	}
	if c.Cache.ActivitySize == 0 {
		c.Cache.ActivitySize = 5000
	}
}

func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c SyncConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c RewardsConfig) ClaimTTL() time.Duration {
	return time.Duration(c.ClaimTTLHours) * time.Hour
}

func (c RewardsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
