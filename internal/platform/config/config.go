// Package config loads runtime settings from an optional .env file, an
// optional config file and JOBGATE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"jobgate/internal/eligibility"
)

const envPrefix = "JOBGATE"

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Search      SearchConfig      `mapstructure:"search"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Attestation AttestationConfig `mapstructure:"attestation"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
	Seed        SeedConfig        `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	Environment       string        `mapstructure:"environment"`
}

// IsDevelopment reports whether the server runs with developer defaults.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Backend        string        `mapstructure:"backend"`
	DatabaseURL    string        `mapstructure:"database_url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type SearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type AttestationConfig struct {
	Seed   string        `mapstructure:"seed"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type EligibilityConfig struct {
	DefaultMinScore int `mapstructure:"default_min_score"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.backend", StorageMemory)
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("storage.connect_timeout", 10*time.Second)
	v.SetDefault("storage.migrate_on_start", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.username", "")
	v.SetDefault("search.password", "")
	v.SetDefault("search.index", "jobs")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "jobgate.audit")

	v.SetDefault("attestation.seed", "")
	v.SetDefault("attestation.issuer", "did:web:jobgate.local")
	v.SetDefault("attestation.ttl", 24*time.Hour)

	v.SetDefault("eligibility.default_min_score", 270)

	v.SetDefault("seed.enabled", true)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q must be %s or %s", c.Storage.Backend, StorageMemory, StoragePostgres))
	}
	if c.Attestation.Seed == "" && !c.Server.IsDevelopment() {
		errs = append(errs, errors.New("attestation.seed is required outside development"))
	}
	if c.Attestation.TTL <= 0 {
		errs = append(errs, errors.New("attestation.ttl must be positive"))
	}
	if c.Eligibility.DefaultMinScore < 0 || c.Eligibility.DefaultMinScore > eligibility.MaxScore {
		errs = append(errs, fmt.Errorf("eligibility.default_min_score must be between 0 and %d", eligibility.MaxScore))
	}
	if c.Search.Enabled && len(c.Search.Addresses) == 0 {
		errs = append(errs, errors.New("search.addresses is required when search is enabled"))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	return errors.Join(errs...)
}

// AttestationSeed returns the configured seed, falling back to a fixed
// development value when running in development.
func (c *Config) AttestationSeed() []byte {
	if c.Attestation.Seed != "" {
		return []byte(c.Attestation.Seed)
	}
	return []byte("jobgate-development-seed")
}
