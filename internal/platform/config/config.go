// Package config loads server configuration from defaults, an optional
// abacus.yaml and ABACUS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	strs "abacus/pkg/platform/strings"
)

// Config is the full server configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Calculation CalculationConfig `mapstructure:"calculation"`
	Usage       UsageConfig       `mapstructure:"usage"`
	Audit       AuditConfig       `mapstructure:"audit"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CalculationConfig bounds batch evaluation.
type CalculationConfig struct {
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	MaxBatchSize     int `mapstructure:"max_batch_size"`
}

// Usage and audit backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendKafka    = "kafka"
)

type UsageConfig struct {
	Backend string `mapstructure:"backend"`
}

type AuditConfig struct {
	Backend        string `mapstructure:"backend"`
	MemoryCapacity int    `mapstructure:"memory_capacity"`
}

// RedisConfig mirrors the go-redis options we override.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type KafkaConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	ClientID          string   `mapstructure:"client_id"`
	Partitions        int32    `mapstructure:"partitions"`
	ReplicationFactor int16    `mapstructure:"replication_factor"`
}

// TracingConfig enables OTLP/HTTP span export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("calculation.batch_concurrency", 8)
	v.SetDefault("calculation.max_batch_size", 50)

	v.SetDefault("usage.backend", BackendMemory)
	v.SetDefault("audit.backend", BackendMemory)
	v.SetDefault("audit.memory_capacity", 10000)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "abacus.calculations")
	v.SetDefault("kafka.client_id", "abacus")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "abacus")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load reads configuration. An explicit path must exist; without one an
// abacus.yaml in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("abacus")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ABACUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Kafka.Brokers = strs.SplitList(cfg.Kafka.Brokers, ",")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field requirements such as a backend's connection
// settings being present.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging.format %q: must be json or text", c.Logging.Format)
	}
	if c.Calculation.BatchConcurrency < 1 {
		return errors.New("calculation.batch_concurrency must be at least 1")
	}
	if c.Calculation.MaxBatchSize < 1 {
		return errors.New("calculation.max_batch_size must be at least 1")
	}

	switch c.Usage.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis usage backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres usage backend")
		}
	default:
		return fmt.Errorf("invalid usage.backend %q", c.Usage.Backend)
	}

	switch c.Audit.Backend {
	case BackendNone, BackendMemory:
	case BackendKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return errors.New("kafka.brokers and kafka.topic are required for the kafka audit backend")
		}
	default:
		return fmt.Errorf("invalid audit.backend %q", c.Audit.Backend)
	}
	return nil
}
