package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	QueueDriverSQS   = "sqs"
	QueueDriverKafka = "kafka"
)

type Config struct {
	Service    ServiceConfig    `envconfig:"SERVICE" yaml:"service"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE" yaml:"clickhouse"`
	Postgres   PostgresConfig   `envconfig:"POSTGRES" yaml:"postgres"`
	Valkey     ValkeyConfig     `envconfig:"VALKEY" yaml:"valkey"`
	Queue      QueueConfig      `envconfig:"QUEUE" yaml:"queue"`
	SQS        SQSConfig        `envconfig:"SQS" yaml:"sqs"`
	Kafka      KafkaConfig      `envconfig:"KAFKA" yaml:"kafka"`
	Consumer   ConsumerConfig   `envconfig:"CONSUMER" yaml:"consumer"`
	Scope      ScopeConfig      `envconfig:"SCOPE" yaml:"scope"`
	Heartbeat  HeartbeatConfig  `envconfig:"HEARTBEAT" yaml:"heartbeat"`
}

type ServiceConfig struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" yaml:"environment"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080" yaml:"api_port"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080" yaml:"host"`
	LogLevel    string `envconfig:"SERVICE_LOG_LEVEL" yaml:"log_level"`
}

type ClickHouseConfig struct {
	Host               string `envconfig:"CLICKHOUSE_HOST" yaml:"host"`
	Port               string `envconfig:"CLICKHOUSE_PORT" default:"9000" yaml:"port"`
	Database           string `envconfig:"CLICKHOUSE_DB" yaml:"database"`
	User               string `envconfig:"CLICKHOUSE_USER" default:"" yaml:"user"`
	Password           string `envconfig:"CLICKHOUSE_PASSWORD" default:"" yaml:"password"`
	UseTLS             bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false" yaml:"use_tls"`
	MaxOpenConns       int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5" yaml:"max_open_conns"`
	MaxIdleConns       int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2" yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600" yaml:"conn_max_lifetime_sec"`
}

type PostgresConfig struct {
	DSN      string `envconfig:"POSTGRES_DSN" yaml:"dsn"`
	MaxConns int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10" yaml:"max_conns"`
}

type ValkeyConfig struct {
	Host                string `envconfig:"VALKEY_HOST" yaml:"host"`
	Port                string `envconfig:"VALKEY_PORT" default:"6379" yaml:"port"`
	Password            string `envconfig:"VALKEY_PASSWORD" default:"" yaml:"password"`
	DB                  int    `envconfig:"VALKEY_DB" default:"0" yaml:"db"`
	IdempotencyEnabled  bool   `envconfig:"VALKEY_IDEMPOTENCY_ENABLED" default:"true" yaml:"idempotency_enabled"`
	IdempotencyFailOpen bool   `envconfig:"VALKEY_IDEMPOTENCY_FAIL_OPEN" default:"true" yaml:"idempotency_fail_open"`
	IdempotencyTTLSec   int    `envconfig:"VALKEY_IDEMPOTENCY_TTL_SEC" default:"86400" yaml:"idempotency_ttl_sec"`
}

// Addr returns the host:port pair, or "" when Valkey is not configured
func (c ValkeyConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return c.Host + ":" + c.Port
}

type QueueConfig struct {
	Driver string `envconfig:"QUEUE_DRIVER" default:"sqs" yaml:"driver"`
}

type SQSConfig struct {
	Endpoint string `envconfig:"SQS_ENDPOINT" yaml:"endpoint"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" yaml:"queue_url"`
	Region   string `envconfig:"SQS_REGION" default:"us-east-1" yaml:"region"`
}

type KafkaConfig struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" yaml:"brokers"`
	Topic         string   `envconfig:"KAFKA_TOPIC" default:"retail-telemetry" yaml:"topic"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"visapa-consumer" yaml:"consumer_group"`
}

type ConsumerConfig struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"2000" yaml:"batch_size_max"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"10" yaml:"batch_timeout_sec"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081" yaml:"health_check_port"`
	InsertRetries   int    `envconfig:"CONSUMER_INSERT_RETRIES" default:"2" yaml:"insert_retries"`
	RetryBackoffMs  int    `envconfig:"CONSUMER_RETRY_BACKOFF_MS" default:"500" yaml:"retry_backoff_ms"`
}

type ScopeConfig struct {
	CacheTTLSec int `envconfig:"SCOPE_CACHE_TTL_SEC" default:"60" yaml:"cache_ttl_sec"`
}

// CacheTTL returns the scope cache lifetime; zero disables caching
func (c ScopeConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

type HeartbeatConfig struct {
	TimeoutSec int `envconfig:"HEARTBEAT_TIMEOUT_SEC" default:"300" yaml:"timeout_sec"`
}

// Timeout returns how long a heartbeat counts as alive
func (c HeartbeatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Load reads the configuration from the environment. When CONFIG_PATH is set,
// the YAML file it names is applied on top, with ${VAR} references expanded.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	// Set defaults the overlay may have blanked
	cfg.Queue.Driver = strings.ToLower(cfg.Queue.Driver)
	if cfg.Queue.Driver == "" {
		cfg.Queue.Driver = QueueDriverSQS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Validate checks the settings every binary needs
func (c *Config) Validate() error {
	var errs []error
	if c.Service.Environment == "" {
		errs = append(errs, errors.New("SERVICE_ENVIRONMENT is required"))
	}
	if c.ClickHouse.Host == "" {
		errs = append(errs, errors.New("CLICKHOUSE_HOST is required"))
	}
	if c.ClickHouse.Database == "" {
		errs = append(errs, errors.New("CLICKHOUSE_DB is required"))
	}

	switch strings.ToLower(c.Queue.Driver) {
	case QueueDriverSQS:
		if c.SQS.QueueURL == "" {
			errs = append(errs, errors.New("SQS_QUEUE_URL is required for the sqs driver"))
		}
	case QueueDriverKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown QUEUE_DRIVER %q", c.Queue.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ValidateAPI checks the extra settings the API binary needs for scope
// resolution and heartbeats
func (c *Config) ValidateAPI() error {
	var errs []error
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required"))
	}
	if c.Valkey.Addr() == "" {
		errs = append(errs, errors.New("VALKEY_HOST is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid api config: %w", errors.Join(errs...))
	}
	return nil
}
