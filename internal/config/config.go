// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates service configuration using
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in ascending order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/voltpay-reader/config.yaml",
	"/etc/voltpay-reader/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the root configuration for the reader service.
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	NATS      NATSConfig      `koanf:"nats"`
	Consumer  ConsumerConfig  `koanf:"consumer"`
	Requeue   RequeueConfig   `koanf:"requeue"`
	Retention RetentionConfig `koanf:"retention"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ServerConfig controls the HTTP server exposing health, metrics and
// the transaction lookup endpoint.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
}

// DatabaseConfig controls the Postgres connection.
type DatabaseConfig struct {
	URL            string        `koanf:"url" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
}

// NATSConfig controls the JetStream connection shared by the primary
// consumer and the dead-letter requeue path.
type NATSConfig struct {
	URL             string        `koanf:"url" validate:"required"`
	StreamName      string        `koanf:"stream_name" validate:"required"`
	ReadTopic       string        `koanf:"read_topic" validate:"required"`
	DeadLetterTopic string        `koanf:"dead_letter_topic" validate:"required,nefield=ReadTopic"`
	QueueGroup      string        `koanf:"queue_group" validate:"required"`
	DurableName     string        `koanf:"durable_name" validate:"required"`
	SubscriberCount int           `koanf:"subscriber_count" validate:"min=1"`
	AckWait         time.Duration `koanf:"ack_wait" validate:"min=1s"`
	MaxDeliver      int           `koanf:"max_deliver" validate:"min=1"`
	MaxAge          time.Duration `koanf:"max_age" validate:"min=1m"`
	CloseTimeout    time.Duration `koanf:"close_timeout" validate:"min=1s"`
	MaxReconnects   int           `koanf:"max_reconnects"`
	ReconnectWait   time.Duration `koanf:"reconnect_wait"`
}

// ConsumerConfig controls the primary read-topic consumer.
type ConsumerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	RetryCount    int           `koanf:"retry_count" validate:"min=0"`
	RetryInterval time.Duration `koanf:"retry_interval" validate:"min=1ms"`
}

// RequeueConfig controls the dead-letter requeue consumer. It must not
// run alongside the primary consumer in the same process.
type RequeueConfig struct {
	Enabled       bool          `koanf:"enabled"`
	RetryCount    int           `koanf:"retry_count" validate:"min=0"`
	RetryInterval time.Duration `koanf:"retry_interval" validate:"min=1ms"`
}

// RetentionConfig controls the periodic ledger sweep.
type RetentionConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Window        time.Duration `koanf:"window" validate:"min=1h"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"min=1m"`
}

// defaultConfig returns a Config with all defaults applied. These are
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			URL:            "",
			ConnectTimeout: 10 * time.Second,
		},
		NATS: NATSConfig{
			URL:             "nats://127.0.0.1:4222",
			StreamName:      "VOLTPAY_READ",
			ReadTopic:       "read",
			DeadLetterTopic: "read-dlt",
			QueueGroup:      "readers",
			DurableName:     "reader",
			SubscriberCount: 4,
			AckWait:         30 * time.Second,
			MaxDeliver:      3,
			MaxAge:          48 * time.Hour,
			CloseTimeout:    30 * time.Second,
			MaxReconnects:   -1, // reconnect forever
			ReconnectWait:   2 * time.Second,
		},
		Consumer: ConsumerConfig{
			Enabled:       true,
			RetryCount:    1,
			RetryInterval: time.Second,
		},
		Requeue: RequeueConfig{
			Enabled:       false,
			RetryCount:    1,
			RetryInterval: 500 * time.Millisecond,
		},
		Retention: RetentionConfig{
			Enabled:       true,
			Window:        7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, honoring
// the CONFIG_PATH override, or an empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps flat environment variable names to config paths.
// Unmapped variables are ignored so unrelated process environment does
// not leak into the configuration.
var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"database_url":             "database.url",
	"database_connect_timeout": "database.connect_timeout",

	"nats_url":               "nats.url",
	"nats_stream_name":       "nats.stream_name",
	"nats_read_topic":        "nats.read_topic",
	"nats_dead_letter_topic": "nats.dead_letter_topic",
	"nats_queue_group":       "nats.queue_group",
	"nats_durable_name":      "nats.durable_name",
	"nats_subscribers":       "nats.subscriber_count",
	"nats_ack_wait":          "nats.ack_wait",
	"nats_max_deliver":       "nats.max_deliver",
	"nats_max_age":           "nats.max_age",
	"nats_close_timeout":     "nats.close_timeout",
	"nats_max_reconnects":    "nats.max_reconnects",
	"nats_reconnect_wait":    "nats.reconnect_wait",

	"consumer_enabled":        "consumer.enabled",
	"consumer_retry_count":    "consumer.retry_count",
	"consumer_retry_interval": "consumer.retry_interval",

	"requeue_enabled":        "requeue.enabled",
	"requeue_retry_count":    "requeue.retry_count",
	"requeue_retry_interval": "requeue.retry_interval",

	"retention_enabled":        "retention.enabled",
	"retention_window":         "retention.window",
	"retention_sweep_interval": "retention.sweep_interval",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Validate checks field constraints plus the cross-section invariants
// that tags cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}

	// Exactly one consumption role per process. A process that both
	// consumes the read topic and republishes its dead letters would
	// feed its own retry loop.
	if c.Consumer.Enabled && c.Requeue.Enabled {
		return fmt.Errorf("consumer.enabled and requeue.enabled are mutually exclusive")
	}
	if !c.Consumer.Enabled && !c.Requeue.Enabled {
		return fmt.Errorf("one of consumer.enabled or requeue.enabled must be set")
	}

	// Redeliveries can land as long as the stream holds the message.
	// The ledger must remember at least that long to suppress them.
	if c.Retention.Enabled && c.Retention.Window <= c.NATS.MaxAge {
		return fmt.Errorf("retention.window (%s) must exceed nats.max_age (%s)", c.Retention.Window, c.NATS.MaxAge)
	}

	return nil
}
