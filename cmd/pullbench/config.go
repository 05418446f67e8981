package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	sourceTimer = "timer"
	sourceCron  = "cron"
	sourceRedis = "redis"
	sourceKafka = "kafka"
)

var errInvalidConfig = errors.New("invalid config")

type config struct {
	Activity      string        `yaml:"activity"`
	Items         int           `yaml:"items"`
	Timeout       time.Duration `yaml:"timeout"`
	ConsumerDelay time.Duration `yaml:"consumer_delay"`
	MetricsAddr   string        `yaml:"metrics_addr"`
	PlotHeight    int           `yaml:"plot_height"`
	Source        sourceConfig  `yaml:"source"`
}

type sourceConfig struct {
	Kind  string      `yaml:"kind"`
	Timer timerConfig `yaml:"timer"`
	Cron  cronConfig  `yaml:"cron"`
	Redis redisConfig `yaml:"redis"`
	Kafka kafkaConfig `yaml:"kafka"`
}

type timerConfig struct {
	Delay  time.Duration `yaml:"delay"`
	Period time.Duration `yaml:"period"`
}

type cronConfig struct {
	Pattern string `yaml:"pattern"`
}

type redisConfig struct {
	Addr     string   `yaml:"addr"`
	Channels []string `yaml:"channels"`
}

type kafkaConfig struct {
	Brokers       []string      `yaml:"brokers"`
	Topic         string        `yaml:"topic"`
	GroupID       string        `yaml:"group_id"`
	RetryAttempts uint          `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

func defaultConfig() config {
	return config{
		Activity:    "pullbench",
		Items:       100,
		Timeout:     time.Minute,
		MetricsAddr: ":2122",
		PlotHeight:  12,
		Source: sourceConfig{
			Kind: sourceTimer,
			Timer: timerConfig{
				Delay:  10 * time.Millisecond,
				Period: 5 * time.Millisecond,
			},
			Redis: redisConfig{
				Addr: "localhost:6379",
			},
			Kafka: kafkaConfig{
				RetryAttempts: 3,
				RetryDelay:    100 * time.Millisecond,
			},
		},
	}
}

// loadConfig reads a YAML config file over the defaults. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, cfg.validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (config, error) {
	cfg := defaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.Items <= 0 {
		return fmt.Errorf("%w: items must be positive, got %d", errInvalidConfig, c.Items)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", errInvalidConfig)
	}

	switch c.Source.Kind {
	case sourceTimer:
		if c.Source.Timer.Period <= 0 {
			return fmt.Errorf("%w: timer period must be positive", errInvalidConfig)
		}
	case sourceCron:
		if c.Source.Cron.Pattern == "" {
			return fmt.Errorf("%w: cron pattern is required", errInvalidConfig)
		}
	case sourceRedis:
		if len(c.Source.Redis.Channels) == 0 {
			return fmt.Errorf("%w: at least one redis channel is required", errInvalidConfig)
		}
	case sourceKafka:
		if len(c.Source.Kafka.Brokers) == 0 || c.Source.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka brokers and topic are required", errInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", errInvalidConfig, c.Source.Kind)
	}

	return nil
}
