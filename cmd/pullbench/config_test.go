package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("When no config file is given", func(t *testing.T) {
		cfg, err := loadConfig("")

		t.Run("Then the defaults describe a timer benchmark", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, sourceTimer, cfg.Source.Kind)
			assert.Equal(t, 100, cfg.Items)
			assert.Equal(t, 5*time.Millisecond, cfg.Source.Timer.Period)
		})
	})

	t.Run("When a config file overrides some settings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pullbench.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
items: 20
consumer_delay: 15ms
source:
  kind: kafka
  kafka:
    brokers: [localhost:9092]
    topic: events
    group_id: pullbench
    retry_delay: 1s
`), 0o600))

		cfg, err := loadConfig(path)

		t.Run("Then the overrides are applied over the defaults", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, 20, cfg.Items)
			assert.Equal(t, 15*time.Millisecond, cfg.ConsumerDelay)
			assert.Equal(t, sourceKafka, cfg.Source.Kind)
			assert.Equal(t, []string{"localhost:9092"}, cfg.Source.Kafka.Brokers)
			assert.Equal(t, time.Second, cfg.Source.Kafka.RetryDelay)
			assert.Equal(t, uint(3), cfg.Source.Kafka.RetryAttempts)
			assert.Equal(t, "pullbench", cfg.Activity)
		})
	})

	t.Run("When the config file is missing", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		t.Run("Then an error is returned", func(t *testing.T) {
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	})

	for _, test := range []struct {
		name string
		yaml string
	}{
		{name: "unknown source kind", yaml: "source: {kind: carrier-pigeon}"},
		{name: "no items", yaml: "items: 0"},
		{name: "cron without a pattern", yaml: "source: {kind: cron}"},
		{name: "redis without channels", yaml: "source: {kind: redis}"},
		{name: "kafka without a topic", yaml: "source: {kind: kafka, kafka: {brokers: [b:9092]}}"},
		{name: "timer without a period", yaml: "source: {kind: timer, timer: {period: 0s}}"},
	} {
		t.Run("When the config has "+test.name, func(t *testing.T) {
			_, err := parseConfig([]byte(test.yaml))

			t.Run("Then it is rejected", func(t *testing.T) {
				assert.ErrorIs(t, err, errInvalidConfig)
			})
		})
	}

	t.Run("When the config is not valid YAML", func(t *testing.T) {
		_, err := parseConfig([]byte("items: [oops"))

		t.Run("Then a parse error is returned", func(t *testing.T) {
			assert.ErrorContains(t, err, "parse config")
		})
	})
}
