package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvironment(brokers ...string) EnvironmentConfig {
	var environment EnvironmentConfig
	environment.SetDefaults()
	environment.Kafka.Brokers = brokers
	return environment
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var cfg Config
	cfg.SetDefaults()
	cfg.Upsert("local", testEnvironment("localhost:9092"))
	cfg.Upsert("prod", testEnvironment("kafka-0.prod:9092", "kafka-1.prod:9092"))
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"local", "prod"}, loaded.EnvironmentNames())
	assert.Equal(t, []string{"localhost:9092"}, loaded.Environments["local"].Kafka.Brokers)
	assert.Equal(t, []string{"kafka-0.prod:9092", "kafka-1.prod:9092"}, loaded.Environments["prod"].Kafka.Brokers)

	// The first stored environment became active, the second did not.
	assert.True(t, loaded.Environments["local"].Active)
	assert.False(t, loaded.Environments["prod"].Active)
}

func TestLoadMissingFile(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Empty(t, loaded.Environments)
}

func TestActivate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Upsert("local", testEnvironment("localhost:9092"))
	cfg.Upsert("prod", testEnvironment("kafka-0.prod:9092"))

	require.NoError(t, cfg.Activate("prod"))
	assert.False(t, cfg.Environments["local"].Active)
	assert.True(t, cfg.Environments["prod"].Active)

	// Switching back deactivates prod again.
	require.NoError(t, cfg.Activate("local"))
	assert.True(t, cfg.Environments["local"].Active)
	assert.False(t, cfg.Environments["prod"].Active)

	assert.Error(t, cfg.Activate("staging"))
}

func TestUpsertKeepsActiveFlag(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Upsert("local", testEnvironment("localhost:9092"))
	require.True(t, cfg.Environments["local"].Active)

	// Re-configuring the same environment must not drop its active flag.
	cfg.Upsert("local", testEnvironment("localhost:9093"))
	assert.True(t, cfg.Environments["local"].Active)
	assert.Equal(t, []string{"localhost:9093"}, cfg.Environments["local"].Kafka.Brokers)
}

func TestEnvironmentResolution(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	_, err := cfg.Environment("")
	assert.Error(t, err, "no environments configured")

	cfg.Upsert("local", testEnvironment("localhost:9092"))
	cfg.Upsert("prod", testEnvironment("kafka-0.prod:9092"))

	environment, err := cfg.Environment("")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, environment.Kafka.Brokers)

	environment, err = cfg.Environment("prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-0.prod:9092"}, environment.Kafka.Brokers)

	_, err = cfg.Environment("staging")
	assert.Error(t, err)
}

func TestValidateRejectsMultipleActive(t *testing.T) {
	cfg := Config{Environments: map[string]EnvironmentConfig{}}
	cfg.SetDefaults()

	first := testEnvironment("localhost:9092")
	first.Active = true
	second := testEnvironment("localhost:9093")
	second.Active = true
	cfg.Environments["a"] = first
	cfg.Environments["b"] = second

	assert.Error(t, cfg.Validate())
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var cfg Config
	cfg.SetDefaults()
	cfg.Upsert("local", testEnvironment("localhost:9092"))
	require.NoError(t, Save(path, cfg))

	require.NoError(t, os.Setenv("KCLI_LOGGER_LEVEL", "debug"))
	defer os.Unsetenv("KCLI_LOGGER_LEVEL")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Logger.Level)
}
