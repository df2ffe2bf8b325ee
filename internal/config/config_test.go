package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 16.4575, cfg.Fallback.Lat)
	assert.Equal(t, 80.5354, cfg.Fallback.Lng)
}

func TestLoad_PortGetsColonPrefix(t *testing.T) {
	t.Setenv("NAVIGATION_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_KafkaBrokerList(t *testing.T) {
	t.Setenv("NAVIGATION_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_FallbackOverride(t *testing.T) {
	t.Setenv("NAVIGATION_FALLBACK_LAT", "17.3850")
	t.Setenv("NAVIGATION_FALLBACK_LNG", "78.4867")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 17.3850, cfg.Fallback.Lat)
	assert.Equal(t, 78.4867, cfg.Fallback.Lng)
}
