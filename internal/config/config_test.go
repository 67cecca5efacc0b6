package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OSC_RECV_PORT", "OSC_SEND_PORT", "SENSOR_URL", "SENSOR_TIMEOUT", "METRICS_ADDR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12001, cfg.RecvPort)
	assert.Equal(t, 12000, cfg.SendPort)
	assert.Equal(t, "http://192.168.1.12", cfg.SensorURL)
	assert.Equal(t, 5*time.Second, cfg.SensorTimeout)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OSC_RECV_PORT", "9001")
	t.Setenv("OSC_SEND_PORT", "9000")
	t.Setenv("SENSOR_URL", "http://10.0.0.7")
	t.Setenv("SENSOR_TIMEOUT", "750ms")
	t.Setenv("METRICS_ADDR", ":2112")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.RecvPort)
	assert.Equal(t, 9000, cfg.SendPort)
	assert.Equal(t, "http://10.0.0.7", cfg.SensorURL)
	assert.Equal(t, 750*time.Millisecond, cfg.SensorTimeout)
	assert.Equal(t, ":2112", cfg.MetricsAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("bad_port", func(t *testing.T) {
		t.Setenv("OSC_RECV_PORT", "not-a-port")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad_timeout", func(t *testing.T) {
		t.Setenv("SENSOR_TIMEOUT", "soonish")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "shouting"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}
