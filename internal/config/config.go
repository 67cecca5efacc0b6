// Package config loads the node configuration from environment variables,
// with an optional .env file for development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the node binary needs at startup.
type Config struct {
	// UDP ports shared with the Max patcher.
	RecvPort int // OSC_RECV_PORT, default 12001
	SendPort int // OSC_SEND_PORT, default 12000

	// Sensor endpoint.
	SensorURL     string        // SENSOR_URL, default http://192.168.1.12
	SensorTimeout time.Duration // SENSOR_TIMEOUT, default 5s

	// Observability.
	MetricsAddr string // METRICS_ADDR, empty disables the metrics listener
	LogLevel    string // LOG_LEVEL, default info
}

// Load reads the configuration from the environment. A missing .env file is
// fine; system environment variables always apply.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	if cfg.RecvPort, err = envInt("OSC_RECV_PORT", 12001); err != nil {
		return nil, err
	}
	if cfg.SendPort, err = envInt("OSC_SEND_PORT", 12000); err != nil {
		return nil, err
	}
	cfg.SensorURL = envString("SENSOR_URL", "http://192.168.1.12")
	if cfg.SensorTimeout, err = envDuration("SENSOR_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	cfg.MetricsAddr = envString("METRICS_ADDR", "")
	cfg.LogLevel = envString("LOG_LEVEL", "info")

	return cfg, nil
}

// Level maps the configured log level onto a slog.Level. Unknown values fall
// back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
