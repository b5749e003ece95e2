package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig defines settings for the fixed-window rate limiter.
// When Enabled is false or no Redis client is available the limiter is a
// no-op. Limit is the number of requests allowed per Window for one key.
// KeyStrategy decides which request attributes form the key; Prefix
// namespaces the Redis keys.
type RateLimitConfig struct {
	Enabled     bool
	Limit       int
	Window      time.Duration
	KeyStrategy string
	Prefix      string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig. Defaults are used when variables are unset; nonsensical
// values are clamped so the limiter never divides by zero or blocks
// everything.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Limit:       envInt("RATE_LIMIT_LIMIT", 60),
		Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
		KeyStrategy: envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
