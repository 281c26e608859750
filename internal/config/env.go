package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SMARTOP_"

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts "true", "1", "yes" as true and "false", "0", "no" as
// false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// applyEnvOverrides overlays SMARTOP_* variables; unparsable values are ignored.
func applyEnvOverrides(c *Config) {
	c.ThreadMultiplier = getEnvInt("THREAD_MULTIPLIER", c.ThreadMultiplier)
	c.Cores = getEnvInt("CORES", c.Cores)
	c.Granularity = getEnvInt("GRANULARITY", c.Granularity)
	c.MaxNodes = getEnvInt("MAX_NODES", c.MaxNodes)
	c.SparsityThreshold = getEnvFloat("SPARSITY_THRESHOLD", c.SparsityThreshold)
	c.Tolerance = getEnvFloat("TOLERANCE", c.Tolerance)
	c.Policy = getEnvString("POLICY", c.Policy)
	c.Factory = getEnvString("FACTORY", c.Factory)
	c.Engine = getEnvString("ENGINE", c.Engine)
	c.Adapter = getEnvString("ADAPTER", c.Adapter)
	c.DynamicSplit = getEnvBool("DYNAMIC_SPLIT", c.DynamicSplit)
	c.Workers = getEnvList("WORKERS", c.Workers)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
}
