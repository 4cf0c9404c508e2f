// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/neptuneng/fieldkit/internal/log"
)

// ParseString reads a string from an environment variable or returns the
// default value. The source (environment or default) is logged at debug.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		logEnv(logger, key, v)
		return v
	}
	logDefault(logger, key, defaultValue)
	return defaultValue
}

// ParseInt reads an integer from an environment variable or returns the
// default value. Parse errors fall back to the default.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			logEnv(logger, key, v)
			return i
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment, using default")
	}
	logDefault(logger, key, strconv.Itoa(defaultValue))
	return defaultValue
}

// ParseBool reads a boolean from an environment variable or returns the
// default value. Accepts the forms strconv.ParseBool accepts.
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			logEnv(logger, key, v)
			return b
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment, using default")
	}
	logDefault(logger, key, strconv.FormatBool(defaultValue))
	return defaultValue
}

// ParseDuration reads a duration (Go syntax, e.g. "500ms") from an
// environment variable or returns the default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			logEnv(logger, key, v)
			return d
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment, using default")
	}
	logDefault(logger, key, defaultValue.String())
	return defaultValue
}

// ParseFloat reads a float from an environment variable or returns the
// default value.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			logEnv(logger, key, v)
			return f
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", defaultValue).
			Msg("invalid float in environment, using default")
	}
	logDefault(logger, key, strconv.FormatFloat(defaultValue, 'g', -1, 64))
	return defaultValue
}

func logEnv(logger zerolog.Logger, key, value string) {
	logger.Debug().
		Str("key", key).
		Str("value", value).
		Str("source", "environment").
		Msg("using environment variable")
}

func logDefault(logger zerolog.Logger, key, value string) {
	logger.Debug().
		Str("key", key).
		Str("default", value).
		Str("source", "default").
		Msg("using default value")
}
