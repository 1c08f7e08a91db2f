// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	PlanAnalysisURL     string
	PlanAnalysisTimeout time.Duration
	PlanAnalysisRetries int
	PublicBaseURL       string
	PlanDefaultHeight   float64
	SessionTTL          time.Duration
	LogLevel            string
	LogColor            bool
	SeedDemo            bool
}

func defaults() Config {
	return Config{
		PlanAnalysisURL:     "http://localhost:8000",
		PlanAnalysisTimeout: 60 * time.Second,
		PlanAnalysisRetries: 2,
		PublicBaseURL:       "http://127.0.0.1:8090",
		PlanDefaultHeight:   3.0,
		SessionTTL:          time.Hour,
		LogLevel:            "info",
		LogColor:            true,
		SeedDemo:            false,
	}
}

// Load reads the given .env files (default ".env") into the environment
// without overriding variables already set, then builds a Config. Missing
// env files are ignored.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) == 0 {
		envPath = []string{".env"}
	}
	for _, p := range envPath {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup. A variable that is set but does not
// parse is an error naming the variable.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := defaults()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	duration := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("config: %s: invalid duration %q", key, v))
			return
		}
		*dst = d
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("config: %s: invalid count %q", key, v))
			return
		}
		*dst = n
	}
	float := func(key string, dst *float64) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil || f <= 0 {
			errs = append(errs, fmt.Errorf("config: %s: invalid number %q", key, v))
			return
		}
		*dst = f
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: invalid boolean %q", key, v))
			return
		}
		*dst = b
	}

	str("PLAN_ANALYSIS_URL", &cfg.PlanAnalysisURL)
	duration("PLAN_ANALYSIS_TIMEOUT", &cfg.PlanAnalysisTimeout)
	integer("PLAN_ANALYSIS_RETRIES", &cfg.PlanAnalysisRetries)
	str("PUBLIC_BASE_URL", &cfg.PublicBaseURL)
	float("PLAN_DEFAULT_HEIGHT", &cfg.PlanDefaultHeight)
	duration("SESSION_TTL", &cfg.SessionTTL)
	str("LOG_LEVEL", &cfg.LogLevel)
	boolean("LOG_COLOR", &cfg.LogColor)
	boolean("SEED_DEMO", &cfg.SeedDemo)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &cfg, nil
}
