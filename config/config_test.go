package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

type field struct {
	name      string
	got, want any
}

func checkFields(t *testing.T, fields []field) {
	t.Helper()
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
		}
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupMap(nil))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	checkFields(t, []field{
		{"PlanAnalysisURL", cfg.PlanAnalysisURL, "http://localhost:8000"},
		{"PlanAnalysisTimeout", cfg.PlanAnalysisTimeout, 60 * time.Second},
		{"PlanAnalysisRetries", cfg.PlanAnalysisRetries, 2},
		{"PublicBaseURL", cfg.PublicBaseURL, "http://127.0.0.1:8090"},
		{"PlanDefaultHeight", cfg.PlanDefaultHeight, 3.0},
		{"SessionTTL", cfg.SessionTTL, time.Hour},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogColor", cfg.LogColor, true},
		{"SeedDemo", cfg.SeedDemo, false},
	})
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupMap(map[string]string{
		"PLAN_ANALYSIS_URL":     "http://parser:8000",
		"PLAN_ANALYSIS_TIMEOUT": "90s",
		"PLAN_ANALYSIS_RETRIES": "0",
		"PUBLIC_BASE_URL":       "https://quotes.example.com/",
		"PLAN_DEFAULT_HEIGHT":   "2.7",
		"SESSION_TTL":           "15m",
		"LOG_LEVEL":             "debug",
		"LOG_COLOR":             "false",
		"SEED_DEMO":             "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	checkFields(t, []field{
		{"PlanAnalysisURL", cfg.PlanAnalysisURL, "http://parser:8000"},
		{"PlanAnalysisTimeout", cfg.PlanAnalysisTimeout, 90 * time.Second},
		{"PlanAnalysisRetries", cfg.PlanAnalysisRetries, 0},
		{"PublicBaseURL", cfg.PublicBaseURL, "https://quotes.example.com"},
		{"PlanDefaultHeight", cfg.PlanDefaultHeight, 2.7},
		{"SessionTTL", cfg.SessionTTL, 15 * time.Minute},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"LogColor", cfg.LogColor, false},
		{"SeedDemo", cfg.SeedDemo, true},
	})
}

func TestFromEnv_InvalidValuesNameTheVariable(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PLAN_ANALYSIS_TIMEOUT", "soon"},
		{"PLAN_ANALYSIS_RETRIES", "-1"},
		{"PLAN_DEFAULT_HEIGHT", "tall"},
		{"SESSION_TTL", "0s"},
		{"LOG_COLOR", "maybe"},
		{"SEED_DEMO", "yes please"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := FromEnv(lookupMap(map[string]string{tt.key: tt.value}))
			if err == nil {
				t.Fatalf("FromEnv(%s=%q) succeeded, want error", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PLAN_ANALYSIS_URL=http://from-file:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv does not override variables that are already set.
	t.Setenv("PLAN_ANALYSIS_URL", "")
	os.Unsetenv("PLAN_ANALYSIS_URL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PlanAnalysisURL != "http://from-file:9000" {
		t.Errorf("PlanAnalysisURL = %q", cfg.PlanAnalysisURL)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
