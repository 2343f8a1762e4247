package config

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/multierr"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		shouldError bool
		errCount    int
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.DatabaseDriver != "postgres" || cfg.Port != "8080" {
					t.Errorf("unexpected defaults: %+v", cfg)
				}
				if cfg.LogLevel != zerolog.InfoLevel || cfg.TokenCost != bcrypt.DefaultCost {
					t.Errorf("unexpected defaults: %+v", cfg)
				}
				if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
					t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
				}
			},
		},
		{
			name: "Overrides",
			env: map[string]string{
				"DATABASE_DRIVER": "sqlite3",
				"DATABASE_URL":    "file::memory:",
				"LOG_LEVEL":       "debug",
				"TOKEN_COST":      "4",
				"ALLOWED_ORIGINS": "https://a.example, https://b.example,",
				"BASE_URL":        "https://yuruly.example/",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.DatabaseDriver != "sqlite3" || cfg.LogLevel != zerolog.DebugLevel || cfg.TokenCost != 4 {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
					t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
				}
				if got := cfg.AdminURL("ev1", "tok"); got != "https://yuruly.example/event/ev1/admin/tok" {
					t.Errorf("unexpected admin url %q", got)
				}
				if got := cfg.EventURL("ev1"); got != "https://yuruly.example/event/ev1" {
					t.Errorf("unexpected event url %q", got)
				}
			},
		},
		{
			name:        "Invalid driver",
			env:         map[string]string{"DATABASE_DRIVER": "mysql"},
			shouldError: true,
			errCount:    1,
		},
		{
			name: "All problems reported",
			env: map[string]string{
				"DATABASE_DRIVER": "mysql",
				"LOG_LEVEL":       "loud",
				"TOKEN_COST":      "99",
			},
			shouldError: true,
			errCount:    3,
		},
	}

	keys := []string{"DATABASE_DRIVER", "DATABASE_URL", "LOG_LEVEL", "TOKEN_COST", "ALLOWED_ORIGINS", "BASE_URL", "PORT", "SESSION_SECRET"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, tt.env[k])
			}

			cfg, err := Load()
			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error, but got none")
				}
				if n := len(multierr.Errors(err)); n != tt.errCount {
					t.Errorf("expected %d errors but got %d: %v", tt.errCount, n, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
