package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Google: GoogleConfig{
			RedirectURL: "http://localhost:8503/auth/callback",
			TokenFile:   "google_oauth_token.json",
			StateFile:   ".oauth_state",
			CalendarID:  "primary",
			Timezone:    "Europe/Paris",
		},
		Scheduling: SchedulingConfig{StartHour: 9, EndHour: 20, DefaultInterviewer: "Marie Dupont"},
		Server:     ServerConfig{Host: "localhost", Port: "8503"},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "csv"},
			MaxFileSize:      10 * 1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "default format not in supported formats",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.App.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "inverted scheduling window",
			mutate:  func(c *Config) { c.Scheduling.StartHour = 20; c.Scheduling.EndHour = 9 },
			wantErr: true,
		},
		{
			name:    "end hour past midnight",
			mutate:  func(c *Config) { c.Scheduling.EndHour = 25 },
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Google.Timezone = "Mars/Olympus" },
			wantErr: true,
		},
		{
			name:    "missing redirect URL",
			mutate:  func(c *Config) { c.Google.RedirectURL = "" },
			wantErr: true,
		},
		{
			name:    "missing token file path",
			mutate:  func(c *Config) { c.Google.TokenFile = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	loc := cfg.Location()
	if loc == nil || loc == time.UTC {
		t.Errorf("expected Europe/Paris location, got %v", loc)
	}

	cfg.Google.Timezone = "not-a-zone"
	if got := cfg.Location(); got != time.UTC {
		t.Errorf("invalid timezone should fall back to UTC, got %v", got)
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("CVINTAKE_SERVER_APIKEYS", "key-a, key-b ,key-c")
	t.Setenv("GOOGLE_CLIENT_ID", "env-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-client-secret")

	cfg := validConfig()
	cfg.applyFallbacks()

	want := []string{"key-a", "key-b", "key-c"}
	if len(cfg.Server.APIKeys) != len(want) {
		t.Fatalf("APIKeys = %v, want %v", cfg.Server.APIKeys, want)
	}
	for i := range want {
		if cfg.Server.APIKeys[i] != want[i] {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Server.APIKeys[i], want[i])
		}
	}

	if cfg.Google.ClientID != "env-client-id" {
		t.Errorf("ClientID = %q, want env fallback", cfg.Google.ClientID)
	}
	if cfg.Google.ClientSecret != "env-client-secret" {
		t.Errorf("ClientSecret = %q, want env fallback", cfg.Google.ClientSecret)
	}
	if cfg.Observability.ServiceInstance == "" {
		t.Error("ServiceInstance should be generated")
	}
}
