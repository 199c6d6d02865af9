package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.KIS.Env != "prod" {
		t.Errorf("Expected KIS.Env to be prod, got %s", cfg.KIS.Env)
	}

	if cfg.KIS.AccountSuffix != "01" {
		t.Errorf("Expected KIS.AccountSuffix to be 01, got %s", cfg.KIS.AccountSuffix)
	}

	if cfg.Data.ProcessedDir != "processed" {
		t.Errorf("Expected processed dir default, got %s", cfg.Data.ProcessedDir)
	}
}

func TestLoadKISEnvAliases(t *testing.T) {
	tests := []struct {
		alias   string
		want    string
		wantErr bool
	}{
		{"prod", "prod", false},
		{"vps", "vps", false},
		{"paper", "vps", false},
		{"demo", "vps", false},
		{"sandbox", "vps", false},
		{"vts", "vps", false},
		{"banana", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			got, err := normalizeKISEnv(tt.alias)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeKISEnv(%q) error = %v, wantErr %v", tt.alias, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeKISEnv(%q) = %q, want %q", tt.alias, got, tt.want)
			}
		})
	}
}

func TestVirtualEnvSwitchesBaseURL(t *testing.T) {
	os.Setenv("KIS_ENV", "vps")
	defer os.Unsetenv("KIS_ENV")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !cfg.KIS.IsVirtual() {
		t.Error("Expected IsVirtual() to be true for vps env")
	}

	if cfg.KIS.BaseURL != "https://openapivts.koreainvestment.com:29443" {
		t.Errorf("Expected virtual base URL, got %s", cfg.KIS.BaseURL)
	}
}

func TestValidateDatabaseEnabledRequiresURL(t *testing.T) {
	os.Setenv("DATABASE_ENABLED", "true")
	os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("DATABASE_ENABLED")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DATABASE_ENABLED=true without DATABASE_URL, got nil")
	}
}

func TestRequireKIS(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireKIS(); err == nil {
		t.Error("Expected error for empty KIS credentials, got nil")
	}

	cfg.KIS = KISConfig{AppKey: "k", AppSecret: "s", AccountID: "12345678"}
	if err := cfg.RequireKIS(); err != nil {
		t.Errorf("RequireKIS() with full credentials failed: %v", err)
	}
}
