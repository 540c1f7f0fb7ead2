package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	ResetForTest(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxApplications != 50 {
		t.Errorf("MaxApplications = %d, want 50", cfg.MaxApplications)
	}
	if cfg.MaxSearchTime != time.Hour {
		t.Errorf("MaxSearchTime = %v, want 1h", cfg.MaxSearchTime)
	}
	if cfg.DedupWindow != 48*time.Hour {
		t.Errorf("DedupWindow = %v, want 48h", cfg.DedupWindow)
	}
	if cfg.MinSalaryYearly != 60000 {
		t.Errorf("MinSalaryYearly = %d, want 60000", cfg.MinSalaryYearly)
	}
	if !cfg.UseStoredResume {
		t.Error("UseStoredResume should default to true")
	}
	if cfg.DBPath != "easyapply.sqlite" {
		t.Errorf("DBPath = %q, want easyapply.sqlite", cfg.DBPath)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Positions:   []string{"golang"},
		Locations:   []string{"London"},
		PhoneNumber: "07700900000",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"complete", func(c *Config) {}, false},
		{"no positions", func(c *Config) { c.Positions = nil }, true},
		{"no locations", func(c *Config) { c.Locations = nil }, true},
		{"no phone number", func(c *Config) { c.PhoneNumber = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetPersistsAndReloads(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("phone_number", "07700900123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Set("salary", "£65,000"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := Get("phone_number")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "07700900123" {
		t.Errorf("phone_number = %q after Set", got)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SalaryText != "£65,000" {
		t.Errorf("SalaryText = %q, want the saved value", cfg.SalaryText)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("username", "nobody"); err == nil {
		t.Error("credentials must not be settable through the config file")
	}
}
