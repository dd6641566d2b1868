package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port == 0 {
		t.Error("Port should have a default")
	}
	if cfg.Iterations <= 0 {
		t.Error("Iterations should default to a positive value")
	}
	if cfg.SeedPtr() != nil && !cfg.SeedSet {
		t.Error("SeedPtr must be nil when SIM_SEED is unset")
	}
}

func TestLoadSeed(t *testing.T) {
	t.Setenv("SIM_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	seed := cfg.SeedPtr()
	if seed == nil || *seed != 42 {
		t.Errorf("SeedPtr() = %v, want 42", seed)
	}
}

func TestLoadRejectsBadSeed(t *testing.T) {
	t.Setenv("SIM_SEED", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-integer SIM_SEED")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing db path", func(c *Config) { c.DatabasePath = "" }, true},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, true},
		{"tiny smoothing window", func(c *Config) { c.SmoothingWindow = 1 }, true},
		{"bad cadence", func(c *Config) { c.EvolutionCadence = "hourly" }, true},
		{"negative retention", func(c *Config) { c.RetentionYears = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabasePath:     "./data/test.db",
				Iterations:       1000,
				SmoothingWindow:  10,
				RetentionYears:   10,
				EvolutionCadence: "daily",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
