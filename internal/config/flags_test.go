package config

import (
	"errors"
	"flag"
	"testing"
)

func TestOverridesApplyOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := BindFlags(fs)
	if err := fs.Parse([]string{"-strategy", "Proximity", "-cluster", "4", "-markers"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := Default()
	cfg.Radius = 12
	if err := o.Apply(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy != "proximity" || cfg.ClusterSize != 4 || !cfg.Markers {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Radius != 12 || cfg.Mode != ModePreview || !cfg.LogScore {
		t.Errorf("unset flags changed the config: %+v", cfg)
	}
}

func TestOverridesApplyValidates(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := BindFlags(fs)
	if err := fs.Parse([]string{"-cluster", "0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Apply(Default()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Apply() error = %v, want ErrInvalidConfig", err)
	}
}
