package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Controller.Kp != DefaultKp {
		t.Errorf("expected kp %v, got %v", DefaultKp, cfg.Controller.Kp)
	}
	if cfg.Loop.Plant != "firstorder" {
		t.Errorf("unexpected default plant %q", cfg.Loop.Plant)
	}
	if cfg.Controller.UMin >= cfg.Controller.UMax {
		t.Error("default limits are inverted")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lab.yaml")

	body := []byte("controller:\n  kp: 7.5\n  kaw: 0.3\nloop:\n  plant: pendulum\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Controller.Kp != 7.5 {
		t.Errorf("expected kp 7.5, got %v", cfg.Controller.Kp)
	}
	if cfg.Controller.Kaw != 0.3 {
		t.Errorf("expected kaw 0.3, got %v", cfg.Controller.Kaw)
	}
	if cfg.Loop.Plant != "pendulum" {
		t.Errorf("expected plant pendulum, got %q", cfg.Loop.Plant)
	}
	// untouched fields keep their defaults
	if cfg.Loop.Dt != DefaultDt {
		t.Errorf("expected default dt, got %v", cfg.Loop.Dt)
	}
	if cfg.Controller.UMax != DefaultUMax {
		t.Errorf("expected default u_max, got %v", cfg.Controller.UMax)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lab.yaml")

	cfg := DefaultConfig()
	cfg.Controller.Ki = 1.25
	cfg.Loop.Setpoint = -3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPIDConfigConversion(t *testing.T) {
	cc := ControllerConfig{Kp: 1, Ki: 2, Kd: 3, Kaw: 4, UMin: -5, UMax: 5}
	pc := cc.PIDConfig()

	if pc.Kp != 1 || pc.Ki != 2 || pc.Kd != 3 || pc.Kaw != 4 || pc.UMin != -5 || pc.UMax != 5 {
		t.Errorf("conversion mismatch: %+v", pc)
	}
}
