// Package config loads and saves pidlab run configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ctrlkit/pid"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultSetpoint = 1.0
	DefaultKp       = 2.0
	DefaultKi       = 0.5
	DefaultKd       = 0.1
	DefaultUMin     = -10.0
	DefaultUMax     = 10.0
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Loop       LoopConfig       `yaml:"loop"`
	Plant      PlantConfig      `yaml:"plant"`
}

type ControllerConfig struct {
	Kp   float64 `yaml:"kp"`
	Ki   float64 `yaml:"ki"`
	Kd   float64 `yaml:"kd"`
	Kaw  float64 `yaml:"kaw"`
	UMin float64 `yaml:"u_min"`
	UMax float64 `yaml:"u_max"`
}

// PIDConfig converts the yaml block into the core controller
// configuration; validity is the controller's to judge at bind time.
func (c ControllerConfig) PIDConfig() pid.Config {
	return pid.Config{
		Kp:   c.Kp,
		Ki:   c.Ki,
		Kd:   c.Kd,
		Kaw:  c.Kaw,
		UMin: c.UMin,
		UMax: c.UMax,
	}
}

type LoopConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Setpoint   float64 `yaml:"setpoint"`
	Plant      string  `yaml:"plant"`
	Integrator string  `yaml:"integrator"`
}

type PlantConfig struct {
	Gain      float64 `yaml:"gain"`
	Tau       float64 `yaml:"tau"`
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Length    float64 `yaml:"length"`
	Gravity   float64 `yaml:"gravity"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Kp:   DefaultKp,
			Ki:   DefaultKi,
			Kd:   DefaultKd,
			UMin: DefaultUMin,
			UMax: DefaultUMax,
		},
		Loop: LoopConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Setpoint:   DefaultSetpoint,
			Plant:      "firstorder",
			Integrator: "rk4",
		},
		Plant: PlantConfig{
			Gain:      2.0,
			Tau:       1.5,
			Mass:      1.0,
			Stiffness: 10.0,
			Damping:   0.5,
			Length:    1.0,
			Gravity:   9.81,
		},
	}
}

// Load reads a yaml config, overlaying the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}
