// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Sim        SimConfig        `yaml:"sim"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	// LEDPin is the PB pin driving the LED (optional, defaults to PB1;
	// PB4 is the other variant seen in the field).
	LEDPin *int `yaml:"led_pin"`

	// RearmStrategy selects how the interrupt handler re-enables the
	// notification path: "safe" or "direct".
	RearmStrategy string `yaml:"rearm_strategy"`

	WakeIntervalMs int `yaml:"wake_interval_ms"`

	BatchSize       int `yaml:"batch_size"`
	EscalationLimit int `yaml:"escalation_limit"`

	PowerOnLightMs     int `yaml:"power_on_light_ms"`
	BlinkOnMs          int `yaml:"blink_on_ms"`
	BlinkOffMs         int `yaml:"blink_off_ms"`
	PreShutdownPauseMs int `yaml:"pre_shutdown_pause_ms"`
	ShutdownLightMs    int `yaml:"shutdown_light_ms"`
}

// ---- SIM ----

type SimConfig struct {
	// TimeScale accelerates the simulated clock; 1 is real time.
	TimeScale int `yaml:"time_scale"`

	// TraceFile receives the CBOR event trace (optional).
	TraceFile string `yaml:"trace_file"`
}

// ---- DURATION HELPERS ----

func (c ControllerConfig) WakeInterval() time.Duration {
	return time.Duration(c.WakeIntervalMs) * time.Millisecond
}

func (c ControllerConfig) PowerOnLight() time.Duration {
	return time.Duration(c.PowerOnLightMs) * time.Millisecond
}

func (c ControllerConfig) BlinkOn() time.Duration {
	return time.Duration(c.BlinkOnMs) * time.Millisecond
}

func (c ControllerConfig) BlinkOff() time.Duration {
	return time.Duration(c.BlinkOffMs) * time.Millisecond
}

func (c ControllerConfig) PreShutdownPause() time.Duration {
	return time.Duration(c.PreShutdownPauseMs) * time.Millisecond
}

func (c ControllerConfig) ShutdownLight() time.Duration {
	return time.Duration(c.ShutdownLightMs) * time.Millisecond
}

// Load reads and parses a config file. Validate and Normalize are the
// caller's job, in that order.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
