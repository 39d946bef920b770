// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// helper to build a controller config quickly
func ctrl(mutate func(*ControllerConfig)) *Config {
	cfg := &Config{}
	if mutate != nil {
		mutate(&cfg.Controller)
	}
	return cfg
}

func pin(v int) *int { return &v }

// ---- tests ----

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ControllerConfig)
	}{
		{"PinTooHigh", func(c *ControllerConfig) { c.LEDPin = pin(6) }},
		{"PinNegative", func(c *ControllerConfig) { c.LEDPin = pin(-1) }},
		{"UnknownStrategy", func(c *ControllerConfig) { c.RearmStrategy = "hope" }},
		{"OffGridInterval", func(c *ControllerConfig) { c.WakeIntervalMs = 300 }},
		{"NegativeInterval", func(c *ControllerConfig) { c.WakeIntervalMs = -1 }},
		{"NegativeBlink", func(c *ControllerConfig) { c.BlinkOnMs = -100 }},
		{"NegativeBatch", func(c *ControllerConfig) { c.BatchSize = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(ctrl(tt.mutate)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_AcceptedVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ControllerConfig)
	}{
		{"PB1Safe", func(c *ControllerConfig) { c.LEDPin = pin(1); c.RearmStrategy = "safe" }},
		{"PB4Direct", func(c *ControllerConfig) { c.LEDPin = pin(4); c.RearmStrategy = "direct" }},
		{"TwoSecondInterval", func(c *ControllerConfig) { c.WakeIntervalMs = 2000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(ctrl(tt.mutate)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	cfg := &Config{}
	Normalize(cfg)

	c := cfg.Controller
	if c.LEDPin == nil || *c.LEDPin != DefaultLEDPin {
		t.Fatalf("led_pin = %v", c.LEDPin)
	}
	if c.RearmStrategy != "safe" {
		t.Fatalf("rearm_strategy = %q", c.RearmStrategy)
	}
	if c.WakeIntervalMs != DefaultWakeIntervalMs {
		t.Fatalf("wake_interval_ms = %d", c.WakeIntervalMs)
	}
	if c.BatchSize != DefaultBatchSize || c.EscalationLimit != DefaultEscalationLimit {
		t.Fatalf("batch=%d limit=%d", c.BatchSize, c.EscalationLimit)
	}
	if c.PreShutdownPauseMs != DefaultPreShutdownPauseMs {
		t.Fatalf("pre_shutdown_pause_ms = %d", c.PreShutdownPauseMs)
	}
	if cfg.Sim.TimeScale != DefaultTimeScale {
		t.Fatalf("time_scale = %d", cfg.Sim.TimeScale)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := ctrl(func(c *ControllerConfig) {
		c.LEDPin = pin(4)
		c.RearmStrategy = "direct"
		c.WakeIntervalMs = 2000
		c.BatchSize = 2
	})
	Normalize(cfg)

	c := cfg.Controller
	if *c.LEDPin != 4 || c.RearmStrategy != "direct" || c.WakeIntervalMs != 2000 || c.BatchSize != 2 {
		t.Fatalf("explicit values overwritten: %+v", c)
	}
}

func TestNormalize_NilConfig(t *testing.T) {
	Normalize(nil) // must not panic
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
controller:
  led_pin: 4
  rearm_strategy: direct
  wake_interval_ms: 1000
  batch_size: 5
  escalation_limit: 3
sim:
  time_scale: 100
  trace_file: run.trace
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Controller.LEDPin == nil || *cfg.Controller.LEDPin != 4 {
		t.Fatalf("led_pin = %v", cfg.Controller.LEDPin)
	}
	if cfg.Controller.RearmStrategy != "direct" {
		t.Fatalf("rearm_strategy = %q", cfg.Controller.RearmStrategy)
	}
	if cfg.Sim.TimeScale != 100 || cfg.Sim.TraceFile != "run.trace" {
		t.Fatalf("sim = %+v", cfg.Sim)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("controller: ["), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
