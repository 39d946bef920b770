// internal/config/validate.go
package config

import (
	"fmt"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/wake"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration. Zero values mean "use the default"
// and pass here; Normalize fills them in afterwards.
func Validate(cfg *Config) error {
	c := cfg.Controller

	// ------------------------------------------------------------
	// PIN
	// ------------------------------------------------------------

	// PB0..PB5 exist on the part; PB5 doubles as RESET and is a
	// questionable choice, but a legal one.
	if c.LEDPin != nil && (*c.LEDPin < 0 || *c.LEDPin > 5) {
		return fmt.Errorf("config: led_pin %d out of range 0..5", *c.LEDPin)
	}

	// ------------------------------------------------------------
	// STRATEGY
	// ------------------------------------------------------------

	if c.RearmStrategy != "" {
		if _, err := wake.StrategyFor(c.RearmStrategy); err != nil {
			return fmt.Errorf(
				"config: rearm_strategy must be %q or %q, got %q",
				wake.StrategySafe, wake.StrategyDirect, c.RearmStrategy,
			)
		}
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	if c.WakeIntervalMs < 0 {
		return fmt.Errorf("config: wake_interval_ms must be > 0")
	}
	if c.WakeIntervalMs > 0 {
		interval := time.Duration(c.WakeIntervalMs) * time.Millisecond
		if _, err := hw.PrescalerFor(interval); err != nil {
			return fmt.Errorf("config: wake_interval_ms %d does not match a watchdog timeout step", c.WakeIntervalMs)
		}
	}

	for _, d := range []struct {
		name string
		ms   int
	}{
		{"power_on_light_ms", c.PowerOnLightMs},
		{"blink_on_ms", c.BlinkOnMs},
		{"blink_off_ms", c.BlinkOffMs},
		{"pre_shutdown_pause_ms", c.PreShutdownPauseMs},
		{"shutdown_light_ms", c.ShutdownLightMs},
	} {
		if d.ms < 0 {
			return fmt.Errorf("config: %s must be > 0", d.name)
		}
	}

	// ------------------------------------------------------------
	// COUNTERS
	// ------------------------------------------------------------

	if c.BatchSize < 0 {
		return fmt.Errorf("config: batch_size must be >= 1")
	}
	if c.EscalationLimit < 0 {
		return fmt.Errorf("config: escalation_limit must be >= 1")
	}

	// ------------------------------------------------------------
	// SIM
	// ------------------------------------------------------------

	if cfg.Sim.TimeScale < 0 {
		return fmt.Errorf("config: time_scale must be >= 1")
	}

	return nil
}
