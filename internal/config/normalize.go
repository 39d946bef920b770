// internal/config/normalize.go
package config

import "github.com/oliver-reinhard/attiny85-watchdog/internal/wake"

// Defaults match the field-observed variant: PB1, safe re-arm, 1 Hz
// wakes, batches of five, three batches, 2.5s lights.
const (
	DefaultLEDPin             = 1
	DefaultWakeIntervalMs     = 1000
	DefaultBatchSize          = 5
	DefaultEscalationLimit    = 3
	DefaultPowerOnLightMs     = 2500
	DefaultBlinkOnMs          = 100
	DefaultBlinkOffMs         = 100
	DefaultPreShutdownPauseMs = 3500
	DefaultShutdownLightMs    = 2500
	DefaultTimeScale          = 1
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Controller

	if c.LEDPin == nil {
		pin := DefaultLEDPin
		c.LEDPin = &pin
	}
	if c.RearmStrategy == "" {
		c.RearmStrategy = wake.StrategySafe
	}
	if c.WakeIntervalMs == 0 {
		c.WakeIntervalMs = DefaultWakeIntervalMs
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.EscalationLimit == 0 {
		c.EscalationLimit = DefaultEscalationLimit
	}
	if c.PowerOnLightMs == 0 {
		c.PowerOnLightMs = DefaultPowerOnLightMs
	}
	if c.BlinkOnMs == 0 {
		c.BlinkOnMs = DefaultBlinkOnMs
	}
	if c.BlinkOffMs == 0 {
		c.BlinkOffMs = DefaultBlinkOffMs
	}
	if c.PreShutdownPauseMs == 0 {
		c.PreShutdownPauseMs = DefaultPreShutdownPauseMs
	}
	if c.ShutdownLightMs == 0 {
		c.ShutdownLightMs = DefaultShutdownLightMs
	}

	if cfg.Sim.TimeScale == 0 {
		cfg.Sim.TimeScale = DefaultTimeScale
	}
}
