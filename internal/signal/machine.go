// internal/signal/machine.go

// Package signal owns the wake counter and the escalation countdown,
// and turns wake notifications into LED actions. The interrupt context
// calls HandleWake, the main context calls CheckEscalation after every
// wait-resume; the two never run the escalation logic concurrently.
package signal

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// Config holds the timing and threshold constants of the state machine.
type Config struct {
	// BatchSize is the number of wakes per escalation step.
	BatchSize int

	// EscalationLimit is the number of batches before shutdown.
	EscalationLimit int

	BlinkOn  time.Duration
	BlinkOff time.Duration

	PowerOnLight     time.Duration
	PreShutdownPause time.Duration
	ShutdownLight    time.Duration

	// OnPhase, if set, observes phase transitions from the main context.
	OnPhase func(Phase)
}

// Machine is the signalling state machine.
//
// The wake counter is the only value shared between the interrupt and
// main contexts and is therefore atomic: the interrupt may preempt the
// main context mid-read. Everything else is owned by the main context.
type Machine struct {
	cfg   Config
	pin   hw.Pin
	delay hw.Delayer

	wakes       atomic.Uint32
	batchesLeft int
	phase       Phase
	shutdownRan bool
}

// New creates a machine with immutable config.
func New(cfg Config, pin hw.Pin, delay hw.Delayer) (*Machine, error) {
	if pin == nil {
		return nil, errors.New("signal: pin required")
	}
	if delay == nil {
		return nil, errors.New("signal: delayer required")
	}
	if cfg.BatchSize < 1 {
		return nil, errors.New("signal: batch size must be >= 1")
	}
	if cfg.EscalationLimit < 1 {
		return nil, errors.New("signal: escalation limit must be >= 1")
	}
	if cfg.BlinkOn <= 0 || cfg.BlinkOff <= 0 {
		return nil, errors.New("signal: blink durations must be > 0")
	}
	return &Machine{
		cfg:         cfg,
		pin:         pin,
		delay:       delay,
		batchesLeft: cfg.EscalationLimit,
		phase:       PhaseRunning,
	}, nil
}

// PowerOn configures the pin as an output and shows the power-on light.
// Main context, before arming.
func (m *Machine) PowerOn() {
	m.pin.ConfigureOutput()
	m.SolidLight(m.cfg.PowerOnLight)
}

// HandleWake is the interrupt-context half: count the wake, blink once.
func (m *Machine) HandleWake() {
	m.wakes.Add(1)
	m.Blink(1)
}

// CheckEscalation is the main-context half, called once per wait-resume.
// When a batch has accumulated it performs the triple blink, consumes
// the batch and steps the countdown. The return value is true exactly
// once, when the countdown reaches zero and the shutdown sequence must
// run.
func (m *Machine) CheckEscalation() bool {
	if m.phase == PhaseShutdown {
		return false
	}
	if int(m.wakes.Load()) < m.cfg.BatchSize {
		return false
	}

	m.setPhase(PhaseBatchComplete)
	m.Blink(3)

	// Consume exactly one batch. Wakes that landed during the triple
	// blink keep their increments.
	m.wakes.Add(^uint32(m.cfg.BatchSize - 1))
	m.batchesLeft--

	if m.batchesLeft > 0 {
		m.setPhase(PhaseRunning)
		return false
	}
	m.setPhase(PhaseShutdown)
	return true
}

// RunShutdown performs the terminal sequence: wait out the blinks
// already in flight, disarm via the supplied function, then the long
// solid light. One-shot; repeat calls do nothing.
func (m *Machine) RunShutdown(disarm func()) {
	if m.shutdownRan {
		return
	}
	m.shutdownRan = true

	m.delay.Delay(m.cfg.PreShutdownPause)
	if disarm != nil {
		disarm()
	}
	m.SolidLight(m.cfg.ShutdownLight)
}

// WakeCount returns the wakes observed since the last consumed batch.
func (m *Machine) WakeCount() uint32 {
	return m.wakes.Load()
}

// BatchesLeft returns the remaining escalation countdown.
func (m *Machine) BatchesLeft() int {
	return m.batchesLeft
}

// Phase returns the current logical phase. Main context only.
func (m *Machine) Phase() Phase {
	return m.phase
}

func (m *Machine) setPhase(p Phase) {
	m.phase = p
	if m.cfg.OnPhase != nil {
		m.cfg.OnPhase(p)
	}
}
