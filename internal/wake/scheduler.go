// internal/wake/scheduler.go
package wake

import (
	"errors"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// Scheduler arms the watchdog for periodic wake interrupts and owns the
// armed/disarmed lifecycle. One interrupt per interval while armed; the
// installed handler runs the wake routine and then the re-arm strategy,
// in that order, before the main context can resume.
type Scheduler struct {
	regs      hw.Registers
	sleeper   hw.Sleeper
	strategy  RearmStrategy
	onWake    func()
	prescaler uint8

	armed    bool
	disarmed bool // terminal, one-way
}

// Config is the minimal runtime config the scheduler needs.
type Config struct {
	Interval time.Duration
	Strategy RearmStrategy

	// OnWake runs in interrupt context on every delivered timeout,
	// before the notification path is re-armed.
	OnWake func()
}

// New creates a scheduler with immutable config.
func New(cfg Config, regs hw.Registers, sleeper hw.Sleeper) (*Scheduler, error) {
	if regs == nil {
		return nil, errors.New("wake: registers required")
	}
	if sleeper == nil {
		return nil, errors.New("wake: sleeper required")
	}
	if cfg.Strategy == nil {
		return nil, errors.New("wake: rearm strategy required")
	}
	prescaler, err := hw.PrescalerFor(cfg.Interval)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		regs:      regs,
		sleeper:   sleeper,
		strategy:  cfg.Strategy,
		onWake:    cfg.OnWake,
		prescaler: prescaler,
	}, nil
}

// Arm installs the interrupt routine and enables the periodic timeout.
// Register configuration happens with global delivery suppressed so a
// timeout cannot vector mid-sequence. First call only; calling an
// already armed scheduler is not part of the contract.
func (s *Scheduler) Arm() {
	s.regs.SetInterruptHandler(s.handleInterrupt)

	s.regs.DisableInterrupts()
	s.regs.TimedSequence(hw.WDE | s.prescaler)
	s.regs.SetWDTCRBits(hw.WDIE)
	s.regs.EnableInterrupts()

	s.armed = true
}

// handleInterrupt is the watchdog interrupt routine. The wake callback
// runs first, then the strategy restores WDIE. Both complete before the
// handler returns, so a sleeping main context never resumes with the
// path disabled.
func (s *Scheduler) handleInterrupt() {
	if s.onWake != nil {
		s.onWake()
	}
	s.strategy.Rearm(s.regs, s.prescaler)
}

// DisarmForever clears the reset flag and shuts the watchdog down.
// Idempotent. After the first call no timeout will ever fire again and
// the scheduler refuses to re-enable the path for the process lifetime.
func (s *Scheduler) DisarmForever() {
	if s.disarmed {
		return
	}
	s.disarmed = true
	s.armed = false

	s.regs.DisableInterrupts()
	s.regs.ClearResetFlag()
	s.regs.TimedSequence(0)
	s.regs.EnableInterrupts()
}

// Wait is the low-power wait. It returns after the next interrupt
// handler has completed, or never once disarmed forever.
func (s *Scheduler) Wait() {
	s.sleeper.Sleep()
}

// Armed reports whether the notification path is live.
func (s *Scheduler) Armed() bool {
	return s.armed
}

// Disarmed reports whether the terminal disarm has happened.
func (s *Scheduler) Disarmed() bool {
	return s.disarmed
}
