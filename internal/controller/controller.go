// internal/controller/controller.go

// Package controller runs the main-context loop: power-on signal, arm
// the wake scheduler, then sleep/check until the escalation countdown
// runs out and the terminal shutdown sequence fires.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/signal"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/status"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/trace"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/wake"
)

// Controller owns the main context.
type Controller struct {
	sched   *wake.Scheduler
	machine *signal.Machine
	pin     hw.Pin
	log     *slog.Logger
	rec     trace.Recorder
}

// Options carries the optional collaborators.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Recorder receives trace events; nil disables tracing.
	Recorder trace.Recorder
}

// New creates a controller. The scheduler must already route its wake
// callback into the machine (see Build).
func New(sched *wake.Scheduler, machine *signal.Machine, pin hw.Pin, opts Options) (*Controller, error) {
	if sched == nil {
		return nil, errors.New("controller: scheduler required")
	}
	if machine == nil {
		return nil, errors.New("controller: machine required")
	}
	if pin == nil {
		return nil, errors.New("controller: pin required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		sched:   sched,
		machine: machine,
		pin:     pin,
		log:     log,
		rec:     opts.Recorder,
	}, nil
}

// Run drives the controller until shutdown completes and the context is
// cancelled. On real hardware the context never cancels and Run never
// returns; in the simulator cancellation plus closing the watchdog
// releases the final wait.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info("power on")
	c.machine.PowerOn()

	c.sched.Arm()
	c.log.Info("watchdog armed")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.sched.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		c.log.Debug("wake",
			"count", c.machine.WakeCount(),
			"batches_left", c.machine.BatchesLeft(),
		)

		if c.machine.CheckEscalation() {
			c.log.Info("escalation countdown exhausted, shutting down")
			c.machine.RunShutdown(c.sched.DisarmForever)
			c.record(trace.Event{
				Timestamp: time.Now(),
				Kind:      trace.KindShutdown,
			})
			c.log.Info("watchdog disarmed, sleeping forever")
			break
		}
	}

	// Terminal state: no notification will ever arrive again. Only
	// simulation teardown ends these waits.
	for ctx.Err() == nil {
		c.sched.Wait()
	}
	return ctx.Err()
}

// Status captures the controller state. Main context only.
func (c *Controller) Status() status.Snapshot {
	return status.Snapshot{
		Phase:       phaseCode(c.machine.Phase()),
		WakeCount:   uint16(c.machine.WakeCount()),
		BatchesLeft: uint16(c.machine.BatchesLeft()),
		Armed:       c.sched.Armed(),
		PinHigh:     c.pin.Get(),
	}
}

func (c *Controller) record(e trace.Event) {
	if c.rec != nil {
		c.rec.Record(e)
	}
}

func phaseCode(p signal.Phase) uint16 {
	switch p {
	case signal.PhaseBatchComplete:
		return status.PhaseBatchComplete
	case signal.PhaseShutdown:
		return status.PhaseShutdown
	default:
		return status.PhaseRunning
	}
}
