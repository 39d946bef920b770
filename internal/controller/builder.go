// internal/controller/builder.go
package controller

import (
	"log/slog"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/config"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw/sim"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/signal"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/trace"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/wake"
)

// Runtime bundles the simulated hardware a built controller runs on,
// so the caller can observe it and tear it down.
type Runtime struct {
	Watchdog *sim.Watchdog
	Pin      *sim.Pin
	Clock    *sim.Clock

	recorder *trace.StreamRecorder
}

// Close stops the watchdog engine and the trace file, releasing any
// blocked wait. Safe to call more than once.
func (r *Runtime) Close() error {
	r.Watchdog.Close()
	if r.recorder != nil {
		return r.recorder.Close()
	}
	return nil
}

// Build assembles a controller on simulated hardware from validated,
// normalized configuration.
func Build(cfg *config.Config, logger *slog.Logger) (*Controller, *Runtime, error) {
	clock := sim.NewClock(cfg.Sim.TimeScale)
	wd := sim.NewWatchdog(clock)
	pin := sim.NewPin()

	rt := &Runtime{Watchdog: wd, Pin: pin, Clock: clock}

	var rec trace.Recorder
	if cfg.Sim.TraceFile != "" {
		fr, err := trace.NewFileRecorder(cfg.Sim.TraceFile)
		if err != nil {
			return nil, nil, err
		}
		rt.recorder = fr
		rec = fr

		pin.SetObserver(func(e sim.Edge) {
			fr.Record(trace.Event{
				Timestamp: e.At,
				Kind:      trace.KindPin,
				PinHigh:   e.High,
			})
		})
	}

	c := cfg.Controller

	machineCfg := signal.Config{
		BatchSize:        c.BatchSize,
		EscalationLimit:  c.EscalationLimit,
		BlinkOn:          c.BlinkOn(),
		BlinkOff:         c.BlinkOff(),
		PowerOnLight:     c.PowerOnLight(),
		PreShutdownPause: c.PreShutdownPause(),
		ShutdownLight:    c.ShutdownLight(),
	}
	if rec != nil {
		machineCfg.OnPhase = func(p signal.Phase) {
			rec.Record(trace.Event{
				Timestamp: time.Now(),
				Kind:      trace.KindPhase,
				Phase:     p.String(),
			})
		}
	}

	machine, err := signal.New(machineCfg, pin, clock)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}

	strategy, err := wake.StrategyFor(c.RearmStrategy)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}

	onWake := machine.HandleWake
	if rec != nil {
		onWake = func() {
			machine.HandleWake()
			rec.Record(trace.Event{
				Timestamp: time.Now(),
				Kind:      trace.KindWake,
				WakeCount: machine.WakeCount(),
			})
		}
	}

	sched, err := wake.New(wake.Config{
		Interval: c.WakeInterval(),
		Strategy: strategy,
		OnWake:   onWake,
	}, wd, wd)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}

	ctrl, err := New(sched, machine, pin, Options{Logger: logger, Recorder: rec})
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	return ctrl, rt, nil
}
