//go:build tinygo

// cmd/attinyblink/main.go
package main

import (
	"context"
	"device/avr"
	"machine"
	"runtime/interrupt"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/controller"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw/attiny"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/signal"
	"github.com/oliver-reinhard/attiny85-watchdog/internal/wake"
)

// PB1 variant. The PB4 board uses machine.PB4 here.
var led = attiny.LEDPin{Pin: machine.PB1}

// The WDT vector runs the scheduler's installed routine.
var wdtInterrupt = interrupt.New(avr.IRQ_WDT, wdtVector)

func wdtVector(interrupt.Interrupt) {
	attiny.HandleWDT()
}

func main() {
	regs := &attiny.Regs{}
	delay := attiny.BusyDelay{}

	m, err := signal.New(signal.Config{
		BatchSize:        5,
		EscalationLimit:  3,
		BlinkOn:          100 * time.Millisecond,
		BlinkOff:         100 * time.Millisecond,
		PowerOnLight:     2500 * time.Millisecond,
		PreShutdownPause: 3500 * time.Millisecond,
		ShutdownLight:    2500 * time.Millisecond,
	}, led, delay)
	if err != nil {
		panic(err)
	}

	strategy, err := wake.StrategyFor(wake.StrategySafe)
	if err != nil {
		panic(err)
	}

	sched, err := wake.New(wake.Config{
		Interval: time.Second,
		Strategy: strategy,
		OnWake:   m.HandleWake,
	}, regs, attiny.PowerDown{})
	if err != nil {
		panic(err)
	}

	ctrl, err := controller.New(sched, m, led, controller.Options{})
	if err != nil {
		panic(err)
	}

	// Never returns: the background context never cancels, and after
	// the shutdown sequence the part sleeps forever.
	_ = ctrl.Run(context.Background())
}
