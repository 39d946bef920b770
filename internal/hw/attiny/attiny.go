//go:build tinygo

// internal/hw/attiny/attiny.go

// Package attiny binds the hardware contract to a real ATtiny85 under
// TinyGo. Host builds never compile this package.
package attiny

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// LEDPin adapts a machine.Pin to hw.Pin.
type LEDPin struct {
	Pin machine.Pin
}

func (p LEDPin) ConfigureOutput() {
	p.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
}

func (p LEDPin) High()     { p.Pin.High() }
func (p LEDPin) Low()      { p.Pin.Low() }
func (p LEDPin) Get() bool { return p.Pin.Get() }

// BusyDelay is the blocking delay primitive.
type BusyDelay struct{}

func (BusyDelay) Delay(d time.Duration) { time.Sleep(d) }

// Regs drives the real WDTCR/MCUSR registers.
type Regs struct {
	istate interrupt.State
}

func (r *Regs) ReadWDTCR() uint8     { return avr.WDTCR.Get() }
func (r *Regs) WriteWDTCR(v uint8)   { avr.WDTCR.Set(v) }
func (r *Regs) SetWDTCRBits(m uint8) { avr.WDTCR.SetBits(m) }

func (r *Regs) TimedSequence(v uint8) {
	// Change-enable window: both writes must land within four cycles,
	// which they do with interrupts off around the arm/disarm paths.
	avr.WDTCR.Set(hw.WDCE | hw.WDE)
	avr.WDTCR.Set(v)
}

func (r *Regs) ClearResetFlag() { avr.MCUSR.ClearBits(hw.WDRF) }

func (r *Regs) DisableInterrupts() { r.istate = interrupt.Disable() }
func (r *Regs) EnableInterrupts()  { interrupt.Restore(r.istate) }

func (r *Regs) SetInterruptHandler(h func()) { wdtHandler = h }

var wdtHandler func()

// HandleWDT is the watchdog interrupt routine. The device main wires it
// to the WDT vector for the chosen target.
func HandleWDT() {
	if wdtHandler != nil {
		wdtHandler()
	}
}

// PowerDown implements hw.Sleeper with the SLEEP instruction. The part
// resumes here after the watchdog interrupt routine has returned.
type PowerDown struct{}

func (PowerDown) Sleep() {
	avr.MCUCR.SetBits(avr.MCUCR_SE)
	avr.Asm("sleep")
	avr.MCUCR.ClearBits(avr.MCUCR_SE)
}

var (
	_ hw.Pin       = LEDPin{}
	_ hw.Delayer   = BusyDelay{}
	_ hw.Registers = (*Regs)(nil)
	_ hw.Sleeper   = PowerDown{}
)
