// internal/hw/prescaler.go
package hw

import (
	"fmt"
	"time"
)

// prescalerSteps lists the watchdog timeout per 4-bit WDP value.
// Values follow the ATtiny85 oscillator table (nominal, VCC = 5.0V).
var prescalerSteps = []time.Duration{
	16 * time.Millisecond,
	32 * time.Millisecond,
	64 * time.Millisecond,
	125 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
	4000 * time.Millisecond,
	8000 * time.Millisecond,
}

// PrescalerFor maps a wake interval onto WDP register bits.
// The interval must match one of the hardware timeout steps exactly;
// the timer has no finer resolution to approximate with.
func PrescalerFor(interval time.Duration) (uint8, error) {
	for v, step := range prescalerSteps {
		if interval == step {
			return prescalerBits(uint8(v)), nil
		}
	}
	return 0, fmt.Errorf("hw: no watchdog prescaler for interval %v", interval)
}

// TimeoutFor is the inverse mapping: WDP register bits to timeout.
func TimeoutFor(wdtcr uint8) (time.Duration, error) {
	v := prescalerValue(wdtcr)
	if int(v) >= len(prescalerSteps) {
		return 0, fmt.Errorf("hw: reserved prescaler value %d", v)
	}
	return prescalerSteps[v], nil
}

// prescalerBits spreads a 4-bit WDP value into register positions.
// WDP0..2 sit at bits 0..2, WDP3 at bit 5.
func prescalerBits(v uint8) uint8 {
	return (v & 0x07) | ((v & 0x08) << 2)
}

// prescalerValue collapses register positions back into the 4-bit value.
func prescalerValue(wdtcr uint8) uint8 {
	v := wdtcr & (WDP0 | WDP1 | WDP2)
	if wdtcr&WDP3 != 0 {
		v |= 0x08
	}
	return v
}
