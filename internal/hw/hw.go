// internal/hw/hw.go
package hw

import "time"

// WDTCR bit positions (ATtiny85 datasheet names).
const (
	WDP0 uint8 = 1 << 0
	WDP1 uint8 = 1 << 1
	WDP2 uint8 = 1 << 2
	WDE  uint8 = 1 << 3
	WDCE uint8 = 1 << 4
	WDP3 uint8 = 1 << 5
	WDIE uint8 = 1 << 6
	WDIF uint8 = 1 << 7
)

// PrescalerMask covers all four WDP bits in their register positions.
const PrescalerMask uint8 = WDP0 | WDP1 | WDP2 | WDP3

// WDRF is the watchdog reset flag in MCUSR. While it is set the
// hardware forces WDE, so it must be cleared before a permanent disable.
const WDRF uint8 = 1 << 3

// Registers is the exact register contract the wake scheduler uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type Registers interface {
	// ReadWDTCR returns the current watchdog control register value.
	ReadWDTCR() uint8

	// WriteWDTCR replaces the watchdog control register value.
	// Unguarded write: WDE and prescaler changes require TimedSequence.
	WriteWDTCR(v uint8)

	// SetWDTCRBits ORs bits into the control register without a
	// change-enable sequence. Legal for WDIE only.
	SetWDTCRBits(mask uint8)

	// TimedSequence performs the WDCE-guarded two-step write that the
	// hardware requires for clearing WDE or changing the prescaler.
	TimedSequence(v uint8)

	// ClearResetFlag clears WDRF in MCUSR. Required before the watchdog
	// can be disabled for good.
	ClearResetFlag()

	// SetInterruptHandler installs the watchdog interrupt routine.
	// The handler runs in interrupt context and cannot be preempted by
	// the main context.
	SetInterruptHandler(h func())

	// DisableInterrupts suppresses global interrupt delivery.
	DisableInterrupts()

	// EnableInterrupts restores global interrupt delivery. A timeout
	// latched while suppressed is delivered on restore.
	EnableInterrupts()
}

// Pin is a single digital output.
type Pin interface {
	ConfigureOutput()
	High()
	Low()
	Get() bool
}

// Delayer is the busy-wait delay primitive. Delay blocks the calling
// context for the full duration; nothing else runs in that context.
type Delayer interface {
	Delay(d time.Duration)
}

// Sleeper suspends the main context until the next interrupt handler
// has run to completion. With the watchdog disarmed and nothing
// pending, Sleep never returns.
type Sleeper interface {
	Sleep()
}
