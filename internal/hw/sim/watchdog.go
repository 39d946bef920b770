// internal/hw/sim/watchdog.go
package sim

import (
	"sync"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// Watchdog is a register-accurate model of the ATtiny85 watchdog timer.
//
// It implements hw.Registers and hw.Sleeper. The timeout engine runs on
// time.AfterFunc callbacks; the interrupt handler executes on the engine
// goroutine, which stands in for interrupt context. Delivery semantics
// follow the part: a timeout latches WDIF, and if WDIE is set and global
// delivery is enabled the handler runs and the hardware clears both WDIE
// and WDIF. A timeout with WDE set and WDIE clear resets the part —
// the simulation records the reset and halts the timer, which is exactly
// the observable outcome of forgetting to re-arm.
type Watchdog struct {
	clock *Clock

	mu   sync.Mutex
	cond *sync.Cond

	wdtcr   uint8
	wdrf    bool
	ints    bool
	handler func()

	seq   int
	timer *time.Timer

	wakes  uint64
	resets int
	closed bool
}

// NewWatchdog creates a stopped watchdog. Global interrupt delivery
// starts enabled, matching the Arduino-style startup environment.
func NewWatchdog(clock *Clock) *Watchdog {
	w := &Watchdog{clock: clock, ints: true}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// ---- hw.Registers ----

func (w *Watchdog) ReadWDTCR() uint8 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wdtcr
}

func (w *Watchdog) WriteWDTCR(v uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wdtcr = v
	w.scheduleLocked()
}

func (w *Watchdog) SetWDTCRBits(mask uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wdtcr |= mask
	w.scheduleLocked()
}

func (w *Watchdog) TimedSequence(v uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Two-step hardware sequence collapsed: WDCE|WDE unlock, then the
	// final value. WDCE self-clears after four cycles, so it never
	// survives into the stored register.
	w.wdtcr = v &^ hw.WDCE
	w.scheduleLocked()
}

func (w *Watchdog) ClearResetFlag() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wdrf = false
}

func (w *Watchdog) SetInterruptHandler(h func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = h
}

func (w *Watchdog) DisableInterrupts() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ints = false
}

func (w *Watchdog) EnableInterrupts() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ints = true
	// A timeout latched while delivery was suppressed fires now, on the
	// enabling context, like a pending interrupt after sei().
	w.deliverLocked()
}

// ---- hw.Sleeper ----

// Sleep blocks until an interrupt handler completes, the part resets,
// or the simulation is closed.
func (w *Watchdog) Sleep() {
	w.mu.Lock()
	defer w.mu.Unlock()
	wakes, resets := w.wakes, w.resets
	for w.wakes == wakes && w.resets == resets && !w.closed {
		w.cond.Wait()
	}
}

// ---- simulation control ----

// Close stops the timeout engine and releases any sleeper.
// Safe to call more than once.
func (w *Watchdog) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.cond.Broadcast()
}

// Wakes returns the number of completed interrupt handler runs.
func (w *Watchdog) Wakes() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wakes
}

// Resets returns the number of watchdog-induced system resets.
// Anything above zero means a re-arm was forgotten.
func (w *Watchdog) Resets() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resets
}

// ResetFlag reports the MCUSR WDRF state.
func (w *Watchdog) ResetFlag() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wdrf
}

// ---- engine ----

// scheduleLocked restarts the timeout countdown from the current
// register state. Caller holds the lock.
func (w *Watchdog) scheduleLocked() {
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.closed || w.wdtcr&(hw.WDE|hw.WDIE) == 0 {
		return
	}
	timeout, err := hw.TimeoutFor(w.wdtcr)
	if err != nil {
		// Reserved prescaler value: the counter does not run.
		return
	}
	seq := w.seq
	w.timer = time.AfterFunc(w.clock.scaled(timeout), func() {
		w.fire(seq)
	})
}

// fire handles one timeout expiry on the engine goroutine.
func (w *Watchdog) fire(seq int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || seq != w.seq {
		return
	}
	w.wdtcr |= hw.WDIF
	if w.wdtcr&hw.WDIE != 0 {
		w.deliverLocked()
	} else if w.wdtcr&hw.WDE != 0 {
		// Reset mode with no interrupt armed: the part reboots.
		w.resets++
		w.wdrf = true
		w.wdtcr = 0
		w.seq++
		w.cond.Broadcast()
		return
	}
	w.scheduleLocked()
}

// deliverLocked runs the interrupt routine if a timeout is latched and
// deliverable. The lock is released for the duration of the handler;
// the handler may therefore touch the registers freely, as the real
// routine does.
func (w *Watchdog) deliverLocked() {
	if w.wdtcr&hw.WDIF == 0 || w.wdtcr&hw.WDIE == 0 || !w.ints {
		return
	}
	// Vectoring clears WDIF and WDIE: without a re-arm the next timeout
	// lands in reset mode.
	w.wdtcr &^= hw.WDIF | hw.WDIE
	h := w.handler
	w.mu.Unlock()
	if h != nil {
		h()
	}
	w.mu.Lock()
	w.wakes++
	w.cond.Broadcast()
}

var (
	_ hw.Registers = (*Watchdog)(nil)
	_ hw.Sleeper   = (*Watchdog)(nil)
)
