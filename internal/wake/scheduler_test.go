// internal/wake/scheduler_test.go
package wake

import (
	"fmt"
	"testing"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// fakeRegs records every register operation in order and keeps a live
// WDTCR value, enough to check strategy effects without a timer engine.
type fakeRegs struct {
	wdtcr   uint8
	wdrf    bool
	handler func()
	ops     []string
}

func (f *fakeRegs) ReadWDTCR() uint8 { return f.wdtcr }

func (f *fakeRegs) WriteWDTCR(v uint8) {
	f.wdtcr = v
	f.ops = append(f.ops, fmt.Sprintf("write(%#02x)", v))
}

func (f *fakeRegs) SetWDTCRBits(mask uint8) {
	f.wdtcr |= mask
	f.ops = append(f.ops, fmt.Sprintf("setbits(%#02x)", mask))
}

func (f *fakeRegs) TimedSequence(v uint8) {
	f.wdtcr = v &^ hw.WDCE
	f.ops = append(f.ops, fmt.Sprintf("timed(%#02x)", v))
}

func (f *fakeRegs) ClearResetFlag() {
	f.wdrf = false
	f.ops = append(f.ops, "clearwdrf")
}

func (f *fakeRegs) SetInterruptHandler(h func()) {
	f.handler = h
	f.ops = append(f.ops, "sethandler")
}

func (f *fakeRegs) DisableInterrupts() { f.ops = append(f.ops, "cli") }
func (f *fakeRegs) EnableInterrupts()  { f.ops = append(f.ops, "sei") }

// vector emulates one hardware delivery: WDIE and WDIF drop, then the
// installed routine runs.
func (f *fakeRegs) vector() {
	f.wdtcr &^= hw.WDIE | hw.WDIF
	if f.handler != nil {
		f.handler()
	}
}

type fakeSleeper struct{ slept int }

func (f *fakeSleeper) Sleep() { f.slept++ }

func mustStrategy(t *testing.T, name string) RearmStrategy {
	t.Helper()
	s, err := StrategyFor(name)
	if err != nil {
		t.Fatalf("StrategyFor(%q): %v", name, err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	regs := &fakeRegs{}
	sleeper := &fakeSleeper{}
	safe := mustStrategy(t, StrategySafe)

	tests := []struct {
		name    string
		cfg     Config
		regs    hw.Registers
		sleeper hw.Sleeper
		wantErr bool
	}{
		{"OK", Config{Interval: time.Second, Strategy: safe}, regs, sleeper, false},
		{"NilRegs", Config{Interval: time.Second, Strategy: safe}, nil, sleeper, true},
		{"NilSleeper", Config{Interval: time.Second, Strategy: safe}, regs, nil, true},
		{"NilStrategy", Config{Interval: time.Second}, regs, sleeper, true},
		{"BadInterval", Config{Interval: 123 * time.Millisecond, Strategy: safe}, regs, sleeper, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.regs, tt.sleeper)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStrategyForUnknown(t *testing.T) {
	if _, err := StrategyFor("yolo"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestArmSequence(t *testing.T) {
	regs := &fakeRegs{}
	s, err := New(Config{Interval: time.Second, Strategy: mustStrategy(t, StrategySafe)}, regs, &fakeSleeper{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	s.Arm()

	want := []string{"sethandler", "cli", "timed(0x0e)", "setbits(0x40)", "sei"}
	if len(regs.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", regs.ops, want)
	}
	for i := range want {
		if regs.ops[i] != want[i] {
			t.Fatalf("ops[%d] = %q, want %q (full: %v)", i, regs.ops[i], want[i], regs.ops)
		}
	}
	if !s.Armed() {
		t.Fatal("Armed() = false after Arm")
	}
	if regs.wdtcr != hw.WDE|hw.WDIE|hw.WDP2|hw.WDP1 {
		t.Fatalf("WDTCR = %#04x after Arm", regs.wdtcr)
	}
}

func TestHandlerRunsWakeThenRearm(t *testing.T) {
	for _, name := range []string{StrategySafe, StrategyDirect} {
		t.Run(name, func(t *testing.T) {
			regs := &fakeRegs{}
			order := []string{}
			s, err := New(Config{
				Interval: time.Second,
				Strategy: mustStrategy(t, name),
				OnWake:   func() { order = append(order, "wake") },
			}, regs, &fakeSleeper{})
			if err != nil {
				t.Fatalf("New() err=%v", err)
			}
			s.Arm()

			regs.ops = nil
			regs.vector()

			// Wake callback must precede the register re-arm.
			if len(order) != 1 || order[0] != "wake" {
				t.Fatalf("wake callback order = %v", order)
			}
			if len(regs.ops) == 0 {
				t.Fatal("no re-arm register ops recorded")
			}
			// Whatever the strategy did, WDIE must be live again.
			if regs.wdtcr&hw.WDIE == 0 {
				t.Fatalf("WDIE not restored by %s strategy, WDTCR = %#04x", name, regs.wdtcr)
			}
		})
	}
}

func TestDirectStrategyTouchesOneRegisterOnce(t *testing.T) {
	regs := &fakeRegs{}
	s, err := New(Config{Interval: time.Second, Strategy: mustStrategy(t, StrategyDirect)}, regs, &fakeSleeper{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s.Arm()

	regs.ops = nil
	regs.vector()

	if len(regs.ops) != 1 || regs.ops[0] != "setbits(0x40)" {
		t.Fatalf("direct strategy ops = %v, want single setbits(0x40)", regs.ops)
	}
}

func TestSafeStrategyClearsLatchedWDIF(t *testing.T) {
	regs := &fakeRegs{}
	s, err := New(Config{Interval: time.Second, Strategy: mustStrategy(t, StrategySafe)}, regs, &fakeSleeper{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s.Arm()

	// Latch a stale WDIF, then deliver.
	regs.wdtcr |= hw.WDIF
	regs.vector()

	if regs.wdtcr&hw.WDIF != 0 {
		t.Fatalf("WDIF still latched after safe re-arm, WDTCR = %#04x", regs.wdtcr)
	}
}

func TestDisarmForeverIdempotent(t *testing.T) {
	regs := &fakeRegs{wdrf: true}
	s, err := New(Config{Interval: time.Second, Strategy: mustStrategy(t, StrategySafe)}, regs, &fakeSleeper{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s.Arm()

	regs.ops = nil
	s.DisarmForever()

	want := []string{"cli", "clearwdrf", "timed(0x00)", "sei"}
	if len(regs.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", regs.ops, want)
	}
	if regs.wdtcr != 0 {
		t.Fatalf("WDTCR = %#04x after disarm, want 0", regs.wdtcr)
	}
	if regs.wdrf {
		t.Fatal("WDRF not cleared")
	}
	if s.Armed() || !s.Disarmed() {
		t.Fatalf("state after disarm: armed=%v disarmed=%v", s.Armed(), s.Disarmed())
	}

	// Second call must not touch hardware at all.
	regs.ops = nil
	s.DisarmForever()
	if len(regs.ops) != 0 {
		t.Fatalf("second DisarmForever touched registers: %v", regs.ops)
	}
}

func TestWaitDelegatesToSleeper(t *testing.T) {
	sleeper := &fakeSleeper{}
	s, err := New(Config{Interval: time.Second, Strategy: mustStrategy(t, StrategyDirect)}, &fakeRegs{}, sleeper)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s.Wait()
	s.Wait()
	if sleeper.slept != 2 {
		t.Fatalf("slept = %d, want 2", sleeper.slept)
	}
}
