// internal/wake/strategy.go
package wake

import (
	"fmt"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// RearmStrategy re-enables the notification path after the hardware
// auto-cleared WDIE on interrupt delivery. Contract for every
// implementation: after Rearm returns, the path is enabled exactly
// once. Skipping the call means the next timeout resets the part.
type RearmStrategy interface {
	Rearm(regs hw.Registers, prescaler uint8)
	String() string
}

// Strategy names accepted by configuration.
const (
	StrategySafe   = "safe"
	StrategyDirect = "direct"
)

// StrategyFor maps a configuration name to its implementation.
func StrategyFor(name string) (RearmStrategy, error) {
	switch name {
	case StrategySafe:
		return safeStrategy{}, nil
	case StrategyDirect:
		return directStrategy{}, nil
	default:
		return nil, fmt.Errorf("wake: unknown rearm strategy %q", name)
	}
}

// safeStrategy reruns the full enable sequence: timed write of WDE and
// prescaler (which also drops a latched WDIF), then WDIE. Structurally
// the same as arming from scratch, so it cannot leave the register in a
// half-armed state.
type safeStrategy struct{}

func (safeStrategy) Rearm(regs hw.Registers, prescaler uint8) {
	regs.TimedSequence(hw.WDE | prescaler)
	regs.SetWDTCRBits(hw.WDIE)
}

func (safeStrategy) String() string { return StrategySafe }

// directStrategy sets WDIE back with a single register OR. WDE and the
// prescaler were never touched by the hardware, so nothing else needs
// rewriting.
type directStrategy struct{}

func (directStrategy) Rearm(regs hw.Registers, prescaler uint8) {
	regs.SetWDTCRBits(hw.WDIE)
}

func (directStrategy) String() string { return StrategyDirect }
