// internal/status/snapshot.go
package status

// Snapshot is the controller state at one observation point.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Phase       uint16
	WakeCount   uint16
	BatchesLeft uint16
	Armed       bool
	PinHigh     bool
}

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked. No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerSnapshot)

	regs[SlotPhase] = s.Phase
	regs[SlotWakeCount] = s.WakeCount
	regs[SlotBatchesLeft] = s.BatchesLeft
	if s.Armed {
		regs[SlotArmed] = 1
	}
	if s.PinHigh {
		regs[SlotPinLevel] = 1
	}

	return regs
}
