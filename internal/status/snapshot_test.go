// internal/status/snapshot_test.go
package status

import "testing"

func TestEncodeLayout(t *testing.T) {
	regs := Encode(Snapshot{
		Phase:       PhaseBatchComplete,
		WakeCount:   5,
		BatchesLeft: 2,
		Armed:       true,
		PinHigh:     false,
	})

	if len(regs) != SlotsPerSnapshot {
		t.Fatalf("len = %d, want %d", len(regs), SlotsPerSnapshot)
	}
	if regs[SlotPhase] != PhaseBatchComplete {
		t.Errorf("phase slot = %d", regs[SlotPhase])
	}
	if regs[SlotWakeCount] != 5 {
		t.Errorf("wake slot = %d", regs[SlotWakeCount])
	}
	if regs[SlotBatchesLeft] != 2 {
		t.Errorf("batches slot = %d", regs[SlotBatchesLeft])
	}
	if regs[SlotArmed] != 1 {
		t.Errorf("armed slot = %d", regs[SlotArmed])
	}
	if regs[SlotPinLevel] != 0 {
		t.Errorf("pin slot = %d", regs[SlotPinLevel])
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Errorf("reserved slot %d = %d, want 0", i, regs[i])
		}
	}
}
