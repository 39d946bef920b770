// internal/signal/phase.go
package signal

// Phase is the logical phase of the signalling state machine.
type Phase uint8

const (
	// PhaseRunning counts wakes and blinks once per wake.
	PhaseRunning Phase = iota

	// PhaseBatchComplete is the transient triple-blink window entered
	// when a batch of wakes has accumulated.
	PhaseBatchComplete

	// PhaseShutdown is terminal. Entered once, never left.
	PhaseShutdown
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "RUNNING"
	case PhaseBatchComplete:
		return "BATCH_COMPLETE"
	case PhaseShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}
