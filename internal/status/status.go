// internal/status/status.go
package status

// Controller status block layout constants.
// These values define the snapshot encoding and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerSnapshot is the fixed number of slots per encoded snapshot.
const SlotsPerSnapshot = 8

// ---- SLOT INDICES ----

// SlotPhase holds the controller phase code.
const SlotPhase = 0

// SlotWakeCount holds the wakes observed since the last consumed batch.
const SlotWakeCount = 1

// SlotBatchesLeft holds the remaining escalation countdown.
const SlotBatchesLeft = 2

// SlotArmed holds 1 while the notification path is armed.
const SlotArmed = 3

// SlotPinLevel holds the LED drive level (1 = HIGH).
const SlotPinLevel = 4

// ---- RESERVED RANGE ----

// Slots 5-7 are reserved for future use.
const SlotReservedStart = 5
const SlotReservedEnd = 7

// ---- PHASE CODES ----

// PhaseRunning is normal wake counting.
const PhaseRunning uint16 = 0

// PhaseBatchComplete is the transient triple-blink window.
const PhaseBatchComplete uint16 = 1

// PhaseShutdown is the terminal disarmed state.
const PhaseShutdown uint16 = 2
