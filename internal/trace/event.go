// internal/trace/event.go

// Package trace records controller events as a CBOR stream for offline
// analysis of a simulation run. CBOR encoding uses integer keys for
// compactness; decoding tolerates unknown fields from newer writers.
package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Kind classifies a trace event.
type Kind uint8

const (
	// KindPin is an LED level transition.
	KindPin Kind = 0

	// KindWake is a completed wake interrupt.
	KindWake Kind = 1

	// KindPhase is a state machine phase transition.
	KindPhase Kind = 2

	// KindShutdown is the terminal disarm.
	KindShutdown Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPin:
		return "PIN"
	case KindWake:
		return "WAKE"
	case KindPhase:
		return "PHASE"
	case KindShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Event is one recorded controller event.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"2,keyasint"`

	// PinHigh is the new LED level (KindPin).
	PinHigh bool `cbor:"3,keyasint,omitempty"`

	// Phase is the phase name (KindPhase).
	Phase string `cbor:"4,keyasint,omitempty"`

	// WakeCount is the wake counter at observation time (KindWake).
	WakeCount uint32 `cbor:"5,keyasint,omitempty"`

	// BatchesLeft is the escalation countdown at observation time.
	BatchesLeft uint16 `cbor:"6,keyasint,omitempty"`
}

// encMode is the CBOR encoder mode for trace events.
// Deterministic encoding with nanosecond-precision timestamps.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for trace events.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: decoder mode: %v", err))
	}
}

// NewEncoder returns a streaming CBOR encoder for trace events.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// ReadEvents decodes all events from a trace stream until EOF.
func ReadEvents(r io.Reader) ([]Event, error) {
	dec := decMode.NewDecoder(r)
	var out []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		out = append(out, e)
	}
}
