// internal/trace/recorder.go
package trace

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Recorder receives controller events. Implementations must be safe
// for concurrent use: events arrive from both the main and interrupt
// contexts of the simulation.
type Recorder interface {
	Record(e Event)
}

// StreamRecorder writes events to an io.Writer in CBOR format.
type StreamRecorder struct {
	mu      sync.Mutex
	encoder *cbor.Encoder
	closer  io.Closer
	closed  bool
}

// NewStreamRecorder wraps an arbitrary writer.
func NewStreamRecorder(w io.Writer) *StreamRecorder {
	return &StreamRecorder{encoder: NewEncoder(w)}
}

// NewFileRecorder creates a recorder writing to path, appending if the
// file exists. The file is created 0644 otherwise.
func NewFileRecorder(path string) (*StreamRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &StreamRecorder{encoder: NewEncoder(f), closer: f}, nil
}

// Record writes one event. Encoding errors are dropped: tracing must
// never disrupt the controller.
func (r *StreamRecorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	_ = r.encoder.Encode(e)
}

// Close flushes nothing (the encoder is unbuffered) and closes the
// underlying file if there is one. Safe to call more than once; Record
// calls after Close are silently ignored.
func (r *StreamRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

var _ Recorder = (*StreamRecorder)(nil)
