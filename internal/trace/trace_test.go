// internal/trace/trace_test.go
package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewStreamRecorder(&buf)

	now := time.Now()
	rec.Record(Event{Timestamp: now, Kind: KindPin, PinHigh: true})
	rec.Record(Event{Timestamp: now.Add(100 * time.Millisecond), Kind: KindWake, WakeCount: 3, BatchesLeft: 2})
	rec.Record(Event{Timestamp: now.Add(time.Second), Kind: KindPhase, Phase: "SHUTDOWN"})

	events, err := ReadEvents(&buf)
	require.NoError(t, err)
	require.Len(t, events, 3)

	require.Equal(t, KindPin, events[0].Kind)
	require.True(t, events[0].PinHigh)

	require.Equal(t, KindWake, events[1].Kind)
	require.Equal(t, uint32(3), events[1].WakeCount)
	require.Equal(t, uint16(2), events[1].BatchesLeft)

	require.Equal(t, KindPhase, events[2].Kind)
	require.Equal(t, "SHUTDOWN", events[2].Phase)
	require.WithinDuration(t, now.Add(time.Second), events[2].Timestamp, time.Millisecond)
}

func TestFileRecorderAppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.trace")

	rec, err := NewFileRecorder(path)
	require.NoError(t, err)
	rec.Record(Event{Timestamp: time.Now(), Kind: KindShutdown})
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close()) // idempotent

	// Record after Close is dropped, not a panic.
	rec.Record(Event{Kind: KindPin})

	// Re-open appends.
	rec2, err := NewFileRecorder(path)
	require.NoError(t, err)
	rec2.Record(Event{Timestamp: time.Now(), Kind: KindPin, PinHigh: true})
	require.NoError(t, rec2.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	events, err := ReadEvents(f)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, KindShutdown, events[0].Kind)
	require.Equal(t, KindPin, events[1].Kind)
}

func TestKindStrings(t *testing.T) {
	require.Equal(t, "PIN", KindPin.String())
	require.Equal(t, "WAKE", KindWake.String())
	require.Equal(t, "PHASE", KindPhase.String())
	require.Equal(t, "SHUTDOWN", KindShutdown.String())
	require.Equal(t, "UNKNOWN", Kind(42).String())
}
