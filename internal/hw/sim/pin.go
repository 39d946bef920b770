// internal/hw/sim/pin.go
package sim

import (
	"sync"
	"time"

	"github.com/oliver-reinhard/attiny85-watchdog/internal/hw"
)

// Edge is one recorded level transition on a simulated pin.
type Edge struct {
	At   time.Time
	High bool
}

// Pin is a digital output that records its level transitions.
// Safe for concurrent use from the main and interrupt contexts.
type Pin struct {
	mu         sync.Mutex
	configured bool
	high       bool
	edges      []Edge
	observer   func(Edge)
}

// NewPin creates a pin at level LOW, unconfigured.
func NewPin() *Pin {
	return &Pin{}
}

func (p *Pin) ConfigureOutput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configured = true
}

func (p *Pin) High() { p.set(true) }

func (p *Pin) Low() { p.set(false) }

func (p *Pin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.high
}

// set records only actual transitions; writing the current level again
// is electrically invisible and is not logged.
func (p *Pin) set(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.high == high {
		return
	}
	p.high = high
	e := Edge{At: time.Now(), High: high}
	p.edges = append(p.edges, e)
	if p.observer != nil {
		p.observer(e)
	}
}

// Configured reports whether ConfigureOutput has been called.
func (p *Pin) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

// Edges returns a copy of the recorded transition history.
func (p *Pin) Edges() []Edge {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Edge, len(p.edges))
	copy(out, p.edges)
	return out
}

// RisingEdges counts LOW-to-HIGH transitions, one per blink or solid.
func (p *Pin) RisingEdges() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.edges {
		if e.High {
			n++
		}
	}
	return n
}

// SetObserver installs a callback invoked on every transition while
// holding the pin lock. The callback must not call back into the pin.
func (p *Pin) SetObserver(fn func(Edge)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = fn
}

var _ hw.Pin = (*Pin)(nil)
