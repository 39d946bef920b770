// internal/signal/actions.go
package signal

import "time"

// Blink pulses the LED times x (HIGH, on, LOW, off). The pin is LOW
// when the call returns. Blink(0) touches nothing and returns promptly.
func (m *Machine) Blink(times int) {
	for i := 0; i < times; i++ {
		m.pin.High()
		m.delay.Delay(m.cfg.BlinkOn)
		m.pin.Low()
		m.delay.Delay(m.cfg.BlinkOff)
	}
}

// SolidLight holds the LED HIGH for d, then drives it LOW.
func (m *Machine) SolidLight(d time.Duration) {
	m.pin.High()
	m.delay.Delay(d)
	m.pin.Low()
}
