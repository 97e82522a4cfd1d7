// Package ledmatrix spreads a flat logical LED index space over one or more
// IS31FL3733 chips.
//
// A caller-supplied descriptor table maps each logical index to a chip slot
// and a register offset; the Matrix resolves indices and delegates to the
// per-chip drivers, which do the shadowing and flushing.
package ledmatrix

import (
	"fmt"

	"periph.io/x/devices/v3/is31fl3733"
)

// LED maps one logical LED index to its physical position: which driver chip
// it sits on and which PWM register offset drives it.
//
// The table is laid out by the board, not by this package; it is read-only
// after New.
type LED struct {
	Driver   int   // Chip slot, 0 through len(devs)-1
	Register uint8 // PWM register offset, 0 through 191
}

// Matrix is a logical LED surface backed by one or more IS31FL3733 chips.
type Matrix struct {
	devs []*is31fl3733.Dev
	leds []LED
}

// New builds a Matrix over the given chips. leds is the logical-to-physical
// descriptor table; every entry must name an existing chip slot and a valid
// register offset.
func New(devs []*is31fl3733.Dev, leds []LED) (*Matrix, error) {
	if len(devs) == 0 {
		return nil, fmt.Errorf("ledmatrix: no driver chips")
	}
	for i, led := range leds {
		if led.Driver < 0 || led.Driver >= len(devs) {
			return nil, fmt.Errorf("ledmatrix: LED %d maps to missing driver slot %d", i, led.Driver)
		}
		if int(led.Register) >= is31fl3733.NumPWMRegisters {
			return nil, fmt.Errorf("ledmatrix: LED %d maps to register 0x%02X beyond the PWM bank", i, led.Register)
		}
	}
	return &Matrix{devs: devs, leds: leds}, nil
}

// Len returns the number of logical LEDs.
func (m *Matrix) Len() int {
	return len(m.leds)
}

// SetValue stages a brightness value for one logical LED. Out-of-range
// indices are silently ignored; a malformed index must not halt an LED
// pipeline.
func (m *Matrix) SetValue(index int, value byte) {
	if index < 0 || index >= len(m.leds) {
		return
	}
	led := m.leds[index]
	m.devs[led.Driver].SetValue(int(led.Register), value)
}

// SetAll stages the same brightness for every logical LED, in ascending
// index order.
func (m *Matrix) SetAll(value byte) {
	for i := range m.leds {
		m.SetValue(i, value)
	}
}

// SetEnabled stages the enable bit for one logical LED. Out-of-range indices
// are silently ignored.
func (m *Matrix) SetEnabled(index int, on bool) {
	if index < 0 || index >= len(m.leds) {
		return
	}
	led := m.leds[index]
	m.devs[led.Driver].SetLEDControl(int(led.Register), on)
}

// EnableAll stages the enable bit for every logical LED.
func (m *Matrix) EnableAll(on bool) {
	for i := range m.leds {
		m.SetEnabled(i, on)
	}
}

// FlushPWM pushes the PWM shadow buffer of one chip slot to hardware if it
// has pending changes. Meant to run once per slot per refresh tick.
func (m *Matrix) FlushPWM(slot int) error {
	if slot < 0 || slot >= len(m.devs) {
		return fmt.Errorf("ledmatrix: no driver slot %d", slot)
	}
	return m.devs[slot].UpdatePWM()
}

// FlushLEDControl pushes the LED control shadow buffer of one chip slot to
// hardware if it has pending changes.
func (m *Matrix) FlushLEDControl(slot int) error {
	if slot < 0 || slot >= len(m.devs) {
		return fmt.Errorf("ledmatrix: no driver slot %d", slot)
	}
	return m.devs[slot].UpdateLEDControl()
}

// Flush runs both flushes on every chip slot. Every slot is attempted even
// after a failure; the first error is returned.
func (m *Matrix) Flush() error {
	var first error
	for slot := range m.devs {
		if err := m.devs[slot].UpdatePWM(); err != nil && first == nil {
			first = err
		}
		if err := m.devs[slot].UpdateLEDControl(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Halt puts every chip into software shutdown.
func (m *Matrix) Halt() error {
	var first error
	for slot := range m.devs {
		if err := m.devs[slot].Halt(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// String returns a string representation of the matrix.
func (m *Matrix) String() string {
	return fmt.Sprintf("ledmatrix.Matrix{%d LEDs on %d chips}", len(m.leds), len(m.devs))
}
