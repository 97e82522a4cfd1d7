// Package is31fl3733 controls an ISSI IS31FL3733 LED-matrix driver via I2C.
//
// The IS31FL3733 drives a 12x16 matrix of 192 LED channels, each with an
// 8-bit PWM brightness register and an on/off control bit.
//
// See the examples for how to use this package.
package is31fl3733

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Opts is the configuration for one IS31FL3733 chip.
type Opts struct {
	// SyncMode chains the PWM clocks of multiple chips. Make one chip the
	// master and the rest slaves so their switching stays in phase.
	SyncMode SyncMode

	// PWMFrequency selects the PWM switching frequency (default: 8.4 kHz).
	// Only the IS31FL3733B variant honors it.
	PWMFrequency PWMFrequency

	// De-ghosting resistor values for the SW rows and CS columns
	// (default: none).
	SWPullUp PullUp
	CSPullUp PullUp

	// GlobalCurrent is the chip-wide current limit register value.
	// 0 selects the full-scale default of 0xFF.
	GlobalCurrent byte

	// Persistence repeats every bus transaction that many times as a hedge
	// against marginal bus conditions. Register writes are harmless to
	// duplicate. 0 sends each transaction once.
	Persistence int
}

// Dev is the device handle for one IS31FL3733 chip.
//
// Brightness and enable state is staged in shadow buffers mirroring the
// chip's PWM and LED control register banks; UpdatePWM and UpdateLEDControl
// push the buffers to the chip only when they have diverged from it.
type Dev struct {
	d    *i2c.Dev
	opts Opts

	mu sync.Mutex

	// Shadow registers. Laid out exactly like the chip's PG1 and PG0 banks
	// so the PWM bank can stream out in auto-increment chunks.
	pwm [NumPWMRegisters]byte
	ctl [NumControlRegisters]byte

	// Divergence markers, cleared on successful flush.
	pwmDirty bool
	ctlDirty bool

	halted bool
}

// New initializes an IS31FL3733 on the given bus and returns its handle.
//
// addr is the 7-bit strapped address, 0x50 through 0x5F. opts can be nil to
// use defaults. The chip comes back with every channel at zero brightness
// and disabled, software shutdown released.
//
// Per-transaction timeouts belong to the bus implementation; this driver
// only sequences transactions.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}

	if addr < AddressGNDGND || addr > AddressVCCVCC {
		return nil, fmt.Errorf("is31fl3733: address 0x%02X outside the strap range 0x50-0x5F", addr)
	}
	if opts.SyncMode > SyncSlave {
		return nil, errors.New("is31fl3733: invalid sync mode")
	}
	if opts.PWMFrequency > PWMFrequency1k05 {
		return nil, errors.New("is31fl3733: invalid PWM frequency")
	}
	if opts.SWPullUp > PullUp32k || opts.CSPullUp > PullUp32k {
		return nil, errors.New("is31fl3733: invalid pull-up resistor value")
	}
	if opts.Persistence < 0 {
		return nil, errors.New("is31fl3733: persistence must not be negative")
	}

	d := &Dev{
		d:    &i2c.Dev{Bus: bus, Addr: addr},
		opts: *opts,
	}
	if d.opts.GlobalCurrent == 0 {
		d.opts.GlobalCurrent = 0xFF
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init runs the power-up sequence: zero both LED register banks, program the
// function page, release software shutdown, let the chip settle.
//
// Both banks are cleared before shutdown is released so the chip never
// drives a channel with whatever the registers held at power-up.
func (d *Dev) init() error {
	// Turn off all LEDs.
	if err := d.selectPage(pageLEDControl); err != nil {
		return err
	}
	for reg := 0; reg < NumControlRegisters; reg++ {
		if err := d.writeRegister(byte(reg), 0x00); err != nil {
			return err
		}
	}

	// Zero all brightness registers. The auto-breath bank keeps its
	// default, which leaves every channel in plain PWM mode.
	if err := d.selectPage(pagePWM); err != nil {
		return err
	}
	for reg := 0; reg < NumPWMRegisters; reg++ {
		if err := d.writeRegister(byte(reg), 0x00); err != nil {
			return err
		}
	}

	// De-ghosting, current limit, then the configuration register with the
	// software-shutdown-disable bit.
	if err := d.selectPage(pageFunction); err != nil {
		return err
	}
	if err := d.writeRegister(regSWPullUp, byte(d.opts.SWPullUp)); err != nil {
		return err
	}
	if err := d.writeRegister(regCSPullUp, byte(d.opts.CSPullUp)); err != nil {
		return err
	}
	if err := d.writeRegister(regGlobalCurrent, d.opts.GlobalCurrent); err != nil {
		return err
	}
	if err := d.writeRegister(regConfiguration, d.configByte()); err != nil {
		return err
	}

	// Give the chip time to wake before anything drives a channel.
	time.Sleep(10 * time.Millisecond)
	return nil
}

// configByte composes the PG3 configuration register: sync mode in the top
// two bits, PWM frequency below it, software shutdown released.
func (d *Dev) configByte() byte {
	return (byte(d.opts.SyncMode)&0b11)<<6 | (byte(d.opts.PWMFrequency)&0b111)<<3 | configSSDNormal
}

// txPersist transmits w, repeating the transaction when Persistence is set.
// Any failure aborts immediately.
func (d *Dev) txPersist(w []byte) error {
	n := d.opts.Persistence
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if err := d.d.Tx(w, nil); err != nil {
			return err
		}
	}
	return nil
}

// writeRegister writes one register on the currently selected page.
func (d *Dev) writeRegister(reg, data byte) error {
	if err := d.txPersist([]byte{reg, data}); err != nil {
		return fmt.Errorf("is31fl3733: write register 0x%02X: %w", reg, err)
	}
	return nil
}

// selectPage unlocks the command register and switches to page. The write
// lock re-arms after a single command-register write, so every page switch
// repeats the unlock.
func (d *Dev) selectPage(page byte) error {
	if err := d.writeRegister(commandWriteLock, commandWriteUnlock); err != nil {
		return err
	}
	return d.writeRegister(commandRegister, page)
}

// writePWMBuffer streams the whole PWM bank in 12 transactions of 16 data
// bytes each, prefixed with the starting register offset; the chip
// auto-increments the register pointer for the rest of the transaction.
//
// Assumes PG1 is selected. A failed chunk aborts immediately, leaving the
// registers beyond it stale on the chip.
func (d *Dev) writePWMBuffer() error {
	var buf [1 + pwmChunkSize]byte
	for i := 0; i < NumPWMRegisters; i += pwmChunkSize {
		buf[0] = byte(i)
		copy(buf[1:], d.pwm[i:i+pwmChunkSize])
		if err := d.txPersist(buf[:]); err != nil {
			return fmt.Errorf("is31fl3733: write PWM chunk 0x%02X: %w", i, err)
		}
	}
	return nil
}

// SetValue stages a brightness value for the channel at the given PWM
// register offset (0-191). The chip is not touched until UpdatePWM.
//
// Out-of-range offsets are silently ignored; a malformed index must not
// halt an LED pipeline.
func (d *Dev) SetValue(offset int, value byte) {
	if offset < 0 || offset >= NumPWMRegisters {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pwm[offset] == value {
		return
	}
	d.pwm[offset] = value
	d.pwmDirty = true
}

// SetAllValues stages the same brightness for every channel on this chip.
func (d *Dev) SetAllValues(value byte) {
	for offset := 0; offset < NumPWMRegisters; offset++ {
		d.SetValue(offset, value)
	}
}

// SetLEDControl stages the enable bit for the channel at the given register
// offset (0-191): bit offset%8 of control byte offset/8. Unlike SetValue
// there is no equality check; a redundant 24-byte flush is cheap.
func (d *Dev) SetLEDControl(offset int, on bool) {
	if offset < 0 || offset >= NumPWMRegisters {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		d.ctl[offset/8] |= 1 << (offset % 8)
	} else {
		d.ctl[offset/8] &^= 1 << (offset % 8)
	}
	d.ctlDirty = true
}

// UpdatePWM flushes the PWM shadow buffer to the chip. It is a no-op while
// the buffer matches the chip, so it is cheap to call once per refresh tick.
//
// On failure the buffer stays dirty for the next tick, and the LED control
// bank is marked dirty as well: an aborted bulk write can leave the chip's
// register pointer mid-page, so the next tick rewrites PG0 in case it was
// clobbered.
func (d *Dev) UpdatePWM() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errors.New("is31fl3733: halted")
	}
	if !d.pwmDirty {
		return nil
	}
	if err := d.selectPage(pagePWM); err != nil {
		d.ctlDirty = true
		return err
	}
	if err := d.writePWMBuffer(); err != nil {
		d.ctlDirty = true
		return err
	}
	d.pwmDirty = false
	return nil
}

// UpdateLEDControl flushes the LED control shadow buffer, one register per
// transaction. The dirty flag clears whether or not the writes land; a lost
// enable bit stays wrong until the next SetLEDControl call.
func (d *Dev) UpdateLEDControl() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errors.New("is31fl3733: halted")
	}
	if !d.ctlDirty {
		return nil
	}
	d.ctlDirty = false
	if err := d.selectPage(pageLEDControl); err != nil {
		return err
	}
	for reg := 0; reg < NumControlRegisters; reg++ {
		if err := d.writeRegister(byte(reg), d.ctl[reg]); err != nil {
			return err
		}
	}
	return nil
}

// SetGlobalCurrent adjusts the chip-wide current limit (0x00 darkest, 0xFF
// full scale) without touching per-channel state.
func (d *Dev) SetGlobalCurrent(value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errors.New("is31fl3733: halted")
	}
	if err := d.selectPage(pageFunction); err != nil {
		return err
	}
	if err := d.writeRegister(regGlobalCurrent, value); err != nil {
		return err
	}
	d.opts.GlobalCurrent = value
	return nil
}

// Reset reverts every chip register to its power-on default and replays the
// init sequence. The shadow buffers are zeroed to match and both banks are
// marked clean.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errors.New("is31fl3733: halted")
	}
	if err := d.selectPage(pageFunction); err != nil {
		return err
	}
	// The reset register triggers on read; the returned value is discarded.
	var rx [1]byte
	if err := d.d.Tx([]byte{regReset}, rx[:]); err != nil {
		return fmt.Errorf("is31fl3733: read reset register: %w", err)
	}
	d.pwm = [NumPWMRegisters]byte{}
	d.ctl = [NumControlRegisters]byte{}
	d.pwmDirty = false
	d.ctlDirty = false
	return d.init()
}

// Halt puts the chip into software shutdown. All current sources turn off;
// register contents are retained. The handle rejects further operations,
// call New again to bring the chip back.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	if err := d.selectPage(pageFunction); err != nil {
		return err
	}
	return d.writeRegister(regConfiguration, d.configByte()&^configSSDNormal)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("is31fl3733.Dev{0x%02X}", d.d.Addr)
}
