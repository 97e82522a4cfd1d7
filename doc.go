// Package is31fl3733 controls an ISSI IS31FL3733 LED-matrix driver via I2C.
//
// The IS31FL3733 drives a 12x16 LED matrix: 192 channels, each with an 8-bit
// PWM brightness register and an on/off control bit. Up to sixteen chips can
// share one bus, strapped to addresses 0x50 through 0x5F.
//
// # Driver Characteristics
//
// - 192 channels with 256 brightness levels each
// - Per-channel enable bits (24 control registers, one bit per channel)
// - Shadowed register banks: writes are staged in memory and flushed in
// batches, with dirty tracking so an unchanged bank costs zero transactions
// - Bulk PWM transfer in 12 auto-increment transactions of 16 bytes
// - Multi-chip PWM clock synchronization (one master, up to 15 slaves)
// - Configurable PWM switching frequency (IS31FL3733B), de-ghosting
// pull-ups and global current limit
//
// # Hardware Connection
//
// Connect the IS31FL3733 to your system via I2C:
//
//	Chip Pin → System Pin
//	GND      → GND
//	VCC      → 3.3V or 5V
//	SCL      → I2C Clock
//	SDA      → I2C Data
//	ADDR1    → GND/SCL/SDA/VCC (address strap, low two bits)
//	ADDR2    → GND/SCL/SDA/VCC (address strap, high two bits)
//
// # Basic Usage
//
// Example of driving a single chip:
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/devices/v3/is31fl3733"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open the I2C bus
//		bus, _ := i2creg.Open("")
//
//		// Create the device
//		dev, _ := is31fl3733.New(bus, is31fl3733.AddressGNDGND, nil)
//		defer dev.Halt()
//
//		// Enable a channel and set its brightness
//		dev.SetLEDControl(0, true)
//		dev.SetValue(0, 128)
//
//		// Push the staged state to the chip
//		dev.UpdateLEDControl()
//		dev.UpdatePWM()
//	}
//
// # Update Model
//
// SetValue and SetLEDControl never touch the bus. They mutate in-memory
// shadow buffers mirroring the chip's PWM and LED control register banks and
// mark the mutated bank dirty. UpdatePWM and UpdateLEDControl write a bank
// out only while it is dirty, so the intended calling pattern is simple:
// mutate freely, then call both updates once per refresh tick per chip.
//
// Setting a channel to the value it already has does not dirty the PWM bank;
// a tick with no real changes performs no I2C traffic at all.
//
// If a bulk PWM transfer fails partway the chip is left with a partially
// updated bank. The driver keeps the PWM bank marked dirty so the next tick
// retries it, and additionally marks the control bank dirty, since an
// aborted transfer can leave the chip's register pointer in a state that
// corrupts the control page.
//
// # Multiple Chips
//
// The ledmatrix subpackage spreads a flat logical LED index space over
// several chips using a board-specific descriptor table:
//
//	devA, _ := is31fl3733.New(bus, is31fl3733.AddressGNDVCC, nil)
//	devB, _ := is31fl3733.New(bus, is31fl3733.AddressVCCVCC, nil)
//
//	m, _ := ledmatrix.New([]*is31fl3733.Dev{devA, devB}, []ledmatrix.LED{
//		{Driver: 0, Register: 0x00},
//		{Driver: 0, Register: 0x10},
//		{Driver: 1, Register: 0x00},
//		// ... one entry per logical LED, in board order
//	})
//
//	m.EnableAll(true)
//	m.SetValue(2, 255)
//	m.Flush()
//
// When chaining chips, configure one with SyncMaster and the rest with
// SyncSlave so their PWM clocks stay in phase.
//
// # Initialization
//
// New zeroes both register banks before releasing software shutdown, so the
// chip never drives a channel with garbage from power-up, then waits 10 ms
// for the chip to stabilize. All channels come up disabled at brightness
// zero; enable the ones your board actually routes.
//
// # Datasheet
//
// https://www.lumissil.com/assets/pdf/core/IS31FL3733_DS.pdf
package is31fl3733
