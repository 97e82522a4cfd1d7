package is31fl3733

// Register map of the IS31FL3733. The chip exposes four register pages
// selected through the command register; the command register itself must be
// unlocked before every page switch, as the lock re-arms after one write.
const (
	commandRegister    byte = 0xFD // Page select
	commandWriteLock   byte = 0xFE // Write 0xC5 here to unlock the command register
	interruptMask      byte = 0xF0
	interruptStatus    byte = 0xF1
	commandWriteUnlock byte = 0xC5 // Unlock key
)

// Register pages.
const (
	pageLEDControl byte = 0x00 // PG0: on/off bits, one bit per channel
	pagePWM        byte = 0x01 // PG1: one brightness byte per channel
	pageAutoBreath byte = 0x02 // PG2: unused, channels default to PWM mode
	pageFunction   byte = 0x03 // PG3: configuration
)

// Function page (PG3) registers.
const (
	regConfiguration byte = 0x00
	regGlobalCurrent byte = 0x01
	regSWPullUp      byte = 0x0F // SWy de-ghost pull-up
	regCSPullUp      byte = 0x10 // CSx de-ghost pull-down
	regReset         byte = 0x11 // Reading resets all registers to defaults
)

// Register bank geometry.
const (
	// NumPWMRegisters is the size of the PG1 brightness bank: 12 SW rows
	// by 16 CS columns, one byte each.
	NumPWMRegisters = 192

	// NumControlRegisters is the size of the PG0 on/off bank, one bit per
	// channel packed into 24 bytes.
	NumControlRegisters = 24

	// Bulk PWM writes go out in chunks of 16 data bytes; the chip
	// auto-increments the register pointer within a transaction.
	pwmChunkSize = 16

	// Configuration register bit 0 disables software shutdown.
	configSSDNormal byte = 0x01
)

// I2C addresses, set by strapping the ADDR1 and ADDR2 pins to GND, SCL, SDA
// or VCC. Sixteen combinations, 0x50 through 0x5F.
const (
	AddressGNDGND uint16 = 0x50
	AddressGNDSCL uint16 = 0x51
	AddressGNDSDA uint16 = 0x52
	AddressGNDVCC uint16 = 0x53
	AddressSCLGND uint16 = 0x54
	AddressSCLSCL uint16 = 0x55
	AddressSCLSDA uint16 = 0x56
	AddressSCLVCC uint16 = 0x57
	AddressSDAGND uint16 = 0x58
	AddressSDASCL uint16 = 0x59
	AddressSDASDA uint16 = 0x5A
	AddressSDAVCC uint16 = 0x5B
	AddressVCCGND uint16 = 0x5C
	AddressVCCSCL uint16 = 0x5D
	AddressVCCSDA uint16 = 0x5E
	AddressVCCVCC uint16 = 0x5F
)

// SyncMode configures the multi-chip synchronization field of the
// configuration register. One chip may be master, the rest slaves, so that
// all chips share one PWM clock and avoid visible beat frequencies.
type SyncMode byte

const (
	SyncNone   SyncMode = 0b00
	SyncMaster SyncMode = 0b01
	SyncSlave  SyncMode = 0b10
)

// PWMFrequency selects the PWM switching frequency (IS31FL3733B only; the
// plain IS31FL3733 ignores the field).
type PWMFrequency byte

const (
	PWMFrequency8k4  PWMFrequency = 0b000 // 8.4 kHz (power-on default)
	PWMFrequency4k2  PWMFrequency = 0b001 // 4.2 kHz
	PWMFrequency26k7 PWMFrequency = 0b010 // 26.7 kHz
	PWMFrequency2k1  PWMFrequency = 0b011 // 2.1 kHz
	PWMFrequency1k05 PWMFrequency = 0b100 // 1.05 kHz
)

// PullUp selects the de-ghosting pull-up (SWy) or pull-down (CSx) resistor
// value.
type PullUp byte

const (
	PullUpNone PullUp = 0x00
	PullUp0k5  PullUp = 0x01 // 0.5 kΩ
	PullUp1k   PullUp = 0x02
	PullUp2k   PullUp = 0x03
	PullUp4k   PullUp = 0x04
	PullUp8k   PullUp = 0x05
	PullUp16k  PullUp = 0x06
	PullUp32k  PullUp = 0x07
)
