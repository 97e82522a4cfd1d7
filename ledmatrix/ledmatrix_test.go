package ledmatrix

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/devices/v3/is31fl3733"
)

// testMatrix builds a matrix of two chips on one recording bus and discards
// the init traffic, so tests only see the transactions they cause.
func testMatrix(t *testing.T, leds []LED) (*Matrix, *i2ctest.Record) {
	t.Helper()
	b := &i2ctest.Record{}
	devs := make([]*is31fl3733.Dev, 0, 2)
	for _, addr := range []uint16{is31fl3733.AddressGNDVCC, is31fl3733.AddressVCCVCC} {
		d, err := is31fl3733.New(b, addr, nil)
		if err != nil {
			t.Fatalf("New(0x%02X) failed: %v", addr, err)
		}
		devs = append(devs, d)
	}
	m, err := New(devs, leds)
	if err != nil {
		t.Fatalf("ledmatrix.New() failed: %v", err)
	}
	b.Ops = nil
	return m, b
}

// opsFor filters recorded transactions by chip address.
func opsFor(b *i2ctest.Record, addr uint16) []i2ctest.IO {
	var ops []i2ctest.IO
	for _, op := range b.Ops {
		if op.Addr == addr {
			ops = append(ops, op)
		}
	}
	return ops
}

func TestNewValidation(t *testing.T) {
	b := &i2ctest.Record{}
	dev, err := is31fl3733.New(b, is31fl3733.AddressGNDGND, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	devs := []*is31fl3733.Dev{dev}

	tests := []struct {
		name    string
		devs    []*is31fl3733.Dev
		leds    []LED
		wantErr bool
	}{
		{"no chips", nil, nil, true},
		{"empty table", devs, nil, false},
		{"valid entry", devs, []LED{{Driver: 0, Register: 191}}, false},
		{"missing driver slot", devs, []LED{{Driver: 1, Register: 0}}, true},
		{"negative driver slot", devs, []LED{{Driver: -1, Register: 0}}, true},
		{"register beyond PWM bank", devs, []LED{{Driver: 0, Register: 192}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.devs, tt.leds)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetValueResolvesDescriptor(t *testing.T) {
	m, b := testMatrix(t, []LED{
		{Driver: 0, Register: 0},
		{Driver: 1, Register: 21},
	})

	m.SetValue(1, 0xAB)
	if err := m.FlushPWM(1); err != nil {
		t.Fatalf("FlushPWM(1) failed: %v", err)
	}

	if got := opsFor(b, is31fl3733.AddressGNDVCC); len(got) != 0 {
		t.Errorf("chip 0 saw %d transactions, want 0", len(got))
	}
	ops := opsFor(b, is31fl3733.AddressVCCVCC)
	// Unlock, PG1 select, 12 chunks.
	if len(ops) != 14 {
		t.Fatalf("chip 1 saw %d transactions, want 14", len(ops))
	}
	// Register 21 lands in chunk 1 at data byte 5.
	if ops[3].W[0] != 0x10 || ops[3].W[1+5] != 0xAB {
		t.Errorf("chunk 1 = %#v, want 0xAB at register 0x15", ops[3].W)
	}
}

func TestSetValueOutOfRange(t *testing.T) {
	m, b := testMatrix(t, []LED{{Driver: 0, Register: 0}})

	m.SetValue(-1, 255)
	m.SetValue(1, 255)
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if len(b.Ops) != 0 {
		t.Errorf("out-of-range SetValue caused %d transactions, want 0", len(b.Ops))
	}
}

func TestSetAllReachesEveryChip(t *testing.T) {
	m, b := testMatrix(t, []LED{
		{Driver: 0, Register: 5},
		{Driver: 1, Register: 5},
	})

	m.SetAll(0x33)
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	for _, addr := range []uint16{is31fl3733.AddressGNDVCC, is31fl3733.AddressVCCVCC} {
		ops := opsFor(b, addr)
		if len(ops) != 14 {
			t.Fatalf("chip 0x%02X saw %d transactions, want 14", addr, len(ops))
		}
		if ops[2].W[1+5] != 0x33 {
			t.Errorf("chip 0x%02X chunk 0 = %#v, want 0x33 at register 5", addr, ops[2].W)
		}
	}
}

func TestSetEnabledBitMapping(t *testing.T) {
	m, b := testMatrix(t, []LED{
		{Driver: 0, Register: 3},
		{Driver: 0, Register: 10},
	})

	m.SetEnabled(0, true)
	m.SetEnabled(1, true)
	if err := m.FlushLEDControl(0); err != nil {
		t.Fatalf("FlushLEDControl(0) failed: %v", err)
	}

	ops := opsFor(b, is31fl3733.AddressGNDVCC)
	if len(ops) != 2+is31fl3733.NumControlRegisters {
		t.Fatalf("chip 0 saw %d transactions, want %d", len(ops), 2+is31fl3733.NumControlRegisters)
	}
	// Register 3 is bit 3 of control byte 0; register 10 is bit 2 of byte 1.
	if !bytes.Equal(ops[2].W, []byte{0x00, 1 << 3}) {
		t.Errorf("control byte 0 = %#v, want bit 3 set", ops[2].W)
	}
	if !bytes.Equal(ops[3].W, []byte{0x01, 1 << 2}) {
		t.Errorf("control byte 1 = %#v, want bit 2 set", ops[3].W)
	}
}

func TestEnableAll(t *testing.T) {
	m, b := testMatrix(t, []LED{
		{Driver: 0, Register: 0},
		{Driver: 1, Register: 8},
	})

	m.EnableAll(true)
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	if ops := opsFor(b, is31fl3733.AddressGNDVCC); !bytes.Equal(ops[2].W, []byte{0x00, 0x01}) {
		t.Errorf("chip 0 control byte 0 = %#v, want bit 0 set", ops[2].W)
	}
	if ops := opsFor(b, is31fl3733.AddressVCCVCC); !bytes.Equal(ops[3].W, []byte{0x01, 0x01}) {
		t.Errorf("chip 1 control byte 1 = %#v, want bit 0 set", ops[3].W)
	}
}

func TestFlushSlotRange(t *testing.T) {
	m, _ := testMatrix(t, nil)
	if err := m.FlushPWM(2); err == nil {
		t.Error("FlushPWM on a missing slot should fail")
	}
	if err := m.FlushPWM(-1); err == nil {
		t.Error("FlushPWM on a negative slot should fail")
	}
	if err := m.FlushLEDControl(2); err == nil {
		t.Error("FlushLEDControl on a missing slot should fail")
	}
}

func TestLenAndString(t *testing.T) {
	m, _ := testMatrix(t, []LED{
		{Driver: 0, Register: 0},
		{Driver: 0, Register: 1},
		{Driver: 1, Register: 0},
	})
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	want := "ledmatrix.Matrix{3 LEDs on 2 chips}"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
