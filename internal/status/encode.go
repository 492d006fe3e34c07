// internal/status/encode.go
package status

import (
	"errors"

	tmodbus "github.com/tamzrod/modbus-instrument/internal/transport/modbus"
)

// Encode converts a Snapshot and pre-encoded name registers into a full
// status block. No IO.
func Encode(s Snapshot, nameRegs []uint16) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotSamplesHi] = uint16(s.Samples >> 16)
	regs[SlotSamplesLo] = uint16(s.Samples)

	for i := 0; i < SlotDeviceNameSlots && i < len(nameRegs); i++ {
		regs[SlotDeviceNameStart+i] = nameRegs[i]
	}

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers,
// two bytes per register, big-endian. Non-printable bytes become '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

// ErrorCode extracts a best-effort code from a tick error: the Modbus
// exception code when there is one, else whatever code the error
// exposes, else 1.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}
	if code, ok := tmodbus.ExceptionCode(err); ok {
		return code
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return 1
}
