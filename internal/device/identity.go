// internal/device/identity.go
package device

import (
	"fmt"
	"strings"
)

// Identity is the decoded identification block of one unit.
type Identity struct {
	Vendor   string
	Model    string
	Code     uint16 // model code, raw/10
	RawModel uint16 // model register as read
	Serial   string // zero-padded decimal
	Firmware string // major.minor
}

// DecodeIdentity decodes the 4-register block read from address 0.
// Model is not filled in: that requires a profile lookup on Code.
func DecodeIdentity(regs []uint16) (Identity, error) {
	if len(regs) < int(IdentBlock) {
		return Identity{}, fmt.Errorf("device: identification block: got %d registers, want %d", len(regs), IdentBlock)
	}
	serial := uint32(regs[RegSerial])<<16 | uint32(regs[RegSerial+1])
	return Identity{
		RawModel: regs[RegModel],
		Code:     regs[RegModel] / 10,
		Serial:   fmt.Sprintf("%08d", serial),
		Firmware: fmt.Sprintf("%1.2f", float64(regs[RegFirmware])/100.0),
	}, nil
}

// String renders the identity in SCPI *IDN? order.
func (id Identity) String() string {
	return strings.Join([]string{id.Vendor, id.Model, id.Serial, id.Firmware}, ",")
}
