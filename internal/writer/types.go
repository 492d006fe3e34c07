// internal/writer/types.go
package writer

import (
	"math"
	"time"

	"github.com/tamzrod/modbus-instrument/internal/device"
)

// FrameChannels is the mirrored channel order. Each channel occupies two
// registers (float32, high word first) starting at Plan.Address.
var FrameChannels = [...]string{
	device.ChanVoltage,
	device.ChanCurrent,
	device.ChanPower,
	device.ChanEnergy,
	device.ChanTemp1,
	device.ChanTemp2,
}

// FrameRegisters is the data block size of one mirrored frame.
const FrameRegisters = len(FrameChannels) * 2

// Frame is one completed multi-channel sample. Channels not present in
// the emitted frame stay NaN.
type Frame struct {
	At     time.Time
	Values [len(FrameChannels)]float64
}

func newFrame(at time.Time) Frame {
	f := Frame{At: at}
	for i := range f.Values {
		f.Values[i] = math.NaN()
	}
	return f
}

func channelSlot(name string) (int, bool) {
	for i, n := range FrameChannels {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// StatusPlan places the status block of one instrument.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built mirror plan for one instrument.
type Plan struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
	Status   *StatusPlan
}

// Writer writes frames into the target memory.
type Writer interface {
	Write(f Frame) error
}
