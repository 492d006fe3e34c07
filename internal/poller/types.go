// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-instrument/internal/device"
)

// PacketType tags a Packet.
type PacketType int

const (
	PacketHeader     PacketType = iota // stream start
	PacketFrameBegin                   // one multi-channel sample follows
	PacketAnalog                       // one channel value
	PacketFrameEnd
	PacketEnd // stream end
)

func (t PacketType) String() string {
	switch t {
	case PacketHeader:
		return "header"
	case PacketFrameBegin:
		return "frame_begin"
	case PacketAnalog:
		return "analog"
	case PacketFrameEnd:
		return "frame_end"
	case PacketEnd:
		return "end"
	}
	return "unknown"
}

// Quantity is the measured quantity of an analog value.
type Quantity int

const (
	QuantityVoltage Quantity = iota
	QuantityCurrent
	QuantityPower
	QuantityCapacity
	QuantityEnergy
	QuantityTemperature
)

func (q Quantity) String() string {
	switch q {
	case QuantityVoltage:
		return "voltage"
	case QuantityCurrent:
		return "current"
	case QuantityPower:
		return "power"
	case QuantityCapacity:
		return "capacity"
	case QuantityEnergy:
		return "energy"
	case QuantityTemperature:
		return "temperature"
	}
	return "unknown"
}

// Unit is the engineering unit of an analog value.
type Unit int

const (
	UnitVolt Unit = iota
	UnitAmpere
	UnitWatt
	UnitAmpereHour
	UnitWattHour
	UnitCelsius
)

func (u Unit) String() string {
	switch u {
	case UnitVolt:
		return "V"
	case UnitAmpere:
		return "A"
	case UnitWatt:
		return "W"
	case UnitAmpereHour:
		return "Ah"
	case UnitWattHour:
		return "Wh"
	case UnitCelsius:
		return "°C"
	}
	return "?"
}

// Analog is one channel value inside a frame.
type Analog struct {
	Channel  *device.Channel
	Quantity Quantity
	Unit     Unit
	Digits   int
	Value    float64
}

// Packet is one item of the emitted stream.
// Analog is set only for PacketAnalog.
type Packet struct {
	Type   PacketType
	Device *device.Instance
	At     time.Time
	Analog *Analog
}

// Sample is one decoded poll cycle. Capacity is decoded but never emitted.
type Sample struct {
	Voltage      float64 // V
	Current      float64 // A
	Power        float64 // W
	Capacity     float64 // Ah
	Energy       float64 // Wh
	TempInternal float64 // °C
	TempExternal float64 // °C
}

// Sink receives the emitted stream. Send must not call Poller.Stop.
type Sink interface {
	Send(p Packet) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(p Packet) error

func (f SinkFunc) Send(p Packet) error { return f(p) }
