// internal/poller/decode.go
package poller

import (
	"context"

	"github.com/tamzrod/modbus-instrument/internal/device"
)

// accumulatorScale converts capacity/energy counters to Ah/Wh.
const accumulatorScale = 0.001

// readBlock is one fixed-size register read of a poll cycle.
type readBlock struct {
	Address  uint16
	Quantity uint16
}

// Reads of one poll cycle, in order.
var (
	blockPrimary      = readBlock{device.RegVoltage, 4}      // V, I, (reserved), P
	blockAccumulators = readBlock{device.RegCapacity, 4}     // capH, capL, energyH, energyL
	blockTempInternal = readBlock{device.RegTempInternal, 2} // sign, magnitude
	blockTempExternal = readBlock{device.RegTempExternal, 2} // sign, magnitude
)

// readSample performs every read of one cycle.
// All-or-nothing: any failure aborts the cycle.
func readSample(ctx context.Context, d *device.Instance) (Sample, error) {
	var s Sample
	p := d.Profile()

	regs, err := d.ReadRegisters(ctx, blockPrimary.Address, blockPrimary.Quantity)
	if err != nil {
		return s, err
	}
	s.Voltage = p.Voltage.ToPhysical(regs[0])
	s.Current = p.Current.ToPhysical(regs[1])
	s.Power = p.Power.ToPhysical(regs[device.RegPower-device.RegVoltage])

	regs, err = d.ReadRegisters(ctx, blockAccumulators.Address, blockAccumulators.Quantity)
	if err != nil {
		return s, err
	}
	s.Capacity = float64(decodeU32(regs[0], regs[1])) * accumulatorScale
	s.Energy = float64(decodeU32(regs[2], regs[3])) * accumulatorScale

	regs, err = d.ReadRegisters(ctx, blockTempInternal.Address, blockTempInternal.Quantity)
	if err != nil {
		return s, err
	}
	s.TempInternal = decodeTemperature(regs[0], regs[1])

	regs, err = d.ReadRegisters(ctx, blockTempExternal.Address, blockTempExternal.Quantity)
	if err != nil {
		return s, err
	}
	s.TempExternal = decodeTemperature(regs[0], regs[1])

	return s, nil
}

// decodeU32 assembles a big-endian word pair, high word first.
func decodeU32(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

// decodeTemperature reads a sign/magnitude pair; non-zero sign is negative.
func decodeTemperature(sign, mag uint16) float64 {
	if sign != 0 {
		return -float64(mag)
	}
	return float64(mag)
}
