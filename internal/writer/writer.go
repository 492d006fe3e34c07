// internal/writer/writer.go
package writer

import (
	"fmt"
	"math"
)

// areaHoldingRegisters is the only memory area the mirror writes.
const areaHoldingRegisters byte = 3

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

type frameWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New returns a Writer delivering frames per plan.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &frameWriter{
		plan:    plan,
		clients: clients,
	}
}

func (w *frameWriter) Write(f Frame) error {
	cli := w.clients[w.plan.Endpoint]
	if cli == nil {
		return fmt.Errorf("writer: missing client for endpoint %s", w.plan.Endpoint)
	}

	regs := EncodeFrame(f)
	if err := cli.WriteRegisters(areaHoldingRegisters, w.plan.UnitID, w.plan.Address, regs); err != nil {
		return fmt.Errorf(
			"writer: ep=%s unit=%d addr=%d err=%w",
			w.plan.Endpoint, w.plan.UnitID, w.plan.Address, err,
		)
	}
	return nil
}

// EncodeFrame packs the frame as float32 register pairs, high word first.
func EncodeFrame(f Frame) []uint16 {
	regs := make([]uint16, FrameRegisters)
	for i, v := range f.Values {
		bits := math.Float32bits(float32(v))
		regs[2*i] = uint16(bits >> 16)
		regs[2*i+1] = uint16(bits)
	}
	return regs
}
