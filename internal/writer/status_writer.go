// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tamzrod/modbus-instrument/internal/status"
)

// StatusWriter is the delivery-only contract for instrument status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// statusField is one independently written run of the status block.
type statusField struct {
	name string
	slot uint16
	regs func(s status.Snapshot) []uint16
}

// liveFields are rewritten individually, in slot order, when they change.
// The device name is static and only goes out with the full block.
var liveFields = [...]statusField{
	{"health", status.SlotHealthCode, func(s status.Snapshot) []uint16 { return []uint16{s.Health} }},
	{"last_error", status.SlotLastErrorCode, func(s status.Snapshot) []uint16 { return []uint16{s.LastErrorCode} }},
	{"seconds_in_error", status.SlotSecondsInError, func(s status.Snapshot) []uint16 { return []uint16{s.SecondsInError} }},
	{"samples", status.SlotSamplesHi, func(s status.Snapshot) []uint16 {
		return []uint16{uint16(s.Samples >> 16), uint16(s.Samples)}
	}},
}

// deviceStatusWriter asserts the whole block once, then writes only the
// fields that changed. Any failed write forces a full re-assert.
type deviceStatusWriter struct {
	plan *StatusPlan
	cli  endpointClient
	base uint16

	asserted bool
	last     status.Snapshot
	nameRegs []uint16
}

// NewDeviceStatusWriter builds a status writer if the plan enables one.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (*deviceStatusWriter, bool) {
	sp := plan.Status
	if sp == nil {
		return nil, false
	}
	return &deviceStatusWriter{
		plan:     sp,
		cli:      clients[sp.Endpoint],
		base:     sp.BaseSlot * status.SlotsPerDevice,
		nameRegs: status.EncodeDeviceName(sp.DeviceName),
	}, true
}

// WriteStatus delivers a snapshot into status memory.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: no client for endpoint %s", sw.plan.Endpoint)
	}

	if !sw.asserted {
		if err := sw.put(sw.base, status.Encode(s, sw.nameRegs)); err != nil {
			return fmt.Errorf("status writer: full block at %d: %w", sw.base, err)
		}
		sw.asserted = true
		sw.last = s
		return nil
	}

	var errs []error
	for _, f := range liveFields {
		next := f.regs(s)
		if slices.Equal(f.regs(sw.last), next) {
			continue
		}
		if err := sw.put(sw.base+f.slot, next); err != nil {
			errs = append(errs, fmt.Errorf("%s at slot %d: %w", f.name, f.slot, err))
		}
	}
	if len(errs) > 0 {
		sw.asserted = false
		return fmt.Errorf("status writer: %w", errors.Join(errs...))
	}
	sw.last = s
	return nil
}

func (sw *deviceStatusWriter) put(addr uint16, regs []uint16) error {
	return sw.cli.WriteRegisters(areaHoldingRegisters, sw.plan.UnitID, addr, regs)
}
