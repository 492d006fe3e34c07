// internal/device/access.go
package device

import (
	"context"
	"fmt"

	"github.com/tamzrod/modbus-instrument/internal/errdefs"
)

// ReadRegisters reads count holding registers starting at addr.
// The instance lock is held for exactly this one round trip.
// Transport errors are returned unchanged.
func (d *Instance) ReadRegisters(ctx context.Context, addr, count uint16) ([]uint16, error) {
	if d == nil {
		return nil, fmt.Errorf("device: nil instance: %w", errdefs.ErrArgument)
	}
	if count == 0 {
		return nil, fmt.Errorf("device: read of zero registers at %d: %w", addr, errdefs.ErrArgument)
	}

	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, ErrNotOpen
	}
	regs, err := d.conn.ReadHoldingRegisters(ctx, addr, count)
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if d.log.Debugging() {
		for i, v := range regs {
			d.log.Debug("read modbus", "register", int(addr)+i, "val", v)
		}
	}
	return regs, nil
}

// WriteRegister writes one holding register.
func (d *Instance) WriteRegister(ctx context.Context, addr, value uint16) error {
	if d == nil {
		return fmt.Errorf("device: nil instance: %w", errdefs.ErrArgument)
	}

	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrNotOpen
	}
	err := d.conn.WriteMultipleRegisters(ctx, addr, []uint16{value})
	d.mu.Unlock()

	d.log.Debug("write modbus", "register", addr, "val", value, "err", err)
	return err
}
