// internal/driver/driver.go

// Package driver is the Riden RD60xx driver descriptor: scan, open/close,
// configuration and acquisition control over device instances.
package driver

import (
	"context"
	"errors"
	"sync"

	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/poller"
	"github.com/tamzrod/modbus-instrument/internal/transport"
)

const (
	Name     = "riden-rd"
	LongName = "Riden RD60xx series power supply"
)

// Driver is the fixed shape every instrument driver presents to the host.
// It holds no list of discovered instances: Scan hands them to the caller.
type Driver struct {
	scanner Scanner
	log     *logging.Logger

	mu      sync.Mutex
	pollers map[*device.Instance]*poller.Poller
}

// New creates a driver that finds candidates with disc and connects with dial.
func New(disc transport.Discoverer, dial transport.Dialer, log *logging.Logger) *Driver {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("driver", Name)
	return &Driver{
		scanner: Scanner{Discoverer: disc, Dialer: dial, Log: log},
		log:     log,
		pollers: make(map[*device.Instance]*poller.Poller),
	}
}

// Scan probes every candidate and returns the matched, unopened instances.
func (d *Driver) Scan(ctx context.Context, opts transport.Options) ([]*device.Instance, error) {
	return d.scanner.Scan(ctx, opts)
}

// Open opens the instance transport.
func (d *Driver) Open(ctx context.Context, inst *device.Instance) error {
	if inst == nil {
		return argError("nil instance")
	}
	return inst.Open(ctx)
}

// Close stops any running acquisition and releases the transport.
func (d *Driver) Close(inst *device.Instance) error {
	if inst == nil {
		return argError("nil instance")
	}
	if err := d.AcquisitionStop(inst); err != nil {
		return err
	}

	d.mu.Lock()
	delete(d.pollers, inst)
	d.mu.Unlock()

	return inst.Close()
}

// Clear closes every instance the caller owns.
func (d *Driver) Clear(insts []*device.Instance) error {
	var errs []error
	for _, inst := range insts {
		if err := d.Close(inst); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AcquisitionStart installs a poller on an open instance and starts it.
func (d *Driver) AcquisitionStart(ctx context.Context, inst *device.Instance, cfg poller.Config) error {
	if inst == nil {
		return argError("nil instance")
	}
	if !inst.IsOpen() {
		return device.ErrNotOpen
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pollers[inst]; ok && p.State() == poller.Running {
		return poller.ErrRunning
	}

	p, err := poller.New(inst, cfg)
	if err != nil {
		return err
	}
	if err := p.Start(ctx); err != nil {
		return err
	}
	d.pollers[inst] = p
	return nil
}

// AcquisitionStop stops the instance poller. Stopping an instance with no
// running acquisition is a no-op.
func (d *Driver) AcquisitionStop(inst *device.Instance) error {
	if inst == nil {
		return argError("nil instance")
	}

	d.mu.Lock()
	p, ok := d.pollers[inst]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	return p.Stop()
}

// Poller returns the poller last installed on inst.
func (d *Driver) Poller(inst *device.Instance) (*poller.Poller, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pollers[inst]
	return p, ok
}
