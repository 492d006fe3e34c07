// internal/device/instance.go
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/tamzrod/modbus-instrument/internal/errdefs"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/profile"
	"github.com/tamzrod/modbus-instrument/internal/transport"
)

// ErrNotOpen is returned for register access on an instance that is
// not open.
var ErrNotOpen = fmt.Errorf("device: instance not open: %w", errdefs.ErrArgument)

// Instance is one physical unit in use. It owns its transport exclusively.
// The profile never changes after construction.
type Instance struct {
	// mu guards conn for one transport round trip at a time.
	mu   sync.Mutex
	conn transport.Conn
	open bool

	profile *profile.Profile
	ident   Identity
	desc    string

	channels []*Channel
	groups   []*ChannelGroup
	limits   *Limits

	log *logging.Logger
}

// New binds an unopened conn to a matched profile and builds the
// power-supply channel topology.
func New(conn transport.Conn, p *profile.Profile, id Identity, descriptor string, log *logging.Logger) (*Instance, error) {
	if conn == nil || p == nil {
		return nil, fmt.Errorf("device: conn and profile required: %w", errdefs.ErrArgument)
	}
	if log == nil {
		log = logging.Discard()
	}

	id.Vendor = profile.Vendor
	id.Model = p.Name

	chs, groups := powerSupplyTopology()
	return &Instance{
		conn:     conn,
		profile:  p,
		ident:    id,
		desc:     descriptor,
		channels: chs,
		groups:   groups,
		limits:   NewLimits(),
		log:      log.With("device", p.Name, "serial", id.Serial),
	}, nil
}

func (d *Instance) Profile() *profile.Profile { return d.profile }
func (d *Instance) Identity() Identity { return d.ident }
func (d *Instance) Descriptor() string { return d.desc }
func (d *Instance) Channels() []*Channel { return d.channels }
func (d *Instance) Groups() []*ChannelGroup { return d.groups }
func (d *Instance) Limits() *Limits { return d.limits }
func (d *Instance) Logger() *logging.Logger { return d.log }

// Channel returns the channel with the given name.
func (d *Instance) Channel(name string) (*Channel, bool) {
	for _, ch := range d.channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return nil, false
}

// IsOpen reports whether the transport is open.
func (d *Instance) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Open opens the transport. Opening an open instance is a no-op.
func (d *Instance) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return nil
	}
	if err := d.conn.Open(ctx); err != nil {
		return err
	}
	d.open = true
	return nil
}

// Close releases the transport. Further register access fails with
// ErrNotOpen until Open is called again.
func (d *Instance) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return nil
	}
	d.open = false
	return d.conn.Close()
}
