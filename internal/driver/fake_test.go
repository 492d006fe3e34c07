// internal/driver/fake_test.go
package driver

import (
	"context"
	"errors"
	"sync"

	"github.com/tamzrod/modbus-instrument/internal/transport"
)

// fakeConn is an in-memory register bank.
type fakeConn struct {
	mu      sync.Mutex
	regs    map[uint16]uint16
	readErr error
	openErr error

	open   bool
	opens  int
	closes int
	reads  int
	writes int
}

func newFakeConn(regs map[uint16]uint16) *fakeConn {
	if regs == nil {
		regs = map[uint16]uint16{}
	}
	return &fakeConn{regs: regs}
}

func (f *fakeConn) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	f.opens++
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.closes++
	return nil
}

func (f *fakeConn) ReadHoldingRegisters(ctx context.Context, addr, count uint16) ([]uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return nil, transport.ErrNotOpen
	}
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = f.regs[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeConn) WriteMultipleRegisters(ctx context.Context, addr uint16, values []uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return transport.ErrNotOpen
	}
	f.writes++
	for i, v := range values {
		f.regs[addr+uint16(i)] = v
	}
	return nil
}

func (f *fakeConn) isOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// idnConn answers *IDN? instead of exposing the identification block.
type idnConn struct {
	*fakeConn
	idn string
}

func (c *idnConn) Identify(ctx context.Context) (string, error) { return c.idn, nil }

type fakeDiscoverer struct {
	candidates []string
	gotOpts    transport.Options
}

func (f *fakeDiscoverer) Candidates(ctx context.Context, opts transport.Options) ([]transport.Candidate, error) {
	f.gotOpts = opts
	out := make([]transport.Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		out = append(out, transport.Candidate{Descriptor: c, Options: opts})
	}
	return out, nil
}

type fakeDialer struct {
	conns map[string]transport.Conn
}

var errNoSuchPort = errors.New("no such port")

func (f *fakeDialer) Dial(c transport.Candidate) (transport.Conn, error) {
	conn, ok := f.conns[c.Descriptor]
	if !ok {
		return nil, errNoSuchPort
	}
	return conn, nil
}

// identRegs builds the 4-word identification block.
func identRegs(model uint16, serial uint32, fw uint16) map[uint16]uint16 {
	return map[uint16]uint16{
		0: model,
		1: uint16(serial >> 16),
		2: uint16(serial),
		3: fw,
	}
}
