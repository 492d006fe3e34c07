// internal/device/fake_conn_test.go
package device

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeConn is an in-memory register file that tracks overlapping calls.
type fakeConn struct {
	mu   sync.Mutex
	regs map[uint16]uint16

	readErr error
	delay   time.Duration

	inFlight    int32
	maxInFlight int32
	closes      int
}

func newFakeConn() *fakeConn {
	return &fakeConn{regs: map[uint16]uint16{}}
}

func (f *fakeConn) enter() {
	n := atomic.AddInt32(&f.inFlight, 1)
	for {
		m := atomic.LoadInt32(&f.maxInFlight)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxInFlight, m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeConn) leave() { atomic.AddInt32(&f.inFlight, -1) }

func (f *fakeConn) Open(ctx context.Context) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeConn) ReadHoldingRegisters(ctx context.Context, addr, count uint16) ([]uint16, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.enter()
	defer f.leave()

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range values {
		f.regs[addr+uint16(i)] = v
	}
	return nil
}
