// internal/device/device_test.go
package device

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tamzrod/modbus-instrument/internal/errdefs"
	"github.com/tamzrod/modbus-instrument/internal/profile"
)

func newTestInstance(t *testing.T, conn *fakeConn) *Instance {
	t.Helper()
	p, err := profile.Find(6006)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	d, err := New(conn, p, Identity{Serial: "00012345", Firmware: "1.28"}, "/dev/ttyUSB0", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return d
}

func TestDecodeIdentity(t *testing.T) {
	id, err := DecodeIdentity([]uint16{60062, 0x0001, 0xE240, 128})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Code != 6006 {
		t.Fatalf("code=%d want=6006", id.Code)
	}
	if id.RawModel != 60062 {
		t.Fatalf("raw model=%d want=60062", id.RawModel)
	}
	if id.Serial != "00123456" {
		t.Fatalf("serial=%q want=00123456", id.Serial)
	}
	if id.Firmware != "1.28" {
		t.Fatalf("firmware=%q want=1.28", id.Firmware)
	}
}

func TestDecodeIdentity_Short(t *testing.T) {
	if _, err := DecodeIdentity([]uint16{60062}); err == nil {
		t.Fatalf("expected error for short block")
	}
}

func TestNew_TopologyAndIdentity(t *testing.T) {
	d := newTestInstance(t, newFakeConn())

	want := []string{"V", "I", "P", "E", "T1", "T2"}
	chs := d.Channels()
	if len(chs) != len(want) {
		t.Fatalf("expected %d channels, got %d", len(want), len(chs))
	}
	for i, name := range want {
		if chs[i].Name != name || chs[i].Index != i || chs[i].Kind != ChannelAnalog {
			t.Fatalf("channel %d = %+v, want %s", i, chs[i], name)
		}
	}
	if _, ok := d.Channel("C"); ok {
		t.Fatalf("capacity channel must not exist")
	}

	if len(d.Groups()) != 1 || d.Groups()[0].Name != "1" || len(d.Groups()[0].Channels) != 6 {
		t.Fatalf("unexpected groups: %+v", d.Groups())
	}

	id := d.Identity()
	if id.String() != "Riden,RD6006,00012345,1.28" {
		t.Fatalf("identity string = %q", id.String())
	}
	if d.Limits().MaxSamples() != 0 || d.Limits().MaxMsec() != 0 {
		t.Fatalf("limits must start unset")
	}
}

func TestNew_RequiresConnAndProfile(t *testing.T) {
	if _, err := New(nil, nil, Identity{}, "", nil); !errdefs.IsArgument(err) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestReadWriteRegister(t *testing.T) {
	conn := newFakeConn()
	d := newTestInstance(t, conn)
	ctx := context.Background()

	if err := d.WriteRegister(ctx, RegVoltageTarget, 1234); err != nil {
		t.Fatalf("write: %v", err)
	}
	regs, err := d.ReadRegisters(ctx, RegVoltageTarget, 2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if regs[0] != 1234 || regs[1] != 0 {
		t.Fatalf("unexpected regs: %v", regs)
	}
}

func TestReadRegisters_TransportErrorUnchanged(t *testing.T) {
	conn := newFakeConn()
	sentinel := errors.New("i/o timeout")
	conn.readErr = sentinel
	d := newTestInstance(t, conn)

	_, err := d.ReadRegisters(context.Background(), RegVoltage, 4)
	if err != sentinel {
		t.Fatalf("transport error must pass through unchanged, got %v", err)
	}
}

func TestAccess_Serialized(t *testing.T) {
	conn := newFakeConn()
	conn.delay = time.Millisecond
	d := newTestInstance(t, conn)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = d.ReadRegisters(ctx, RegVoltage, 4)
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = d.WriteRegister(ctx, RegCurrentLimit, uint16(i))
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&conn.maxInFlight); n != 1 {
		t.Fatalf("register transactions interleaved: max in flight=%d", n)
	}
}

func TestOpenClose(t *testing.T) {
	conn := newFakeConn()
	d := newTestInstance(t, conn)

	if !d.IsOpen() {
		t.Fatalf("instance should be open")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if conn.closes != 1 {
		t.Fatalf("expected 1 transport close, got %d", conn.closes)
	}
	if d.IsOpen() {
		t.Fatalf("instance should report closed")
	}

	if _, err := d.ReadRegisters(context.Background(), RegVoltage, 1); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if err := d.WriteRegister(context.Background(), RegEnable, 1); !errdefs.IsArgument(err) {
		t.Fatalf("expected argument error, got %v", err)
	}

	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := d.ReadRegisters(context.Background(), RegVoltage, 1); err != nil {
		t.Fatalf("read after reopen: %v", err)
	}
}

func TestLookupRegister(t *testing.T) {
	r, ok := LookupRegister(RegCapacity)
	if !ok || r.Width != 2 || r.Name != "capacity" {
		t.Fatalf("unexpected capacity register: %+v %v", r, ok)
	}
	if _, ok := LookupRegister(999); ok {
		t.Fatalf("unexpected register at 999")
	}
}
