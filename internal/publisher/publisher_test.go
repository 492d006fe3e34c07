// internal/publisher/publisher_test.go
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/modbus-instrument/internal/config"
	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/poller"
	"github.com/tamzrod/modbus-instrument/internal/profile"
)

// ---- fakes ----

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                       { return true }
func (t *fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

// stalledToken completes only when done is closed.
type stalledToken struct{ done chan struct{} }

func (t *stalledToken) Wait() bool {
	<-t.done
	return true
}
func (t *stalledToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}
func (t *stalledToken) Done() <-chan struct{} { return t.done }
func (t *stalledToken) Error() error          { return nil }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	msgs  []message
	err   error
	stall chan struct{} // non-nil: tokens stay pending until closed
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.msgs = append(f.msgs, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	if f.stall != nil {
		return &stalledToken{done: f.stall}
	}
	return &fakeToken{err: f.err}
}

type nopConn struct{}

func (nopConn) Open(context.Context) error { return nil }
func (nopConn) Close() error               { return nil }
func (nopConn) ReadHoldingRegisters(context.Context, uint16, uint16) ([]uint16, error) {
	return nil, nil
}
func (nopConn) WriteMultipleRegisters(context.Context, uint16, []uint16) error { return nil }

func testInstance(t *testing.T) *device.Instance {
	t.Helper()
	p, _ := profile.Find(6012)
	inst, err := device.New(nopConn{}, p, device.Identity{Serial: "00001234"}, "test", nil)
	if err != nil {
		t.Fatalf("device.New: %v", err)
	}
	return inst
}

// ---- tests ----

func TestStatePayload_WillOmitsTimestamp(t *testing.T) {
	var sp StatePayload
	if err := json.Unmarshal(statePayload(StateOffline, "", time.Time{}), &sp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sp.State != StateOffline || sp.Timestamp != nil {
		t.Fatalf("will payload=%+v", sp)
	}
}

func TestTopics(t *testing.T) {
	if got := FrameTopic("lab", "00001234"); got != "lab/00001234/frame" {
		t.Fatalf("frame topic=%q", got)
	}
	if got := StateTopic("lab", "00001234"); got != "lab/00001234/state" {
		t.Fatalf("state topic=%q", got)
	}
}

func TestPublisher_Stream(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, config.MQTTConfig{TopicPrefix: "lab", QoS: 1}, nil)
	inst := testInstance(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ch, _ := inst.Channel("V")

	pkts := []poller.Packet{
		{Type: poller.PacketHeader},
		{Type: poller.PacketFrameBegin},
		{Type: poller.PacketAnalog, Analog: &poller.Analog{
			Channel: ch, Quantity: poller.QuantityVoltage, Unit: poller.UnitVolt, Digits: 2, Value: 12.340000000000002,
		}},
		{Type: poller.PacketFrameEnd},
		{Type: poller.PacketEnd},
	}
	for _, pkt := range pkts {
		pkt.Device = inst
		pkt.At = at
		if err := p.Send(pkt); err != nil {
			t.Fatalf("Send(%v): %v", pkt.Type, err)
		}
	}

	if len(fc.msgs) != 3 {
		t.Fatalf("published %d messages, want 3", len(fc.msgs))
	}

	start, frame, end := fc.msgs[0], fc.msgs[1], fc.msgs[2]
	if start.topic != "lab/00001234/state" || !start.retained || start.qos != 1 {
		t.Fatalf("start=%+v", start)
	}
	if end.topic != "lab/00001234/state" || !end.retained {
		t.Fatalf("end=%+v", end)
	}
	if frame.topic != "lab/00001234/frame" || frame.retained {
		t.Fatalf("frame=%+v", frame)
	}

	var fp FramePayload
	if err := json.Unmarshal(frame.payload, &fp); err != nil {
		t.Fatalf("frame payload: %v", err)
	}
	if fp.Model != "RD6012" || fp.Serial != "00001234" || !fp.Timestamp.Equal(at) {
		t.Fatalf("frame header=%+v", fp)
	}
	if len(fp.Channels) != 1 || fp.Channels[0].Channel != "V" || fp.Channels[0].Value != 12.34 || fp.Channels[0].Unit != "V" {
		t.Fatalf("channels=%+v", fp.Channels)
	}

	var sp StatePayload
	_ = json.Unmarshal(end.payload, &sp)
	if sp.State != StateStopped || sp.Model != "RD6012" || sp.Timestamp == nil {
		t.Fatalf("end state=%+v", sp)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	boom := errors.New("not connected")
	fc := &fakeClient{err: boom}
	p := newPublisher(fc, config.MQTTConfig{TopicPrefix: "lab"}, nil)

	err := p.Send(poller.Packet{Type: poller.PacketHeader, Device: testInstance(t)})
	if !errors.Is(err, ErrPublishFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
}

func TestPublisher_IgnoresDevicelessPackets(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, config.MQTTConfig{TopicPrefix: "lab"}, nil)
	if err := p.Send(poller.Packet{Type: poller.PacketHeader}); err != nil || len(fc.msgs) != 0 {
		t.Fatalf("err=%v msgs=%d", err, len(fc.msgs))
	}
}

func sendFrame(t *testing.T, p *Publisher, inst *device.Instance) error {
	t.Helper()
	ch, _ := inst.Channel("V")
	for _, pkt := range []poller.Packet{
		{Type: poller.PacketFrameBegin},
		{Type: poller.PacketAnalog, Analog: &poller.Analog{Channel: ch, Unit: poller.UnitVolt, Digits: 2, Value: 5}},
	} {
		pkt.Device = inst
		if err := p.Send(pkt); err != nil {
			t.Fatalf("Send(%v): %v", pkt.Type, err)
		}
	}
	return p.Send(poller.Packet{Type: poller.PacketFrameEnd, Device: inst})
}

func TestPublisher_StalledBrokerDoesNotBlockFrames(t *testing.T) {
	fc := &fakeClient{stall: make(chan struct{})}
	p := newPublisher(fc, config.MQTTConfig{TopicPrefix: "lab", QoS: 1}, nil)
	p.maxInflight = 2
	inst := testInstance(t)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := sendFrame(t, p, inst); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if waited := time.Since(start); waited > time.Second {
		t.Fatalf("frame publish waited %v for the broker", waited)
	}

	// backlog full: the frame is dropped, not queued
	if err := sendFrame(t, p, inst); !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("expected backlog error, got %v", err)
	}
	if len(fc.msgs) != 2 {
		t.Fatalf("published %d frames, want 2", len(fc.msgs))
	}

	close(fc.stall)
	deadline := time.Now().Add(2 * time.Second)
	for p.inflight.Load() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watchers did not drain: %d", p.inflight.Load())
		}
		time.Sleep(time.Millisecond)
	}
	if err := sendFrame(t, p, inst); err != nil {
		t.Fatalf("frame after drain: %v", err)
	}
}

func TestPublisher_FrameErrorReportedWhenTokenDone(t *testing.T) {
	boom := errors.New("not connected")
	fc := &fakeClient{err: boom}
	p := newPublisher(fc, config.MQTTConfig{TopicPrefix: "lab"}, nil)

	if err := sendFrame(t, p, testInstance(t)); !errors.Is(err, ErrPublishFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped frame error, got %v", err)
	}
}
