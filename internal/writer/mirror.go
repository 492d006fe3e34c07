// internal/writer/mirror.go
package writer

import (
	"context"
	"sync"
	"time"

	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/poller"
	"github.com/tamzrod/modbus-instrument/internal/status"
)

// Mirror is a poller.Sink that copies every completed frame into a remote
// register memory and keeps the instrument status block current.
type Mirror struct {
	data   Writer
	status StatusWriter // nil when disabled
	log    *logging.Logger

	mu      sync.Mutex
	tracker status.Tracker
	frame   Frame
	inFrame bool
}

// NewMirror wires a frame writer and an optional status writer.
func NewMirror(data Writer, sw StatusWriter, log *logging.Logger) *Mirror {
	if log == nil {
		log = logging.Discard()
	}
	m := &Mirror{
		data:   data,
		status: sw,
		log:    log.With("component", "mirror"),
	}
	m.tracker.Reset()
	return m
}

// Send implements poller.Sink.
func (m *Mirror) Send(p poller.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch p.Type {
	case poller.PacketHeader:
		m.tracker.Reset()
		m.inFrame = false
		return m.writeStatus()

	case poller.PacketFrameBegin:
		m.frame = newFrame(p.At)
		m.inFrame = true

	case poller.PacketAnalog:
		if !m.inFrame || p.Analog == nil || p.Analog.Channel == nil {
			return nil
		}
		if i, ok := channelSlot(p.Analog.Channel.Name); ok {
			m.frame.Values[i] = p.Analog.Value
		}

	case poller.PacketFrameEnd:
		if !m.inFrame {
			return nil
		}
		m.inFrame = false
		if err := m.data.Write(m.frame); err != nil {
			return err
		}
		if m.tracker.Frame() {
			return m.writeStatus()
		}

	case poller.PacketEnd:
		m.inFrame = false
		if m.tracker.Stale() {
			return m.writeStatus()
		}
	}
	return nil
}

// ReportError records a failed poll tick in the status block.
// Wire it to poller.Config.OnError.
func (m *Mirror) ReportError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tracker.Error(status.ErrorCode(err)) {
		if werr := m.writeStatus(); werr != nil {
			m.log.Warn("status write failed", "error", werr)
		}
	}
}

// Run advances seconds_in_error at 1 Hz until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Mirror) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tracker.Tick() {
		if err := m.writeStatus(); err != nil {
			m.log.Warn("status seconds tick write failed", "error", err)
		}
	}
}

// Snapshot returns the current status snapshot.
func (m *Mirror) Snapshot() status.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Snapshot()
}

func (m *Mirror) writeStatus() error {
	if m.status == nil {
		return nil
	}
	return m.status.WriteStatus(m.tracker.Snapshot())
}
