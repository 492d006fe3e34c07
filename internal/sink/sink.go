// internal/sink/sink.go

// Package sink holds host-side receivers for the acquisition stream.
package sink

import (
	"errors"
	"strconv"

	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/poller"
)

// ---- fan-out ----

// Multi forwards every packet to each sink in order. A failing sink does
// not stop delivery to the rest; errors are joined.
type Multi []poller.Sink

func (m Multi) Send(p poller.Packet) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ---- logging ----

// LogSink logs one line per completed frame and the stream markers.
type LogSink struct {
	log   *logging.Logger
	attrs []any
}

// NewLogSink returns a sink logging through log.
func NewLogSink(log *logging.Logger) *LogSink {
	if log == nil {
		log = logging.Discard()
	}
	return &LogSink{log: log.With("component", "stream")}
}

func (s *LogSink) Send(p poller.Packet) error {
	switch p.Type {
	case poller.PacketHeader:
		s.log.Info("stream start")
	case poller.PacketFrameBegin:
		s.attrs = s.attrs[:0]
	case poller.PacketAnalog:
		if a := p.Analog; a != nil && a.Channel != nil {
			s.attrs = append(s.attrs, a.Channel.Name,
				strconv.FormatFloat(a.Value, 'f', a.Digits, 64)+" "+a.Unit.String())
		}
	case poller.PacketFrameEnd:
		s.log.Info("frame", s.attrs...)
	case poller.PacketEnd:
		s.log.Info("stream end")
	}
	return nil
}
