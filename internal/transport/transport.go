// internal/transport/transport.go
package transport

import (
	"context"
	"errors"
)

// ErrNotOpen is returned by a Conn used before Open or after Close.
var ErrNotOpen = errors.New("transport: connection not open")

// Conn is the register transport an instrument is driven over.
// Implementations return register values already in host order.
type Conn interface {
	Open(ctx context.Context) error
	Close() error
	ReadHoldingRegisters(ctx context.Context, addr, count uint16) ([]uint16, error)
	WriteMultipleRegisters(ctx context.Context, addr uint16, values []uint16) error
}

// Identifier is implemented by transports that answer an SCPI *IDN? query.
// The Modbus transport does not; its instruments identify through the
// register block. The scanner checks for it on every conn.
type Identifier interface {
	Identify(ctx context.Context) (string, error)
}

// Candidate is one connection the scanner may probe.
type Candidate struct {
	Descriptor string
	Options    Options
}

// Discoverer produces scan candidates.
type Discoverer interface {
	Candidates(ctx context.Context, opts Options) ([]Candidate, error)
}

// Dialer turns a candidate into an unopened Conn.
type Dialer interface {
	Dial(c Candidate) (Conn, error)
}
