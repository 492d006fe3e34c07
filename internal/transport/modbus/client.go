// internal/transport/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-instrument/internal/transport"
)

// tcpPrefix marks a Modbus TCP descriptor, e.g. "tcp/192.168.1.20:502".
const tcpPrefix = "tcp/"

// DefaultTimeout applies when the candidate carries no timeout option.
const DefaultTimeout = time.Second

// registerClient is the subset of modbus.Client this adapter uses.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// handler is the lifecycle half of a goburrow client handler.
type handler interface {
	Connect() error
	Close() error
}

// Conn implements transport.Conn over goburrow/modbus (RTU or TCP).
// It is geometry-only: requests in, big-endian words out.
type Conn struct {
	mu      sync.Mutex
	h       handler
	client  registerClient
	open    bool
	address string
}

// Dialer builds Conns from scan candidates.
type Dialer struct {
	// Logger receives goburrow frame traces. Nil disables tracing.
	Logger *log.Logger
}

// Dial implements transport.Dialer. The Conn is returned unopened.
func (d Dialer) Dial(c transport.Candidate) (transport.Conn, error) {
	if c.Descriptor == "" {
		return nil, errors.New("modbus transport: descriptor required")
	}

	slave, err := unitID(c.Options)
	if err != nil {
		return nil, err
	}
	timeout, err := timeoutOf(c.Options)
	if err != nil {
		return nil, err
	}

	if addr, ok := strings.CutPrefix(c.Descriptor, tcpPrefix); ok {
		h := modbus.NewTCPClientHandler(addr)
		h.Timeout = timeout
		h.SlaveId = slave
		h.Logger = d.Logger
		return &Conn{h: h, client: modbus.NewClient(h), address: c.Descriptor}, nil
	}

	comm, ok := c.Options.Get(transport.KeySerialComm)
	if !ok {
		comm = transport.DefaultSerialComm
	}
	sc, err := transport.ParseSerialComm(comm)
	if err != nil {
		return nil, err
	}

	h := modbus.NewRTUClientHandler(c.Descriptor)
	h.BaudRate = sc.BaudRate
	h.DataBits = sc.DataBits
	h.Parity = sc.Parity
	h.StopBits = sc.StopBits
	h.Timeout = timeout
	h.SlaveId = slave
	h.Logger = d.Logger

	return &Conn{h: h, client: modbus.NewClient(h), address: c.Descriptor}, nil
}

// Open connects the underlying handler.
func (c *Conn) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return nil
	}
	if err := c.h.Connect(); err != nil {
		return fmt.Errorf("modbus transport: connect %s: %w", c.address, err)
	}
	c.open = true
	return nil
}

// Close releases the handler. Closing twice is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil
	}
	c.open = false
	return c.h.Close()
}

// ReadHoldingRegisters issues FC3 and unpacks big-endian words.
func (c *Conn) ReadHoldingRegisters(ctx context.Context, addr, count uint16) ([]uint16, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	b, err := c.client.ReadHoldingRegisters(addr, count)
	if err != nil {
		return nil, err
	}
	if len(b) != int(count)*2 {
		return nil, fmt.Errorf("modbus transport: short read at %d: got %d bytes, want %d", addr, len(b), int(count)*2)
	}
	return unpackRegisters(b), nil
}

// WriteMultipleRegisters issues FC16.
func (c *Conn) WriteMultipleRegisters(ctx context.Context, addr uint16, values []uint16) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(values)), packRegisters(values))
	return err
}

func (c *Conn) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return transport.ErrNotOpen
	}
	return nil
}

// ---- option helpers ----

func unitID(opts transport.Options) (byte, error) {
	n, ok, err := opts.Uint(transport.KeyModbusAddr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	if n < 1 || n > 247 {
		return 0, fmt.Errorf("modbus transport: modbusaddr %d out of range 1..247", n)
	}
	return byte(n), nil
}

func timeoutOf(opts transport.Options) (time.Duration, error) {
	ms, ok, err := opts.Uint(transport.KeyTimeout)
	if err != nil {
		return 0, err
	}
	if !ok || ms == 0 {
		return DefaultTimeout, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

// ExceptionCode extracts the Modbus exception code from err, if any.
func ExceptionCode(err error) (uint16, bool) {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode), true
	}
	return 0, false
}
