// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 framing.
const (
	magic     = "RI"
	versionV1 = 0x01
	headerLen = 10

	respOK       byte = 0x00
	respRejected byte = 0x01
)

// DefaultTimeout bounds dial, write and status read of one packet.
const DefaultTimeout = 2 * time.Second

// ErrRejected is returned when the endpoint refuses a packet.
var ErrRejected = errors.New("mirror ingest: rejected")

// EndpointClient mirrors registers through the Raw Ingest v1 protocol.
// Stateless: one packet per connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
	dial     func(network, addr string, timeout time.Duration) (net.Conn, error)
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		dial:     net.DialTimeout,
	}, nil
}

// Close is a no-op; connections never outlive a packet.
func (c *EndpointClient) Close() error { return nil }

// WriteRegisters sends one packet carrying regs for area/unit/address.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	payload := make([]byte, 0, 2*len(regs))
	for _, r := range regs {
		payload = binary.BigEndian.AppendUint16(payload, r)
	}
	return c.send(EncodePacket(area, unitID, addr, uint16(len(regs)), payload))
}

func (c *EndpointClient) send(pkt []byte) error {
	conn, err := c.dial("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("mirror ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// net.Conn.Write returns an error on any short write
	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("mirror ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("mirror ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("mirror ingest: unknown status 0x%02x", resp[0])
	}
}

// EncodePacket builds one v1 packet. Header layout (big-endian):
//
//	0-1  magic "RI"
//	2    version
//	3    area
//	4-5  unit id
//	6-7  address
//	8-9  count
//	10+  payload
func EncodePacket(area byte, unitID uint8, addr, count uint16, payload []byte) []byte {
	pkt := make([]byte, 0, headerLen+len(payload))
	pkt = append(pkt, magic...)
	pkt = append(pkt, versionV1, area)
	pkt = binary.BigEndian.AppendUint16(pkt, uint16(unitID))
	pkt = binary.BigEndian.AppendUint16(pkt, addr)
	pkt = binary.BigEndian.AppendUint16(pkt, count)
	return append(pkt, payload...)
}
