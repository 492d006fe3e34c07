// internal/writer/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// areaHoldingRegisters is the only area the mirror writes (FC16).
const areaHoldingRegisters byte = 3

// registerWriter is the subset of modbus.Client used here.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// EndpointClient mirrors register runs into one Modbus TCP server.
// goburrow keeps the unit id on the handler, so writes are serialized.
type EndpointClient struct {
	endpoint string

	mu   sync.Mutex
	tcp  *modbus.TCPClientHandler
	regs registerWriter
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewEndpointClient connects to cfg.Endpoint ("host:port").
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	tcp := modbus.NewTCPClientHandler(cfg.Endpoint)
	tcp.Timeout = cfg.Timeout
	if err := tcp.Connect(); err != nil {
		return nil, fmt.Errorf("writer modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		tcp:      tcp,
		regs:     modbus.NewClient(tcp),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tcp == nil {
		return nil
	}
	return c.tcp.Close()
}

// WriteRegisters writes regs into holding registers of unitID starting
// at addr. Exception responses stay reachable through errors.As.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if area != areaHoldingRegisters {
		return fmt.Errorf("writer modbus: %s: area %d not writable", c.endpoint, area)
	}
	if len(regs) == 0 {
		return nil
	}

	payload := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(payload[2*i:], r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tcp != nil {
		c.tcp.SlaveId = unitID
	}
	if _, err := c.regs.WriteMultipleRegisters(addr, uint16(len(regs)), payload); err != nil {
		return fmt.Errorf("writer modbus: %s unit %d addr %d: %w", c.endpoint, unitID, addr, err)
	}
	return nil
}
