// internal/writer/ingest/client_test.go
package ingest

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

// pipeDialer serves one packet per dial from an in-memory pipe and
// answers with status.
type pipeDialer struct {
	status byte
	got    chan []byte
}

func (p *pipeDialer) dial(network, addr string, timeout time.Duration) (net.Conn, error) {
	client, server := net.Pipe()
	go func() {
		defer server.Close()
		hdr := make([]byte, headerLen)
		if _, err := io.ReadFull(server, hdr); err != nil {
			return
		}
		count := int(hdr[8])<<8 | int(hdr[9])
		body := make([]byte, 2*count)
		if _, err := io.ReadFull(server, body); err != nil {
			return
		}
		p.got <- append(hdr, body...)
		_, _ = server.Write([]byte{p.status})
	}()
	return client, nil
}

func TestEncodePacket_Layout(t *testing.T) {
	pkt := EncodePacket(3, 7, 0x0102, 2, []byte{0xAA, 0xBB, 0xCC, 0xDD})
	want := []byte{'R', 'I', 0x01, 0x03, 0x00, 0x07, 0x01, 0x02, 0x00, 0x02, 0xAA, 0xBB, 0xCC, 0xDD}
	if !bytes.Equal(pkt, want) {
		t.Fatalf("packet=% x want % x", pkt, want)
	}
}

func TestWriteRegisters_RoundTrip(t *testing.T) {
	pd := &pipeDialer{status: respOK, got: make(chan []byte, 1)}
	c, err := NewEndpointClient(Config{Endpoint: "mirror:9000", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewEndpointClient: %v", err)
	}
	c.dial = pd.dial

	if err := c.WriteRegisters(3, 1, 40, []uint16{0x4145, 0x851F}); err != nil {
		t.Fatalf("WriteRegisters: %v", err)
	}
	got := <-pd.got
	want := []byte{'R', 'I', 0x01, 0x03, 0x00, 0x01, 0x00, 0x28, 0x00, 0x02, 0x41, 0x45, 0x85, 0x1F}
	if !bytes.Equal(got, want) {
		t.Fatalf("sent=% x want % x", got, want)
	}
}

func TestWriteRegisters_Rejected(t *testing.T) {
	pd := &pipeDialer{status: respRejected, got: make(chan []byte, 1)}
	c, _ := NewEndpointClient(Config{Endpoint: "mirror:9000", Timeout: time.Second})
	c.dial = pd.dial

	if err := c.WriteRegisters(3, 1, 0, []uint16{1}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestNewEndpointClient_Defaults(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
	c, _ := NewEndpointClient(Config{Endpoint: "x:1"})
	if c.timeout != DefaultTimeout {
		t.Fatalf("timeout=%v", c.timeout)
	}
}
