// internal/transport/discover.go
package transport

import (
	"context"
	"fmt"

	"go.bug.st/serial"
)

// listPorts is swapped in tests.
var listPorts = serial.GetPortsList

// SerialDiscoverer yields the caller's explicit conn, or every serial
// port present on the host when none was given.
type SerialDiscoverer struct{}

// Candidates implements Discoverer.
func (SerialDiscoverer) Candidates(ctx context.Context, opts Options) ([]Candidate, error) {
	if conn, ok := opts.Get(KeyConn); ok && conn != "" {
		return []Candidate{{Descriptor: conn, Options: opts}}, nil
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("transport: list serial ports: %w", err)
	}

	out := make([]Candidate, 0, len(ports))
	for _, p := range ports {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, Candidate{Descriptor: p, Options: opts})
	}
	return out, nil
}
