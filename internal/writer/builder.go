// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/modbus-instrument/internal/config"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/status"
	"github.com/tamzrod/modbus-instrument/internal/writer/ingest"
	wmodbus "github.com/tamzrod/modbus-instrument/internal/writer/modbus"
)

// BuildPlan converts the mirror config into a Plan.
// Assumes config has already passed validation.
func BuildPlan(m cfg.MirrorConfig) (Plan, error) {
	if m.Endpoint == "" {
		return Plan{}, errors.New("writer: mirror.endpoint required")
	}

	plan := Plan{
		Endpoint: m.Endpoint,
		UnitID:   m.UnitID,
		Address:  m.Address,
	}

	if m.StatusSlot != nil {
		if end := uint32(*m.StatusSlot)*status.SlotsPerDevice + status.SlotsPerDevice - 1; end > 0xFFFF {
			return Plan{}, fmt.Errorf("writer: status slot %d ends at register %d, past 65535", *m.StatusSlot, end)
		}
		plan.Status = &StatusPlan{
			Endpoint:   m.Endpoint,
			UnitID:     m.UnitID,
			BaseSlot:   *m.StatusSlot,
			DeviceName: m.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one client per unique endpoint of the plan.
func BuildEndpointClients(plan Plan, kind string, timeout time.Duration) (map[string]endpointClient, func() error, error) {
	unique := map[string]struct{}{plan.Endpoint: {}}
	if plan.Status != nil {
		unique[plan.Status.Endpoint] = struct{}{}
	}

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for endpoint := range unique {
		var (
			c   endpointClient
			fn  func() error
			err error
		)
		switch kind {
		case "", "modbus":
			var mc *wmodbus.EndpointClient
			mc, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: endpoint, Timeout: timeout})
			if mc != nil {
				c, fn = mc, mc.Close
			}
		case "ingest":
			var ic *ingest.EndpointClient
			ic, err = ingest.NewEndpointClient(ingest.Config{Endpoint: endpoint, Timeout: timeout})
			if ic != nil {
				c, fn = ic, ic.Close
			}
		default:
			err = fmt.Errorf("writer: unknown mirror kind %q", kind)
		}
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[endpoint] = c
		closers = append(closers, fn)
	}

	return clients, closeAll, nil
}

// Build wires a Mirror from the mirror config section.
func Build(m cfg.MirrorConfig, log *logging.Logger) (*Mirror, func() error, error) {
	plan, err := BuildPlan(m)
	if err != nil {
		return nil, nil, err
	}

	clients, closeAll, err := BuildEndpointClients(plan, m.Kind, time.Duration(m.TimeoutMs)*time.Millisecond)
	if err != nil {
		return nil, nil, err
	}

	var sw StatusWriter
	if dsw, enabled := NewDeviceStatusWriter(plan, clients); enabled {
		sw = dsw
	}

	return NewMirror(New(plan, clients), sw, log), closeAll, nil
}
