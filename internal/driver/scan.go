// internal/driver/scan.go
package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/profile"
	"github.com/tamzrod/modbus-instrument/internal/scpi"
	"github.com/tamzrod/modbus-instrument/internal/transport"
)

// DefaultModbusAddr is the unit id assumed when the caller gives none.
const DefaultModbusAddr = 1

// scanDefaults apply only to keys the caller did not set.
var scanDefaults = []transport.Option{
	{Key: transport.KeySerialComm, Value: transport.DefaultSerialComm},
	{Key: transport.KeyModbusAddr, Value: strconv.Itoa(DefaultModbusAddr)},
}

// Scanner probes transport candidates and keeps those that identify as a
// supported model.
type Scanner struct {
	Discoverer transport.Discoverer
	Dialer     transport.Dialer
	Log        *logging.Logger
}

// Scan returns one unopened instance per matched candidate. Unknown
// models and per-candidate transport failures are logged and skipped;
// only discovery itself or ctx can fail the scan.
func (s *Scanner) Scan(ctx context.Context, opts transport.Options) ([]*device.Instance, error) {
	if s.Discoverer == nil || s.Dialer == nil {
		return nil, argError("scanner needs a discoverer and a dialer")
	}
	log := s.Log
	if log == nil {
		log = logging.Discard()
	}

	for _, d := range scanDefaults {
		if !opts.Has(d.Key) {
			log.Info("using default", "option", d.Key, "value", d.Value)
		}
	}
	opts = opts.WithDefaults(scanDefaults...)

	candidates, err := s.Discoverer.Candidates(ctx, opts)
	if err != nil {
		return nil, err
	}

	var found []*device.Instance
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		inst, err := s.probe(ctx, c, log)
		if err != nil {
			if errors.Is(err, profile.ErrUnsupportedModel) {
				log.Error("unknown model", "conn", c.Descriptor, "error", err)
			} else {
				log.Warn("probe failed", "conn", c.Descriptor, "error", err)
			}
			continue
		}
		found = append(found, inst)
	}
	return found, nil
}

// probe opens a provisional connection, identifies the unit and closes
// the connection again. The instance keeps the conn for a later Open.
func (s *Scanner) probe(ctx context.Context, c transport.Candidate, log *logging.Logger) (*device.Instance, error) {
	conn, err := s.Dialer.Dial(c)
	if err != nil {
		return nil, err
	}
	if err := conn.Open(ctx); err != nil {
		return nil, err
	}
	defer conn.Close()

	p, id, err := identify(ctx, conn)
	if err != nil {
		return nil, err
	}

	log.Info("found device",
		"conn", c.Descriptor,
		"model", fmt.Sprintf("%s (%d)", p.Name, id.RawModel),
		"firmware", id.Firmware,
		"serial", id.Serial)

	return device.New(conn, p, id, c.Descriptor, log)
}

// identify prefers an SCPI *IDN? answer when the transport offers one and
// falls back to the identification register block.
func identify(ctx context.Context, conn transport.Conn) (*profile.Profile, device.Identity, error) {
	if idn, ok := conn.(transport.Identifier); ok {
		resp, err := idn.Identify(ctx)
		if err != nil {
			return nil, device.Identity{}, err
		}
		rec, err := scpi.ParseIdentity(resp)
		if err != nil {
			return nil, device.Identity{}, err
		}
		p, err := profile.FindByName(rec.Model)
		if err != nil {
			return nil, device.Identity{}, err
		}
		return p, device.Identity{
			Code:     p.Code,
			RawModel: p.Code * 10,
			Serial:   rec.Serial,
			Firmware: rec.Firmware,
		}, nil
	}

	regs, err := conn.ReadHoldingRegisters(ctx, device.RegModel, device.IdentBlock)
	if err != nil {
		return nil, device.Identity{}, err
	}
	id, err := device.DecodeIdentity(regs)
	if err != nil {
		return nil, device.Identity{}, err
	}
	p, err := profile.Find(id.Code)
	if err != nil {
		return nil, device.Identity{}, err
	}
	return p, id, nil
}
