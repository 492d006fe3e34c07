// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-instrument/internal/transport"
)

// Mirror geometry. Six channels, each a float32 in two registers, and a
// fixed-size status block per device.
const (
	MirrorDataRegisters  = 12
	StatusSlotsPerDevice = 20

	maxRegisterAddress = 0xFFFF
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// SCAN
	// ------------------------------------------------------------

	if cfg.Scan.SerialComm != "" {
		if _, err := transport.ParseSerialComm(cfg.Scan.SerialComm); err != nil {
			return fmt.Errorf("scan.serialcomm: %w", err)
		}
	}
	if cfg.Scan.ModbusAddr > 247 {
		return fmt.Errorf("scan.modbusaddr %d out of range 1..247", cfg.Scan.ModbusAddr)
	}
	if cfg.Scan.TimeoutMs < 0 {
		return fmt.Errorf("scan.timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// ACQUISITION
	// ------------------------------------------------------------

	if cfg.Acquisition.IntervalMs < 0 {
		return fmt.Errorf("acquisition.interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// SETUP (physical values must be non-negative)
	// ------------------------------------------------------------

	for name, v := range map[string]*float64{
		"voltage_target": cfg.Setup.VoltageTarget,
		"current_limit":  cfg.Setup.CurrentLimit,
		"ovp_threshold":  cfg.Setup.OVPThreshold,
		"ocp_threshold":  cfg.Setup.OCPThreshold,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("setup.%s must be >= 0, got %v", name, *v)
		}
	}

	// ------------------------------------------------------------
	// MQTT SINK
	// ------------------------------------------------------------

	if m := cfg.MQTT; m != nil {
		if m.Broker == "" {
			return fmt.Errorf("mqtt.broker required when mqtt is set")
		}
		if m.QoS < 0 || m.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", m.QoS)
		}
		if strings.ContainsAny(m.TopicPrefix, "+#") {
			return fmt.Errorf("mqtt.topic_prefix must not contain wildcards")
		}
	}

	// ------------------------------------------------------------
	// MIRROR SINK
	// ------------------------------------------------------------

	if m := cfg.Mirror; m != nil {
		if m.Endpoint == "" {
			return fmt.Errorf("mirror.endpoint required when mirror is set")
		}
		switch m.Kind {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("mirror.kind %q unknown (modbus|ingest)", m.Kind)
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(m.DeviceName); i++ {
			if m.DeviceName[i] > 0x7F {
				return fmt.Errorf("mirror.device_name must contain ASCII characters only")
			}
		}

		// both blocks must fit the 16-bit register address space
		dataStart := uint32(m.Address)
		dataEnd := dataStart + MirrorDataRegisters - 1
		if dataEnd > maxRegisterAddress {
			return fmt.Errorf("mirror.address %d: data range=%d-%d exceeds %d", m.Address, dataStart, dataEnd, maxRegisterAddress)
		}

		// overlap check (inclusive) between data block and status block
		if m.StatusSlot != nil {
			statusStart := uint32(*m.StatusSlot) * StatusSlotsPerDevice
			statusEnd := statusStart + StatusSlotsPerDevice - 1
			if statusEnd > maxRegisterAddress {
				return fmt.Errorf("mirror.status_slot %d: status range=%d-%d exceeds %d", *m.StatusSlot, statusStart, statusEnd, maxRegisterAddress)
			}

			if !(dataEnd < statusStart || dataStart > statusEnd) {
				return fmt.Errorf(
					"mirror overlap: data range=%d-%d overlaps status slot %d range=%d-%d",
					dataStart,
					dataEnd,
					*m.StatusSlot,
					statusStart,
					statusEnd,
				)
			}
		}
	}

	return nil
}
