// internal/driver/config.go
package driver

import (
	"context"
	"math"

	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/profile"
)

// Regulation modes reported by KeyRegulation.
const (
	RegulationCC = "CC"
	RegulationCV = "CV"
)

// scaledKey binds a numeric key to its register and the profile quantity
// that scales it.
type scaledKey struct {
	reg   uint16
	spec  func(p *profile.Profile) profile.ScalingSpec
	write bool
}

func voltageSpec(p *profile.Profile) profile.ScalingSpec { return p.Voltage }
func currentSpec(p *profile.Profile) profile.ScalingSpec { return p.Current }
func ovpSpec(p *profile.Profile) profile.ScalingSpec     { return p.OVP }
func ocpSpec(p *profile.Profile) profile.ScalingSpec     { return p.OCP }

var scaledKeys = map[Key]scaledKey{
	KeyVoltage:       {reg: device.RegVoltage, spec: voltageSpec},
	KeyVoltageTarget: {reg: device.RegVoltageTarget, spec: voltageSpec, write: true},
	KeyCurrent:       {reg: device.RegCurrent, spec: currentSpec},
	KeyCurrentLimit:  {reg: device.RegCurrentLimit, spec: currentSpec, write: true},
	KeyOVPThreshold:  {reg: device.RegOVPThreshold, spec: ovpSpec, write: true},
	KeyOCPThreshold:  {reg: device.RegOCPThreshold, spec: ocpSpec, write: true},
}

// checkGroup rejects a channel group the instance does not own. A nil
// group addresses the whole device.
func checkGroup(inst *device.Instance, cg *device.ChannelGroup) error {
	if cg == nil {
		return nil
	}
	for _, g := range inst.Groups() {
		if g == cg {
			return nil
		}
	}
	return argError("channel group %q not on this device", cg.Name)
}

func readOne(ctx context.Context, inst *device.Instance, reg uint16) (uint16, error) {
	regs, err := inst.ReadRegisters(ctx, reg, 1)
	if err != nil {
		return 0, err
	}
	return regs[0], nil
}

// ConfigGet reads the current value of key.
func (d *Driver) ConfigGet(ctx context.Context, key Key, inst *device.Instance, cg *device.ChannelGroup) (Value, error) {
	if inst == nil {
		return Value{}, argError("nil instance")
	}
	if err := checkGroup(inst, cg); err != nil {
		return Value{}, err
	}
	d.log.Debug("config get", "key", key.String())

	if sk, ok := scaledKeys[key]; ok {
		raw, err := readOne(ctx, inst, sk.reg)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(sk.spec(inst.Profile()).ToPhysical(raw)), nil
	}

	switch key {
	case KeyLimitSamples:
		return Uint64Value(inst.Limits().MaxSamples()), nil
	case KeyLimitMsec:
		return Uint64Value(inst.Limits().MaxMsec()), nil

	case KeyEnabled:
		raw, err := readOne(ctx, inst, device.RegEnable)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(raw != 0), nil

	case KeyRegulation:
		raw, err := readOne(ctx, inst, device.RegRegulationStatus)
		if err != nil {
			return Value{}, err
		}
		if raw != 0 {
			return StringValue(RegulationCC), nil
		}
		return StringValue(RegulationCV), nil

	// no hardware query exists; protection is always on
	case KeyOVPEnabled, KeyOCPEnabled:
		return BoolValue(true), nil

	case KeyOVPActive, KeyOCPActive:
		raw, err := readOne(ctx, inst, device.RegProtectionStatus)
		if err != nil {
			return Value{}, err
		}
		bit := device.ProtectionOVP
		if key == KeyOCPActive {
			bit = device.ProtectionOCP
		}
		return BoolValue(raw&bit != 0), nil
	}

	return Value{}, notApplicable("get", key)
}

// ConfigSet writes key. Limit keys touch only the session limits; the
// rest issue one register write.
func (d *Driver) ConfigSet(ctx context.Context, key Key, v Value, inst *device.Instance, cg *device.ChannelGroup) error {
	if inst == nil {
		return argError("nil instance")
	}
	if err := checkGroup(inst, cg); err != nil {
		return err
	}
	d.log.Debug("config set", "key", key.String(), "value", v.String())

	if sk, ok := scaledKeys[key]; ok && sk.write {
		f, err := v.AsFloat()
		if err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return argError("%s: value %v not finite", key, f)
		}
		return inst.WriteRegister(ctx, sk.reg, sk.spec(inst.Profile()).ToRaw(f))
	}

	switch key {
	case KeyLimitSamples, KeyLimitMsec:
		n, err := v.AsUint64()
		if err != nil {
			return err
		}
		if key == KeyLimitSamples {
			inst.Limits().SetMaxSamples(n)
		} else {
			inst.Limits().SetMaxMsec(n)
		}
		return nil

	case KeyEnabled:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		var raw uint16
		if on {
			raw = 1
		}
		return inst.WriteRegister(ctx, device.RegEnable, raw)
	}

	return notApplicable("set", key)
}

// ConfigList enumerates the accepted values of key. The discovery keys
// need no instance: DeviceOptions without an instance or group lists the
// driver class.
func (d *Driver) ConfigList(key Key, inst *device.Instance, cg *device.ChannelGroup) (Value, error) {
	switch key {
	case KeyScanOptions:
		return KeyListValue(scanOptions), nil
	case KeyDeviceOptions:
		if inst == nil && cg == nil {
			return KeyListValue(driverOptions), nil
		}
		return KeyListValue(deviceOptions), nil
	}

	if inst == nil {
		return Value{}, argError("nil instance")
	}
	if err := checkGroup(inst, cg); err != nil {
		return Value{}, err
	}

	if Capabilities(key)&CapList == 0 {
		return Value{}, notApplicable("list", key)
	}
	s := scaledKeys[key].spec(inst.Profile())
	return RangeValue(Range{Min: s.Min, Max: s.Max, Step: s.Step}), nil
}
