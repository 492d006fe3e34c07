// internal/driver/keys.go
package driver

// Key is one configuration capability. The set is closed.
type Key int

const (
	KeyInvalid Key = iota

	// scan options
	KeyConn
	KeySerialComm
	KeyModbusAddr

	// driver class
	KeyPowerSupply

	// device options
	KeyContinuous
	KeyLimitSamples
	KeyLimitMsec
	KeyVoltage
	KeyVoltageTarget
	KeyCurrent
	KeyCurrentLimit
	KeyEnabled
	KeyRegulation
	KeyOVPEnabled
	KeyOVPActive
	KeyOVPThreshold
	KeyOCPEnabled
	KeyOCPActive
	KeyOCPThreshold

	// discovery
	KeyScanOptions
	KeyDeviceOptions
)

var keyNames = map[Key]string{
	KeyConn:          "conn",
	KeySerialComm:    "serialcomm",
	KeyModbusAddr:    "modbusaddr",
	KeyPowerSupply:   "power_supply",
	KeyContinuous:    "continuous",
	KeyLimitSamples:  "limit_samples",
	KeyLimitMsec:     "limit_time",
	KeyVoltage:       "voltage",
	KeyVoltageTarget: "voltage_target",
	KeyCurrent:       "current",
	KeyCurrentLimit:  "current_limit",
	KeyEnabled:       "enabled",
	KeyRegulation:    "regulation",
	KeyOVPEnabled:    "ovp_enabled",
	KeyOVPActive:     "ovp_active",
	KeyOVPThreshold:  "ovp_threshold",
	KeyOCPEnabled:    "ocp_enabled",
	KeyOCPActive:     "ocp_active",
	KeyOCPThreshold:  "ocp_threshold",
	KeyScanOptions:   "scan_options",
	KeyDeviceOptions: "device_options",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "invalid"
}

// ParseKey returns the key with the given name.
func ParseKey(name string) (Key, error) {
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	return KeyInvalid, argError("unknown key %q", name)
}

// Cap is the set of operations a key supports on a device.
type Cap uint8

const (
	CapGet Cap = 1 << iota
	CapSet
	CapList
)

func (c Cap) String() string {
	b := []byte("---")
	if c&CapGet != 0 {
		b[0] = 'G'
	}
	if c&CapSet != 0 {
		b[1] = 'S'
	}
	if c&CapList != 0 {
		b[2] = 'L'
	}
	return string(b)
}

// KeyCap pairs a key with its capabilities.
type KeyCap struct {
	Key  Key
	Caps Cap
}

// ---- advertised option sets ----

var scanOptions = []KeyCap{
	{Key: KeyConn},
	{Key: KeySerialComm},
	{Key: KeyModbusAddr},
}

var driverOptions = []KeyCap{
	{Key: KeyPowerSupply},
}

var deviceOptions = []KeyCap{
	{Key: KeyContinuous},
	{Key: KeyLimitSamples, Caps: CapGet | CapSet},
	{Key: KeyLimitMsec, Caps: CapGet | CapSet},
	{Key: KeyVoltage, Caps: CapGet},
	{Key: KeyVoltageTarget, Caps: CapGet | CapSet | CapList},
	{Key: KeyCurrent, Caps: CapGet},
	{Key: KeyCurrentLimit, Caps: CapGet | CapSet | CapList},
	{Key: KeyEnabled, Caps: CapGet | CapSet},
	{Key: KeyRegulation, Caps: CapGet},
	{Key: KeyOVPEnabled, Caps: CapGet},
	{Key: KeyOVPActive, Caps: CapGet},
	{Key: KeyOVPThreshold, Caps: CapGet | CapSet | CapList},
	{Key: KeyOCPEnabled, Caps: CapGet},
	{Key: KeyOCPActive, Caps: CapGet},
	{Key: KeyOCPThreshold, Caps: CapGet | CapSet | CapList},
}

// Capabilities returns the device capabilities of k, zero if the key is
// not a device option.
func Capabilities(k Key) Cap {
	for _, kc := range deviceOptions {
		if kc.Key == k {
			return kc.Caps
		}
	}
	return 0
}

func cloneKeyCaps(in []KeyCap) []KeyCap {
	return append([]KeyCap(nil), in...)
}
