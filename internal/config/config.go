// internal/config/config.go
package config

type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Scan        ScanConfig        `yaml:"scan"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Setup       SetupConfig       `yaml:"setup"`
	MQTT        *MQTTConfig       `yaml:"mqtt"`
	Mirror      *MirrorConfig     `yaml:"mirror"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Output string `yaml:"output"` // stdout, stderr
}

// ---- SCAN ----

// ScanConfig holds transport options. Empty fields are not passed to the
// scanner, so driver defaults apply to them.
type ScanConfig struct {
	Conn       string `yaml:"conn"`       // "/dev/ttyUSB0" or "tcp/host:port"; empty = all serial ports
	SerialComm string `yaml:"serialcomm"` // e.g. "115200/8n1"
	ModbusAddr uint8  `yaml:"modbusaddr"` // 0 = driver default
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- ACQUISITION ----

type AcquisitionConfig struct {
	IntervalMs   int    `yaml:"interval_ms"`
	LimitSamples uint64 `yaml:"limit_samples"` // 0 = unset
	LimitMsec    uint64 `yaml:"limit_msec"`    // 0 = unset
}

// ---- SETUP ----

// SetupConfig values are written to the instrument before acquisition.
// Nil means "leave as is".
type SetupConfig struct {
	VoltageTarget *float64 `yaml:"voltage_target"`
	CurrentLimit  *float64 `yaml:"current_limit"`
	OVPThreshold  *float64 `yaml:"ovp_threshold"`
	OCPThreshold  *float64 `yaml:"ocp_threshold"`
	Enabled       *bool    `yaml:"enabled"`
}

// ---- MQTT SINK (optional) ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"` // tcp://host:1883
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// ---- MIRROR SINK (optional) ----

type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Kind      string `yaml:"kind"` // modbus, ingest
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Device status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}
