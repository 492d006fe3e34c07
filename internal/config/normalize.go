// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultIntervalMs  = 10
	DefaultTimeoutMs   = 1000
	DefaultTopicPrefix = "instrument"
	DefaultMirrorKind  = "modbus"
	DefaultClientID    = "instrument"

	deviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Acquisition.IntervalMs == 0 {
		cfg.Acquisition.IntervalMs = DefaultIntervalMs
	}
	if cfg.Scan.TimeoutMs == 0 {
		cfg.Scan.TimeoutMs = DefaultTimeoutMs
	}

	if m := cfg.MQTT; m != nil {
		if m.TopicPrefix == "" {
			m.TopicPrefix = DefaultTopicPrefix
		}
		if m.ClientID == "" {
			m.ClientID = DefaultClientID
		}
	}

	if m := cfg.Mirror; m != nil {
		if m.Kind == "" {
			m.Kind = DefaultMirrorKind
		}
		if m.UnitID == 0 {
			m.UnitID = 1
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = DefaultTimeoutMs
		}
		// ASCII already validated; truncate only.
		if len(m.DeviceName) > deviceNameMaxChars {
			m.DeviceName = m.DeviceName[:deviceNameMaxChars]
		}
	}
}
