// internal/transport/options.go
package transport

import (
	"fmt"
	"strconv"
)

// Option keys understood by the transport layer.
const (
	KeyConn       = "conn"
	KeySerialComm = "serialcomm"
	KeyModbusAddr = "modbusaddr"
	KeyTimeout    = "timeout"
)

// Option is one key/value transport setting.
type Option struct {
	Key   string
	Value string
}

// Options is an ordered option list. Keys are compared by equality only;
// the first occurrence of a key wins.
type Options []Option

// Get returns the value of the first option with the given key.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present, regardless of its value.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// WithDefaults returns a copy of o with every default whose key is absent
// from o prepended. Caller-specified keys always take precedence.
func (o Options) WithDefaults(defaults ...Option) Options {
	out := make(Options, 0, len(o)+len(defaults))
	for _, d := range defaults {
		if !o.Has(d.Key) {
			out = append(out, d)
		}
	}
	return append(out, o...)
}

// Uint returns the value of key parsed as an unsigned integer.
func (o Options) Uint(key string) (uint64, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("transport: option %s=%q: %w", key, v, err)
	}
	return n, true, nil
}
