// internal/scpi/identity.go

// Package scpi parses responses of SCPI-speaking instruments.
package scpi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrEmptyField = errors.New("empty field")
)

// Identity field names, in *IDN? response order.
const (
	FieldVendor   = "vendor"
	FieldModel    = "model"
	FieldSerial   = "serial"
	FieldFirmware = "firmware"
)

var identityFields = [...]string{FieldVendor, FieldModel, FieldSerial, FieldFirmware}

// FieldError reports which field of a response failed and why.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("scpi: %v (%q)", e.Err, e.Value)
	}
	return fmt.Sprintf("scpi: field %s: %v (%q)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Identity is a parsed *IDN? response.
type Identity struct {
	Vendor   string
	Model    string
	Serial   string
	Firmware string
}

// ParseIdentity parses "vendor,model,serial,firmware". Surrounding
// whitespace and a trailing line terminator are ignored; every field
// must be present and non-empty.
func ParseIdentity(resp string) (Identity, error) {
	resp = strings.TrimRight(resp, "\r\n")
	parts := strings.Split(resp, ",")
	if len(parts) != len(identityFields) {
		return Identity{}, &FieldError{
			Value: resp,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(parts), len(identityFields)),
		}
	}

	var vals [len(identityFields)]string
	for i, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" {
			return Identity{}, &FieldError{Field: identityFields[i], Value: parts[i], Err: ErrEmptyField}
		}
		vals[i] = p
	}

	return Identity{
		Vendor:   vals[0],
		Model:    vals[1],
		Serial:   vals[2],
		Firmware: vals[3],
	}, nil
}

func (id Identity) String() string {
	return strings.Join([]string{id.Vendor, id.Model, id.Serial, id.Firmware}, ",")
}
