// internal/profile/profile.go
package profile

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-instrument/internal/errdefs"
)

// ErrUnsupportedModel is returned when an identity code has no profile.
// It is a recoverable condition: scanning skips the candidate.
var ErrUnsupportedModel = fmt.Errorf("profile: unsupported model: %w", errdefs.ErrUnsupported)

// Vendor is the manufacturer string reported for every profile in the table.
const Vendor = "Riden"

// Profile is the immutable description of one supported model.
// Profiles are shared read-only by every instance of that model.
type Profile struct {
	Code uint16
	Name string

	Voltage ScalingSpec
	Current ScalingSpec
	Power   ScalingSpec
	OVP     ScalingSpec
	OCP     ScalingSpec
}

// ---- static table ----

var supported = [...]Profile{
	{
		Code:    6006,
		Name:    "RD6006",
		Voltage: ScalingSpec{Min: 0, Max: 60.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		Current: ScalingSpec{Min: 0, Max: 6.0, Step: 0.001, DisplayDigits: 3, EncodingDigits: 3},
		Power:   ScalingSpec{Min: 0, Max: 380.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		OVP:     ScalingSpec{Min: 0, Max: 62.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		OCP:     ScalingSpec{Min: 0, Max: 6.2, Step: 0.001, DisplayDigits: 3, EncodingDigits: 3},
	},
	{
		Code:    6012,
		Name:    "RD6012",
		Voltage: ScalingSpec{Min: 0, Max: 60.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		Current: ScalingSpec{Min: 0, Max: 6.0, Step: 0.001, DisplayDigits: 3, EncodingDigits: 3},
		Power:   ScalingSpec{Min: 0, Max: 720.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		OVP:     ScalingSpec{Min: 0, Max: 62.0, Step: 0.010, DisplayDigits: 2, EncodingDigits: 2},
		OCP:     ScalingSpec{Min: 0, Max: 12.4, Step: 0.001, DisplayDigits: 3, EncodingDigits: 3},
	},
}

// Find returns the profile whose identity code equals code.
func Find(code uint16) (*Profile, error) {
	for i := range supported {
		if supported[i].Code == code {
			return &supported[i], nil
		}
	}
	return nil, fmt.Errorf("%w: code=%d", ErrUnsupportedModel, code)
}

// FindByName matches a model name (case-insensitive), as reported by
// an SCPI-style identification string.
func FindByName(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	for i := range supported {
		if strings.EqualFold(supported[i].Name, name) {
			return &supported[i], nil
		}
	}
	return nil, fmt.Errorf("%w: name=%q", ErrUnsupportedModel, name)
}

// All returns every known profile in table order.
func All() []*Profile {
	out := make([]*Profile, 0, len(supported))
	for i := range supported {
		out = append(out, &supported[i])
	}
	return out
}
