// internal/profile/scaling.go
package profile

import "math"

// maxRaw is the largest value a single 16-bit register can carry.
const maxRaw = 65535

// ScalingSpec maps a raw register integer to a physical value.
// physical = raw * Step. DisplayDigits is presentation only.
type ScalingSpec struct {
	Min            float64
	Max            float64
	Step           float64
	DisplayDigits  int
	EncodingDigits int
}

// ToPhysical converts a raw register value to engineering units.
func (s ScalingSpec) ToPhysical(raw uint16) float64 {
	return float64(raw) * s.Step
}

// Clamp limits v to [Min, Max].
func (s ScalingSpec) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// ToRaw converts a physical value to its register encoding.
// The value is clamped to [Min, Max] first, then rounded to the nearest step.
func (s ScalingSpec) ToRaw(v float64) uint16 {
	if s.Step <= 0 || math.IsNaN(v) {
		return 0
	}
	r := math.Round(s.Clamp(v) / s.Step)
	if r < 0 {
		return 0
	}
	if r > maxRaw {
		return maxRaw
	}
	return uint16(r)
}

// Quantize rounds v to the register resolution and returns it in physical units.
func (s ScalingSpec) Quantize(v float64) float64 {
	return s.ToPhysical(s.ToRaw(v))
}
