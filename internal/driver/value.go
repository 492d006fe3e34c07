// internal/driver/value.go
package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNone Kind = iota
	KindUint64
	KindFloat
	KindBool
	KindString
	KindRange
	KindKeyList
)

func (k Kind) String() string {
	switch k {
	case KindUint64:
		return "uint64"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRange:
		return "range"
	case KindKeyList:
		return "keys"
	}
	return "none"
}

// Range is a bounded numeric domain as advertised by List.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Value is a configuration value. Exactly one variant is set, named by Kind.
type Value struct {
	kind Kind
	u    uint64
	f    float64
	b    bool
	s    string
	r    Range
	keys []KeyCap
}

func Uint64Value(v uint64) Value    { return Value{kind: KindUint64, u: v} }
func FloatValue(v float64) Value    { return Value{kind: KindFloat, f: v} }
func BoolValue(v bool) Value        { return Value{kind: KindBool, b: v} }
func StringValue(v string) Value    { return Value{kind: KindString, s: v} }
func RangeValue(r Range) Value      { return Value{kind: KindRange, r: r} }
func KeyListValue(k []KeyCap) Value { return Value{kind: KindKeyList, keys: cloneKeyCaps(k)} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) mismatch(want Kind) error {
	return argError("value is %s, want %s", v.kind, want)
}

func (v Value) AsUint64() (uint64, error) {
	if v.kind != KindUint64 {
		return 0, v.mismatch(KindUint64)
	}
	return v.u, nil
}

func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}
	return v.f, nil
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

func (v Value) AsRange() (Range, error) {
	if v.kind != KindRange {
		return Range{}, v.mismatch(KindRange)
	}
	return v.r, nil
}

func (v Value) AsKeyList() ([]KeyCap, error) {
	if v.kind != KindKeyList {
		return nil, v.mismatch(KindKeyList)
	}
	return cloneKeyCaps(v.keys), nil
}

func (v Value) String() string {
	switch v.kind {
	case KindUint64:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindRange:
		return fmt.Sprintf("[%g, %g, %g]", v.r.Min, v.r.Max, v.r.Step)
	case KindKeyList:
		parts := make([]string, 0, len(v.keys))
		for _, kc := range v.keys {
			if kc.Caps == 0 {
				parts = append(parts, kc.Key.String())
				continue
			}
			parts = append(parts, kc.Key.String()+"("+kc.Caps.String()+")")
		}
		return strings.Join(parts, ", ")
	}
	return "<none>"
}
