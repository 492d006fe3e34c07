// internal/errdefs/errdefs.go

// Package errdefs holds the error classes shared by every layer.
// Transport errors have no class here: they pass through untouched.
package errdefs

import "errors"

var (
	// ErrArgument marks a nil or invalid instance, key, or value.
	ErrArgument = errors.New("invalid argument")

	// ErrUnsupported marks an unknown model or a key this driver does
	// not implement.
	ErrUnsupported = errors.New("not supported")
)

// IsArgument reports whether err is an argument error.
func IsArgument(err error) bool { return errors.Is(err, ErrArgument) }

// IsUnsupported reports whether err is an unsupported error.
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }
