// internal/driver/errors.go
package driver

import (
	"fmt"

	"github.com/tamzrod/modbus-instrument/internal/errdefs"
)

// Error classes. Transport errors have none: they reach the caller as the
// transport returned them.
var (
	ErrArgument    = errdefs.ErrArgument
	ErrUnsupported = errdefs.ErrUnsupported

	// ErrNotApplicable is returned for a key this driver does not
	// implement for the requested operation.
	ErrNotApplicable = fmt.Errorf("driver: key not applicable: %w", ErrUnsupported)
)

func argError(format string, args ...any) error {
	return fmt.Errorf("driver: "+format+": %w", append(args, ErrArgument)...)
}

func notApplicable(op string, k Key) error {
	return fmt.Errorf("%w: %s %s", ErrNotApplicable, op, k)
}
