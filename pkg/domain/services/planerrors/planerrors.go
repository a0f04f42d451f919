// Package planerrors defines the error taxonomy shared by the planning
// services. Fatal conditions are returned as errors wrapping one of the
// sentinels below; recoverable conditions accumulate as Warnings alongside
// results, because partial procurement data is the normal operating state.
package planerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedUnit aborts a calculation when a rate unit is not recognized
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrSequencingConflict aborts order creation when two orders would share
	// an order number
	ErrSequencingConflict = errors.New("order number sequencing conflict")

	// ErrMissingReference marks a dangling product, tier, vendor, or line
	// reference. Services skip the offending record and continue.
	ErrMissingReference = errors.New("missing referenced entity")

	// ErrVersionConflict rejects an order write based on a stale snapshot
	ErrVersionConflict = errors.New("order version conflict")
)

// WarningCode classifies a non-fatal condition
type WarningCode string

const (
	WarnMissingReference  WarningCode = "missing_reference"
	WarnMissingVendor     WarningCode = "missing_vendor"
	WarnZeroPrice         WarningCode = "zero_price"
	WarnZeroQuantity      WarningCode = "zero_quantity"
	WarnUnallocatedCharge WarningCode = "unallocated_charge"
)

// Warning is a recoverable condition surfaced alongside a result
type Warning struct {
	Code    WarningCode
	Message string
}

// Warningf creates a Warning with a formatted message
func Warningf(code WarningCode, format string, args ...interface{}) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String method for Warning
func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}
