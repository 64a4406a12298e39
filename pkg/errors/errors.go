// Package errors provides the error taxonomy used across crispdm.
//
// It builds on github.com/cockroachdb/errors so that every error carries a
// stack trace (visible with %+v) while remaining compatible with the
// standard errors.Is / errors.As helpers.
//
// Two conditions are recoverable and surface to users as messages:
//
//   - InvalidParameterError: a parameter outside its declared range
//   - InsufficientDataError: fewer points than least squares needs
//
// The remaining types (ModelError, DimensionError, ValueError,
// NotFittedError) describe programming or input-shape mistakes inside the
// estimators.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

const prefix = "crispdm"

// Sentinel errors. Typed errors below match these through errors.Is.
var (
	ErrEmptyData         = errors.New("empty data")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrSingularMatrix    = errors.New("singular matrix")
	ErrNotFitted         = errors.New("model not fitted")
	ErrNotImplemented    = errors.New("not implemented")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInsufficientData  = errors.New("insufficient data")
)

// Re-exports so callers only import one errors package.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// ModelError wraps a failure inside an estimator operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewModelError creates a ModelError with a stack attached.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// DimensionError reports mismatched lengths along an axis.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch on axis %d: expected %d, got %d",
		prefix, e.Op, e.Axis, e.Expected, e.Got)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError reports an input value the operation cannot accept.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NotFittedError is returned when a model is used before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s is not fitted; call Fit before %s", prefix, e.ModelName, e.Method)
}

func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// InvalidParameterError reports a parameter outside its declared range.
type InvalidParameterError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %s=%g: must be within [%g, %g]",
		prefix, e.Param, e.Value, e.Min, e.Max)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// NewInvalidParameterError creates an InvalidParameterError.
func NewInvalidParameterError(param string, value, min, max float64) error {
	return errors.WithStack(&InvalidParameterError{Param: param, Value: value, Min: min, Max: max})
}

// InsufficientDataError reports too few samples for an operation.
type InsufficientDataError struct {
	Op       string
	Got      int
	Required int
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	msg := fmt.Sprintf("%s: %s: insufficient data: got %d samples, need at least %d",
		prefix, e.Op, e.Got, e.Required)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// NewInsufficientDataError creates an InsufficientDataError.
func NewInsufficientDataError(op string, got, required int, reason string) error {
	return errors.WithStack(&InsufficientDataError{Op: op, Got: got, Required: required, Reason: reason})
}

// Recover converts a panic in the calling function into an error stored in
// *err. Use it as `defer Recover(&err, "Type.Method")`.
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = errors.Wrapf(e, "%s: %s: panic", prefix, op)
			return
		}
		*err = errors.Newf("%s: %s: panic: %v", prefix, op, r)
	}
}
