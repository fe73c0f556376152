package tlspolicy

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies configuration errors.
type ErrorKind int

const (
	// InvalidArgument means an enum-valued parameter holds an undeclared variant.
	InvalidArgument ErrorKind = iota + 1
	// OutOfRange means a numeric parameter is outside its bounds.
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case OutOfRange:
		return "out of range"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ArgumentError is returned when a policy is built from invalid input. It is
// permanent for the same input.
type ArgumentError struct {
	Kind  ErrorKind
	Param string
	Value interface{}

	// Min and Max are set for OutOfRange errors.
	Min, Max int64
}

func (e *ArgumentError) Error() string {
	if e.Kind == OutOfRange {
		return fmt.Sprintf("%s: %s=%v, must be within [%d, %d]", e.Kind, e.Param, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("%s: %s=%v is not a defined value", e.Kind, e.Param, e.Value)
}

// IsInvalidArgument reports whether err, or the error it wraps, is an
// InvalidArgument ArgumentError.
func IsInvalidArgument(err error) bool {
	return kindOf(err) == InvalidArgument
}

// IsOutOfRange reports whether err, or the error it wraps, is an OutOfRange
// ArgumentError.
func IsOutOfRange(err error) bool {
	return kindOf(err) == OutOfRange
}

func kindOf(err error) ErrorKind {
	if ae, ok := errors.Cause(err).(*ArgumentError); ok {
		return ae.Kind
	}
	return 0
}

func checkRange(param string, v, min, max int64) error {
	if v < min || v > max {
		return &ArgumentError{Kind: OutOfRange, Param: param, Value: v, Min: min, Max: max}
	}
	return nil
}

// checkDefined is the one check used for every enum-valued parameter.
func checkDefined[T comparable](param string, v T, defined []T) error {
	for _, d := range defined {
		if v == d {
			return nil
		}
	}
	return &ArgumentError{Kind: InvalidArgument, Param: param, Value: v}
}
