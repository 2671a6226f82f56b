package comb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue matches every *InvalidValueError.
	ErrInvalidValue = errors.New("comb: invalid parameter value")
	// ErrInvalidConfig is wrapped by construction failures.
	ErrInvalidConfig = errors.New("comb: invalid configuration")
)

// InvalidValueError reports a parameter update that was rejected.
// The filter keeps its previous state.
type InvalidValueError struct {
	Param Param
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("comb: invalid %v value: %g", e.Param, e.Value)
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func invalidValue(p Param, v float64) error {
	return &InvalidValueError{Param: p, Value: v}
}
