package gauge

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid gauge configuration")
	ErrOutOfRange    = errors.New("value out of range")
	ErrInvalidValue  = errors.New("invalid value")
)

// ConfigurationError is returned when a Scale or RangeTable is malformed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// OutOfRangeError reports a value outside of [Min, Max].
type OutOfRangeError struct {
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %g out of range [%g, %g]", e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// InvalidValueError is returned for NaN or infinite targets.
type InvalidValueError struct {
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %g", ErrInvalidValue, e.Value)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
