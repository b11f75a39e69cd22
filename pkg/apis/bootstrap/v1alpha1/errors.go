package v1alpha1

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every ConfigError.
	ErrInvalidConfig = errors.New("invalid bootstrap configuration")
	// ErrInvalidProfile is returned when a profile flag value is unknown.
	ErrInvalidProfile = errors.New("invalid profile")
)

// ConfigError reports plan input that cannot be resolved into a Plan.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
