package reactor

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a parameter value outside its physical bounds.
	ErrInvalidParameter = errors.New("reactor: parameter outside physical bounds")

	// ErrIntegrationFailure indicates the solver could not produce a trajectory.
	ErrIntegrationFailure = errors.New("reactor: integration failed")

	// ErrStepTooSmall indicates the adaptive timestep underflowed its minimum.
	ErrStepTooSmall = errors.New("reactor: adaptive timestep below minimum")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("reactor: invalid state (NaN or Inf detected)")
)

// ParameterError reports which field failed validation and why. It is
// raised before any integration begins and is never silently corrected.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %q = %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// IntegrationError wraps a solver failure with the time it occurred.
type IntegrationError struct {
	Time    float64
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.6g: %v", e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error { return e.Wrapped }

// Is lets errors.Is match any IntegrationError against ErrIntegrationFailure.
func (e *IntegrationError) Is(target error) bool {
	return target == ErrIntegrationFailure
}
