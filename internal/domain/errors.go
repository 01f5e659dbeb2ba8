package domain

import "fmt"

// Error types for consistent error handling across the gateway.

// ErrProfileResolution indicates that every business profile source failed.
type ErrProfileResolution struct {
	Attempts error
}

func (e *ErrProfileResolution) Error() string {
	if e.Attempts == nil {
		return "business profile could not be loaded"
	}
	return fmt.Sprintf("business profile could not be loaded: %v", e.Attempts)
}

func (e *ErrProfileResolution) Unwrap() error {
	return e.Attempts
}

// ErrUpstreamCompletion indicates the completion provider rejected the call
// or answered with a payload that could not be decoded.
type ErrUpstreamCompletion struct {
	StatusCode int
	Err        error
}

func (e *ErrUpstreamCompletion) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion API error %d", e.StatusCode)
	}
	return fmt.Sprintf("completion API error: %v", e.Err)
}

func (e *ErrUpstreamCompletion) Unwrap() error {
	return e.Err
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrMalformedRequest indicates the request body is not valid JSON or misses a required field.
type ErrMalformedRequest struct {
	Field   string
	Message string
}

func (e *ErrMalformedRequest) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed request: %s", e.Message)
	}
	return fmt.Sprintf("malformed request: '%s' %s", e.Field, e.Message)
}

// ErrValidation indicates a business profile that breaks its invariants.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
