// Package fallback runs an ordered list of alternatives and keeps the first
// one that succeeds. It backs profile resolution, model selection and the
// money formatter's locale/currency degrade path.
package fallback

import (
	"errors"
	"fmt"
)

// ErrSkip marks a step that does not apply (e.g. an unset URL).
// Skipped steps are not reported as failures.
var ErrSkip = errors.New("step skipped")

// ErrNoSteps is returned when every step was skipped.
var ErrNoSteps = errors.New("no applicable step")

// Step is one alternative. Name identifies it in errors and logs.
type Step[T any] struct {
	Name string
	Run  func() (T, error)
}

// First runs steps in order and returns the first successful value with the
// name of the step that produced it. Each step runs at most once. When all
// steps fail, the joined failures are returned.
func First[T any](steps ...Step[T]) (T, string, error) {
	var errs []error
	for _, s := range steps {
		v, err := s.Run()
		if err == nil {
			return v, s.Name, nil
		}
		if errors.Is(err, ErrSkip) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
	}

	var zero T
	if len(errs) == 0 {
		return zero, "", ErrNoSteps
	}
	return zero, "", errors.Join(errs...)
}

// Value returns a step that yields v, or skips when v is the zero value.
func Value[T comparable](name string, v T) Step[T] {
	return Step[T]{
		Name: name,
		Run: func() (T, error) {
			var zero T
			if v == zero {
				return zero, ErrSkip
			}
			return v, nil
		},
	}
}
