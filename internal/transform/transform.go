package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// ScenarioTransform defines the interface for all input transformations.
// Transforms are composable operations that derive a what-if input from a
// base input, enabling scenario comparison, the solver and the TUI sliders.
type ScenarioTransform interface {
	// Apply returns a modified copy of base. base is never mutated.
	Apply(base *domain.InputModel) (*domain.InputModel, error)

	// Name returns a short identifier for this transform (e.g., "postpone_retirement").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform parameters are valid for base without applying it.
	Validate(base *domain.InputModel) error
}

// ApplyTransforms applies a sequence of transforms to a base input.
// Transforms are applied in order, with each transform receiving the output of the previous one.
// Returns an error if any transform fails to validate or apply.
func ApplyTransforms(base *domain.InputModel, transforms []ScenarioTransform) (*domain.InputModel, error) {
	if base == nil {
		return nil, fmt.Errorf("base input cannot be nil")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// Describe joins the descriptions of transforms for labels and reports.
func Describe(transforms []ScenarioTransform) string {
	out := ""
	for i, t := range transforms {
		if i > 0 {
			out += "; "
		}
		out += t.Description()
	}
	return out
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func requireBase(name string, base *domain.InputModel) error {
	if base == nil {
		return NewTransformError(name, "validate", "base input cannot be nil", nil)
	}
	return nil
}
