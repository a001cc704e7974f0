package spice

import (
	"errors"
	"fmt"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

var (
	// ErrMissingField is matched by every [*MissingFieldError].
	ErrMissingField = errors.New("missing required field")

	// ErrDuplicateRule is returned by [Registry.Register] when a rule for the
	// same kind already exists.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrInvalidRule is returned by [Registry.Register] for rules without a
	// kind or element prefix.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrNilDocument is returned when exporting a nil document.
	ErrNilDocument = errors.New("nil document")
)

// FieldSource tells which map of a component a missing field belongs to.
type FieldSource int

const (
	FieldConnection FieldSource = iota
	FieldProperty
)

func (s FieldSource) String() string {
	if s == FieldProperty {
		return "property"
	}
	return "connection"
}

// MissingFieldError reports a recognized component that lacks a connection
// or property its rule requires.
type MissingFieldError struct {
	ComponentID string
	Kind        circuit.Kind
	Field       string
	Source      FieldSource
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("component %s (%s): missing required %s %q", e.ComponentID, e.Kind, e.Source, e.Field)
}

// Is reports whether target is [ErrMissingField].
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
