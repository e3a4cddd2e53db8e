package mapper

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousMapping matches *AmbiguousMappingError.
	ErrAmbiguousMapping = errors.New("ambiguous column mapping")

	// ErrIncompleteMapping matches *IncompleteMappingError.
	ErrIncompleteMapping = errors.New("incomplete column mapping")

	// ErrUnknownColumn matches *UnknownColumnError.
	ErrUnknownColumn = errors.New("unknown column")
)

// Collision is one source column claimed by more than one field.
type Collision struct {
	Column string
	Fields []Field
}

// AmbiguousMappingError reports columns assigned to several fields.
type AmbiguousMappingError struct {
	Collisions []Collision
}

func (e *AmbiguousMappingError) Error() string {
	parts := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		parts[i] = fmt.Sprintf("column %q is mapped to %s", c.Column, fieldList(c.Fields))
	}
	return fmt.Sprintf("%s: %s", ErrAmbiguousMapping, strings.Join(parts, "; "))
}

func (e *AmbiguousMappingError) Is(target error) bool { return target == ErrAmbiguousMapping }

// IncompleteMappingError names the required fields left unmapped.
type IncompleteMappingError struct {
	Fields []Field
}

func (e *IncompleteMappingError) Error() string {
	return fmt.Sprintf("%s: no column selected for %s", ErrIncompleteMapping, fieldList(e.Fields))
}

func (e *IncompleteMappingError) Is(target error) bool { return target == ErrIncompleteMapping }

// UnknownColumnError is returned by Apply when a field points at a column
// the dataset does not have.
type UnknownColumnError struct {
	Field  Field
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("%s: field %s is mapped to %q which is not in the dataset", ErrUnknownColumn, e.Field, e.Column)
}

func (e *UnknownColumnError) Is(target error) bool { return target == ErrUnknownColumn }
