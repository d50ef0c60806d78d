package adoptions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid state transition")

	// Variantes con mensaje propio en HTTP; errors.Is contra el genérico sigue funcionando.
	ErrAnimalNotFound    = fmt.Errorf("animal %w", ErrNotFound)
	ErrAnimalUnavailable = fmt.Errorf("animal unavailable: %w", ErrConflict)
	ErrDuplicateActive   = fmt.Errorf("active request exists: %w", ErrConflict)
)

// ValidationError lleva el detalle por campo; errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range sortedKeys(e.Fields) {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
