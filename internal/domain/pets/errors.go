package pets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("pet not found")
	ErrForbidden   = errors.New("forbidden")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError detalla qué campos fallaron. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
