package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrUnknownVariant = errors.New("unrecognized transaction type")
	ErrInvalidStatus  = errors.New("invalid listing status")
	ErrUnknownEntity  = errors.New("unknown hierarchy entity")
	ErrSessionClosed  = errors.New("wizard session closed")
	ErrStepBoundary   = errors.New("no step in that direction")
	ErrUpstream       = errors.New("upstream service failed")
	// ErrForbidden is a 401/403 from the listing API.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError blocks a step transition or submission. The draft is kept.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string { return e.Field + ": " + e.Reason }

func (e ValidationError) Unwrap() error { return ErrValidation }

type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (es ValidationErrors) Unwrap() error { return ErrValidation }

// OrNil returns nil for an empty list so callers can return it directly.
func (es ValidationErrors) OrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
