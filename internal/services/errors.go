package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested user or job does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication covers both unknown email and wrong password; callers
	// must not be able to tell them apart.
	ErrAuthentication = errors.New("invalid email or password")

	// ErrAuthorization means the caller is logged in but may not act on the
	// target (not the job owner, or the account password did not verify).
	ErrAuthorization = errors.New("no permission")

	// ErrExternalService marks adapter failures. It is only logged; the
	// adapter returns a nil result instead of propagating it.
	ErrExternalService = errors.New("external service unavailable")
)

// ValidationError carries user-facing messages keyed by form field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
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
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
