package application

import (
	"errors"

	"github.com/stacksapp/stacks-api/internal/domain/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The caller must not be able to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCannotMutate is the generic ownership denial. It covers both "the
	// record does not exist" and "the record belongs to someone else" so a
	// non-owner learns nothing about what exists.
	ErrCannotMutate = errors.New("cannot mutate resource")

	// ErrNotFound is for direct reads of an absent resource, where no
	// ownership applies and a 404 leaks nothing.
	ErrNotFound = errors.New("not found")

	ErrEmailTaken    = errors.New("email already taken")
	ErrMissingFilter = errors.New("at least one category filter is required")
)

// FieldError is a client-caused validation failure tied to a single request
// field. The whole request is rejected; nothing is persisted.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// maskNotFound turns a zero-rows conditional write into the generic mutation
// denial. The conditional write itself is the ownership check (see the
// UpdateOwned/DeleteOwned contracts); collapsing "missing" and "not owned"
// into one answer here is deliberate existence hiding, not an accident.
func maskNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCannotMutate
	}
	return err
}
