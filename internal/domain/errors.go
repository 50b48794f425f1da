package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUninitialized = errors.New("cart store is not initialized")
	ErrConstraint    = errors.New("constraint violation")
	ErrStore         = errors.New("store failure")
)

// StoreError is returned by repositories for failed statements.
// It matches both its Kind sentinel and the underlying driver error.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
