package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Identifier mappings, entity documents and schemas all report it.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotApplicable indicates the item is not handled by this mapping.
	// It is an expected outcome, not a failure.
	ErrNotApplicable = errors.New("not applicable")

	// ErrMalformedDocument indicates an entity document lacks a component
	// or property the mapping requires.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnexpectedFault indicates a failure that none of the mapping
	// steps anticipated, such as a recovered panic.
	ErrUnexpectedFault = errors.New("unexpected fault")
)
