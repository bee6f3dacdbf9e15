package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that an operation is blocked by dependent state,
// e.g. deleting an account that still has posted ledger lines.
var ErrConflict = errors.New("operation conflicts with existing state")

// ErrInvalidState indicates a mutation the entity's lifecycle forbids,
// e.g. editing the legs of a posted transaction.
var ErrInvalidState = errors.New("invalid state for requested operation")

// ErrUnbalanced indicates that the debit and credit legs of an entry do not
// sum to the same total. This is always a caller bug, never user input;
// handlers log the detail and return a generic message.
var ErrUnbalanced = errors.New("entry debits and credits do not balance")
