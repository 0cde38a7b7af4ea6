package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateDocument is returned when an account with the same document exists
	ErrDuplicateDocument = errors.New("account with this document already exists")

	// ErrDuplicateEmail is returned when an account with the same email exists
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// ErrDuplicatePhone is returned when an account with the same phone exists
	ErrDuplicatePhone = errors.New("account with this phone already exists")

	// ErrDuplicateSession is returned when the account already owns a session row
	ErrDuplicateSession = errors.New("session for this account already exists")

	// ErrDuplicate is returned for any other unique constraint violation
	ErrDuplicate = errors.New("record already exists")
)

const uniqueViolation = "23505"

var constraintErrors = map[string]error{
	"accounts_document_key":           ErrDuplicateDocument,
	"accounts_email_key":              ErrDuplicateEmail,
	"accounts_phone_key":              ErrDuplicatePhone,
	"account_sessions_account_id_key": ErrDuplicateSession,
}

// duplicateError maps a unique violation to its sentinel, nil for other errors
func duplicateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}
	if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
		return mapped
	}
	return ErrDuplicate
}
