package domain

import "errors"

var (
	// ErrNotFound signals a missing collection.
	ErrNotFound = errors.New("not found")
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid schema or record payload.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrQueryTooShort signals a search query below the configured minimum length.
	ErrQueryTooShort = errors.New("query too short")
)
