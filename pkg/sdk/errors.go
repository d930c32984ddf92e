package sift

import "github.com/kshdotdev/sift/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound       = domain.ErrNotFound
	ErrRecordNotFound = domain.ErrRecordNotFound
	ErrAlreadyExists  = domain.ErrAlreadyExists
	ErrInvalidSchema  = domain.ErrInvalidSchema
	ErrQueryTooShort  = domain.ErrQueryTooShort
)
