package services

import "errors"

// Domain failures raised by the services; handlers map them to HTTP statuses.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientCredits = errors.New("insufficient credit balance")
)
