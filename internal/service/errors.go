package service

import "errors"

// Sentinel errors crossing the service boundary. Handlers map these onto
// HTTP status codes and response error codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("not allowed")
	ErrNotEnrolled        = errors.New("student is not enrolled in this batch")
	ErrAlreadySubmitted   = errors.New("quiz already submitted")
)
