package services

import "errors"

// Domain errors. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnauthorized       = errors.New("not allowed to perform this action")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredential  = errors.New("invalid credentials")
	ErrInvalidOtp         = errors.New("invalid or expired otp")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidIssueType   = errors.New("invalid issue type")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNotAssigned        = errors.New("technician is not assigned to this issue")
	ErrMissingCredential  = errors.New("password or otp is required")
	ErrNotificationFailed = errors.New("notification delivery failed")
)
