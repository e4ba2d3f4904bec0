package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrNotFound           = errors.New("account not found")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrOTPExpired         = errors.New("otp expired")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidToken       = errors.New("invalid token")

	ErrEventNotFound  = errors.New("event not found")
	ErrDuplicateEvent = errors.New("duplicate event")
)
