package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrMalformedEvent      = errors.New("malformed event payload")
	ErrInvalidSignature    = errors.New("invalid event signature")
	ErrSecretNotConfigured = errors.New("events secret not configured")
	ErrGatewayFailure      = errors.New("payment gateway failure")
)
