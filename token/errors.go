package token

import "errors"

var (
	ErrNotConfigured      = errors.New("token: service is not configured")
	ErrInvalidCredentials = errors.New("token: invalid credentials")
	ErrMalformedToken     = errors.New("token: malformed token")
	ErrInvalidSignature   = errors.New("token: invalid signature")
	ErrExpired            = errors.New("token: expired")
)

// IsUnauthorized reports whether err is one of the failures that must be
// presented to a caller as a plain "unauthorized".
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired)
}
