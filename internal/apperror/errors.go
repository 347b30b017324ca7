// Package apperror defines the stable error kinds surfaced by the service
// layer. Handlers match on them with errors.Is and map each kind to a
// response code; services wrap them with fmt.Errorf("%w: ...") to attach
// a human-readable message.
package apperror

import "errors"

var (
	// ErrValidation covers malformed or mismatched input: password
	// confirmation mismatch, new password equal to the old one, an
	// invalid or expired OTP at reset time.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned on any authentication failure.
	// Callers cannot distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a refresh token is absent,
	// expired or revoked.
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned on email or username collision.
	ErrUserExists = errors.New("user already exists")
)
