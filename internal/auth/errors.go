package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOldPassword is returned when the current password does not match.
	ErrInvalidOldPassword = errors.New("current password incorrect")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrEmptySecret is returned when a token service is built without a secret.
	ErrEmptySecret = errors.New("token secret can not be empty")
)
