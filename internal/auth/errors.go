package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registration hits the unique
	// constraint on users.username.
	ErrUsernameTaken = errors.New("username taken")
	// ErrValidation is returned when a required signup field is empty.
	ErrValidation = errors.New("validation failed")
)
