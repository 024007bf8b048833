package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Note errors. Missing and foreign notes share one error.
	ErrNoteNotFound = fmt.Errorf("%w: note not found", ErrNotFound)

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrUserAlreadyExists  = errors.New("email already in use")

	// Validation errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidBody        = fmt.Errorf("%w: request body must be a JSON object", ErrInvalidInput)
	ErrInvalidID          = fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	ErrTitleRequired      = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrTitleEmpty         = fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	ErrTitleTooLong       = fmt.Errorf("%w: title must be at most 255 characters", ErrInvalidInput)
	ErrInvalidTags        = fmt.Errorf("%w: tags must be an array", ErrInvalidInput)
	ErrInvalidContent     = fmt.Errorf("%w: content must be a string", ErrInvalidInput)
	ErrInvalidEmail       = fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	ErrCredentialsMissing = fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
)
