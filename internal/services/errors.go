package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnavailable        = errors.New("member service is temporarily unavailable, please try again")
	ErrArchiveDisabled    = errors.New("ranking archive is not configured")
	ErrPhotoUpload        = errors.New("photo upload failed, please try again")
)

// ValidationError is a user-facing message detected before any store call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
