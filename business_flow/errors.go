// Package businessflow contains the core business logic for the kura placement workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Position-related errors
	ErrPositionNotFound  = errors.New("position not found")
	ErrApplicantNotFound = errors.New("applicant not found in scope")

	// Preference-related errors
	ErrInvalidPreferenceStatus = errors.New("invalid preference status")
	ErrUserIDRequired          = errors.New("user ID is required")

	// Import-related errors
	ErrTranscriptEmpty = errors.New("transcript text is empty")
	ErrImportLockHeld  = errors.New("another import of this document is in progress")

	// Filter errors
	ErrInvalidOrderKey = errors.New("order key is not allowed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsPositionNotFound(err error) bool {
	return errors.Is(err, ErrPositionNotFound)
}

func IsApplicantNotFound(err error) bool {
	return errors.Is(err, ErrApplicantNotFound)
}

func IsInvalidPreferenceStatus(err error) bool {
	return errors.Is(err, ErrInvalidPreferenceStatus)
}

func IsImportLockHeld(err error) bool {
	return errors.Is(err, ErrImportLockHeld)
}
