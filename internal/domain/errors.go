package domain

import (
	"errors"
	"fmt"
)

var (
	// Base errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Catalogue errors
	ErrSongNotFound    = errors.New("song not found")
	ErrInvalidPosition = errors.New("invalid position in playlist")

	// Persistence errors
	ErrStateCorrupted  = errors.New("saved state is corrupted")
	ErrUnknownSection  = errors.New("unknown section in saved state")
	ErrStorageDisabled = errors.New("storage is not configured")

	// Import errors
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrFileNotFound      = errors.New("file not found")
	ErrImportRunning     = errors.New("import already in progress")
)

type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(code string, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewDomainErrorWithDetails(code string, message string, details string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
		Err:     err,
	}
}

// Error codes for consistent error handling
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeAlreadyExists  = "ALREADY_EXISTS"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeStateCorrupted = "STATE_CORRUPTED"
	ErrCodeImport         = "IMPORT"
	ErrCodeFileSystem     = "FILE_SYSTEM"
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrSongNotFound) || errors.Is(err, ErrFileNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidSong) ||
		errors.Is(err, ErrInvalidRating) || errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidPosition)
}

func IsStateError(err error) bool {
	return errors.Is(err, ErrStateCorrupted) || errors.Is(err, ErrUnknownSection)
}
