package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Upload errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Chat errors
	ErrEmptyMessage = errors.New("message has no content")

	// Weather errors
	ErrLocationUnavailable = errors.New("could not resolve caller location")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidFormat = errors.New("invalid format")
)

// DocumentParseError reports unreadable or corrupt document bytes. The
// caller may proceed without a corpus (no citations) or abort the turn.
type DocumentParseError struct {
	Filename string
	Err      error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse document %q: %v", e.Filename, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// ErrorResponse is the standard error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
