package entity

import (
	"errors"
	"fmt"
)

var (
	ErrIngest        = errors.New("ingest failed")
	ErrTranscription = errors.New("transcription failed")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failed")
)

// TranscriptionError describes a failed provider call. It matches
// ErrTranscription with errors.Is.
type TranscriptionError struct {
	// StatusCode is the provider's HTTP status, 0 for transport failures.
	StatusCode int
	// Payload is the provider's error message when it sent one.
	Payload string
	Timeout bool
	Err     error
}

func (e *TranscriptionError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("transcription timed out: %v", e.Err)
	case e.Payload != "":
		return fmt.Sprintf("transcription failed with status %d: %s", e.StatusCode, e.Payload)
	default:
		return fmt.Sprintf("transcription failed: %v", e.Err)
	}
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

func (e *TranscriptionError) Is(target error) bool {
	return target == ErrTranscription
}
