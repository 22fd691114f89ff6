package record

import "errors"

// Errors surfaced by the recorder. All are synchronous and leave session
// state untouched; none is retried.
var (
	// ErrNotRecording is returned by Stop when no session is in progress.
	ErrNotRecording = errors.New("not currently recording")

	// ErrAlreadyRecording is returned by Start while a session is in progress.
	ErrAlreadyRecording = errors.New("recording already in progress")

	// ErrInvalidSpec is returned by Start when the spec fails validation.
	// Wrapped errors carry the specific reason.
	ErrInvalidSpec = errors.New("invalid record spec")
)
