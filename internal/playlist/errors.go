package playlist

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError reports that a referenced playlist or video does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError reports a duplicate membership.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// Store-level sentinels, translated by Service.
var (
	errPlaylistNotFound   = errors.New("playlist not found")
	errVideoAlreadyMember = errors.New("video already in playlist")
)

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
