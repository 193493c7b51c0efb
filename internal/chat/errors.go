package chat

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers both missing conversations and ones owned by someone else.
	ErrNotFound            = errors.New("conversation not found")
	ErrUpstreamUnavailable = errors.New("completion service unavailable")
	// ErrAlreadyTitled means the title moved on since the title job was queued.
	ErrAlreadyTitled = errors.New("conversation already titled")
)
