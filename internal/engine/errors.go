package engine

import "errors"

// Sentinel errors returned by the engine API.
var (
	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine is closed")

	// ErrInvalidDocument is returned when loaded content is not valid JSON.
	ErrInvalidDocument = errors.New("document is not valid JSON")
)

// ParseError describes a failed canonicalization pass. Content carries the
// tolerant-formatted buffer text so the host can display it for repair.
type ParseError struct {
	Message string
	Content string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}
