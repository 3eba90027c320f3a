package wordreference

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when client is created without API key
	ErrMissingCredential = errors.New("wordreference API key is required")
	// ErrUnsupportedLanguage is returned for codes outside of the language catalog
	ErrUnsupportedLanguage = errors.New("language not supported")
	// ErrTransport is returned when request failed or API responded with non-success status
	ErrTransport = errors.New("wordreference request failed")
	// ErrMalformedResponse is returned when response body is not valid JSON
	ErrMalformedResponse = errors.New("malformed wordreference response")
	// ErrNoEntryFound is returned when response has no term0 entry.
	// API responds the same way to unknown terms and invalid keys.
	ErrNoEntryFound = errors.New("no entry found, check API key or term spelling")
	// ErrMalformedPayload is returned when translation payload misses required fields
	ErrMalformedPayload = errors.New("malformed translation payload")
)

// StatusError describes unsuccessful API response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unsuccessful API response %d", e.StatusCode)
}
