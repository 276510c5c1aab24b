package feed

import (
	"errors"
	"fmt"
)

// ParseError marks a feed body that is empty, not well-formed XML, or
// well-formed XML without a recognizable RSS/Atom structure. Callers use
// it to tell "this URL did not yield usable feed data" apart from network
// and storage failures.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func NewParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// FetchError marks a network failure or a non-2xx upstream response.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return e.Message
}

// ContentTypeError marks a successful response whose content type does not
// identify it as a feed document.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return "URL does not point to a valid RSS feed"
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func IsContentTypeError(err error) bool {
	var ce *ContentTypeError
	return errors.As(err, &ce)
}
