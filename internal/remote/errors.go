package remote

import (
	"errors"
	"fmt"
)

var errNullBody = errors.New("null body where a list was expected")

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError means the remote answered with a non-success status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: remote returned status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: remote returned status %d: %s", e.Op, e.Code, e.Body)
}

// DecodeError means the response body could not be parsed.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the remote.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}

// IsUnavailable reports whether err means the remote could not be reached.
func IsUnavailable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
