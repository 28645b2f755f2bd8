package zhihu

import (
	"errors"
	"fmt"
)

// ErrAuth is returned before any I/O when no usable cookie is set.
var ErrAuth = errors.New("zhihu cookie is not set")

// MalformedResponseError reports a payload that decoded as JSON but lacks a
// field the client depends on.
type MalformedResponseError struct {
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed response: missing %s", e.Field)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
