package transport

import (
	"fmt"
	"net/url"
)

// TransportError covers everything that kept a response from arriving intact:
// dial failures, timeouts, truncated reads and bodies that are not JSON.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, redactURL(e.URL), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteCallError means the server answered but refused: a non-2xx status or
// an application error code inside a 2xx body.
type RemoteCallError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *RemoteCallError) Error() string {
	switch {
	case e.Code != "" && e.Detail != "":
		return fmt.Sprintf("remote call failed (status %d, code %s): %s", e.StatusCode, e.Code, e.Detail)
	case e.Code != "":
		return fmt.Sprintf("remote call failed (status %d, code %s)", e.StatusCode, e.Code)
	case e.Detail != "":
		return fmt.Sprintf("remote call failed with status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("remote call failed with status %d", e.StatusCode)
	}
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path
}
