package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidFileName = errors.New("fetch: invalid file name")
	ErrFetchFailed     = errors.New("fetch: download failed")
)

// StatusError reports a non-2xx response from the remote endpoint.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Retryable reports whether a later attempt may succeed.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

type fetchError struct {
	name string
	err  error
}

func (e fetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.name, e.err)
}

func (e fetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.err}
}
