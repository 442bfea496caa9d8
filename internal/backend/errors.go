package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody caps how much of a failed response body is kept as the message
const maxErrorBody = 512

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s: %s", e.StatusCode, e.URL, e.Message())
}

// Message is the user-facing text: the response body, or a generic
// status line when the body is empty.
func (e *StatusError) Message() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrorMessage extracts the text to show inline for a failed request
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
