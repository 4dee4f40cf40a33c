package studio

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError reports an HTTP request that reached the service but was
// rejected. Detail carries the service's own explanation when the error body
// had one.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("studio %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("studio %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a RequestError for a missing resource.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// ValidationError reports a request rejected before it hit the network.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid request"
	}
	if len(e.Problems) == 1 {
		return "invalid request: " + e.Problems[0]
	}
	msg := "invalid request:"
	for _, problem := range e.Problems {
		msg += "\n  - " + problem
	}
	return msg
}
