package creator

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrUnauthorized  = errors.New("not authenticated")
)

// StatusError is a non-2xx response from a remote rentwise server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}
