package backend

import (
	"errors"
	"fmt"
)

// APIError is a structured error reported by the analysis backend. Detail is
// safe to show to the user. Transport failures are plain wrapped errors, not
// APIErrors, so callers can tell the two apart.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Detail)
}

// AsAPIError unwraps err to an APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
