package repository

import (
	"context"
	"errors"
	"strings"
)

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}

// isTimeout reports whether the store could not serve the request
// within its bounded wait.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
