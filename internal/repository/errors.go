// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without string
// matching on driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrUsernameExists is returned when registering with a username that is
// already taken. Handlers translate this into an HTTP 400 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrTodoNotFound is returned when a todo cannot be found, or exists but is
// owned by a different user. Both cases surface identically so the API
// never leaks the existence of another user's records.
var ErrTodoNotFound = errors.New("todo not found")

// ErrTokenNotFound is returned when a presented token does not resolve to
// an active session (unknown, revoked or expired).
var ErrTokenNotFound = errors.New("token not found")

// isDuplicateKey reports whether err is a unique constraint violation.
// MySQL reports error 1062; SQLite (used by the test suite) reports a
// "UNIQUE constraint failed" message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") || strings.Contains(msg, "UNIQUE constraint")
}
