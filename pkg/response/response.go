// Package response defines the sentinel error type the chat and knowledge
// domains declare their API errors with. handlerUtil maps these to HTTP
// statuses.
package response

import (
	"errors"
)

// Error pairs an HTTP status code with the underlying error. Two Errors are
// equal for errors.Is when both code and message match, so sentinels compare
// by value rather than pointer identity.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}
