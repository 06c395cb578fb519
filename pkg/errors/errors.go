package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
func New(msg string) error {
	return errors.New(msg)
}

type withContext struct {
	context string
	err     error
}

// WithContext adds a short description of what was happening when `err`
// occurred. Context strings are joined with colons, e.g.
// "sync: stage data: rsync exited with status 23".
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return withContext{context, err}
}

func (err withContext) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err withContext) Unwrap() error {
	return err.err
}

// RootCause strips all the context wrappers from `err`.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(withContext)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}

// FriendlyError is an error whose message is meant to be read by users
// rather than developers.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError from a format string.
func NewFriendlyError(template string, args ...interface{}) error {
	return FriendlyError{fmt.Sprintf(template, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message to show the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

type friendlyErrorInterface interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the friendly message of the first friendly
// error in the chain, or the full error message if there isn't one.
func GetPrintableMessage(err error) string {
	for curr := err; curr != nil; curr = errors.Unwrap(curr) {
		if friendly, ok := curr.(friendlyErrorInterface); ok {
			return friendly.FriendlyMessage()
		}
	}
	return err.Error()
}

// ExitCode returns the exit status that the process should exit with for
// `err`. Errors that don't carry a status map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return 1
}
