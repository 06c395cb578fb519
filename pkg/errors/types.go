package errors

import (
	"fmt"
)

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ExitError represents an external command that exited with a non-zero
// status.
type ExitError struct {
	// Op names the operation that ran the command, e.g. "indexer" or "stage".
	Op   string
	Code int
}

func (err ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", err.Op, err.Code)
}
