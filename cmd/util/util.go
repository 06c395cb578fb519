package util

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Mocked out for unit testing.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// HandleFatalError handles errors that are severe enough to terminate the
// program. The process exits with the status of the command that failed, if
// there was one.
func HandleFatalError(err error) {
	if _, ok := errors.RootCause(err).(errors.ExitError); !ok {
		log.WithError(err).Debug("Fatal error")
	}
	fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	exit(errors.ExitCode(err))
}

// HandlePanic logs a panic before letting it crash the program.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("panic", r).Error("Unexpected crash")
		panic(r)
	}
}
