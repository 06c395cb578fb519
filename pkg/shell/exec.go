package shell

//go:generate mockery -name Executor

import (
	"io"
	"os/exec"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Executor runs command lines.
type Executor interface {
	// Run executes `line` and returns its exit status. The error is only
	// set if the command couldn't be run at all.
	Run(line string) (int, error)
}

// Mocked out for unit testing.
var runCommand = (*exec.Cmd).Run

type shExecutor struct {
	shell          string
	stdout, stderr io.Writer
}

// NewExecutor returns an Executor that runs command lines with /bin/sh,
// sending their output to stdout and stderr.
func NewExecutor(stdout, stderr io.Writer) Executor {
	return shExecutor{shell: "/bin/sh", stdout: stdout, stderr: stderr}
}

func (e shExecutor) Run(line string) (int, error) {
	cmd := exec.Command(e.shell, "-c", line)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	err := runCommand(cmd)
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	} else if err != nil {
		return -1, errors.WithContext(err, "start shell")
	}
	return 0, nil
}
