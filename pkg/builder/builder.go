package builder

import (
	"github.com/sidkik/indexsync/pkg/errors"
	"github.com/sidkik/indexsync/pkg/shell"
)

// Run invokes the indexer with the given arguments as a single local
// process. A non-zero exit status is returned as an errors.ExitError with
// the indexer's status.
func Run(ctx shell.Context, indexer string, args []string) error {
	line := shell.Join(append([]string{indexer}, args...)...)
	code, err := ctx.Local(line)
	if err != nil {
		return errors.WithContext(err, "run indexer")
	}

	if code != 0 {
		return errors.ExitError{Op: "indexer", Code: code}
	}
	return nil
}
