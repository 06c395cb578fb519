package config

import (
	"time"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Run is the configuration of a single indexsync invocation.
type Run struct {
	// DefaultConfigPath is where the search configuration is read from when
	// neither ConfigPath nor the indexer arguments name one.
	DefaultConfigPath string

	// ConfigPath is the search configuration explicitly chosen by the user.
	ConfigPath string

	// Indexer is the index builder executable.
	Indexer string

	// Remotes are the replica hosts, each in the form `[user@]host`.
	Remotes []string

	// Key is the SSH identity file used for every remote.
	Key string

	// DstDir overrides the remote directory the index files are installed
	// into. By default, the parent directory of the index path is used.
	DstDir string

	// Suffix is stripped from index file names on the remotes, so that an
	// index built locally at `data-build` is installed as `data`.
	Suffix string

	// Wait is how long to let the local search daemon finish rotating
	// freshly built indexes before they're copied.
	Wait time.Duration

	DryRun   bool
	SyncOnly bool

	// LockPath is the lock file that keeps two runs from overlapping.
	LockPath string
}

// DefaultRun returns the Run used when nothing is configured.
func DefaultRun() Run {
	return Run{
		DefaultConfigPath: "/etc/sphinxsearch/sphinx.conf",
		Indexer:           "indexer",
		Wait:              5 * time.Second,
		LockPath:          "/tmp/indexsync.lock",
	}
}

// WithDefaults overrides the fields of run with the values set in d.
func (run Run) WithDefaults(d Defaults) (Run, error) {
	if d.Config != "" {
		run.ConfigPath = d.Config
	}
	if d.Indexer != "" {
		run.Indexer = d.Indexer
	}
	if len(d.Remotes) != 0 {
		run.Remotes = append([]string(nil), d.Remotes...)
	}
	if d.Key != "" {
		run.Key = d.Key
	}
	if d.DstDir != "" {
		run.DstDir = d.DstDir
	}
	if d.Suffix != "" {
		run.Suffix = d.Suffix
	}
	if d.LockPath != "" {
		run.LockPath = d.LockPath
	}
	if d.Wait != "" {
		wait, err := time.ParseDuration(d.Wait)
		if err != nil {
			return Run{}, errors.NewFriendlyError(
				"The wait time %q in %s is not a valid duration. "+
					"Durations look like \"5s\" or \"1m30s\".", d.Wait, DefaultsPath)
		}
		run.Wait = wait
	}
	return run, nil
}

// Expand expands `~` in the paths of run.
func (run Run) Expand() (Run, error) {
	for _, path := range []*string{&run.ConfigPath, &run.DefaultConfigPath,
		&run.Key, &run.LockPath} {
		expanded, err := homedirExpand(*path)
		if err != nil {
			return Run{}, errors.WithContext(err, "expand path")
		}
		*path = expanded
	}
	return run, nil
}
