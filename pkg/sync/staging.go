package sync

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/sidkik/indexsync/pkg/errors"
	"github.com/sidkik/indexsync/pkg/indexconf"
	"github.com/sidkik/indexsync/pkg/shell"
)

// Files that the search engine is still writing or rotating. These are
// never staged.
var excludedPatterns = []string{"*.spl", "*.new.*", "*.tmp.*"}

// Target is a single index destined for a single replica.
type Target struct {
	Index indexconf.Index

	// Host is the replica, in the form `[user@]host`.
	Host string

	// Key is the SSH identity used to reach Host. Optional.
	Key string

	// DstDir overrides the directory the index is installed into on Host.
	DstDir string

	// Suffix is stripped from the index's file names on Host.
	Suffix string
}

// Dir returns the directory the index is installed into on the replica.
func (t Target) Dir() string {
	if t.DstDir != "" {
		return t.DstDir
	}
	return filepath.Dir(t.Index.Path)
}

// StageDir returns the directory the index files are copied into before
// they're installed.
func (t Target) StageDir() string {
	return path.Join(t.Dir(), "tmp")
}

// family is the common prefix of the index's file names on this machine.
func (t Target) family() string {
	return filepath.Base(t.Index.Path)
}

// liveFamily is the common prefix of the index's file names on the replica.
func (t Target) liveFamily() string {
	family := t.family()
	if live := strings.TrimSuffix(family, t.Suffix); live != "" {
		return live
	}
	return family
}

func (t Target) context(base shell.Context) shell.Context {
	ctx := base.ForHost(t.Host)
	ctx.Key = t.Key
	return ctx
}

func (t Target) stageCommand(ctx shell.Context) string {
	args := []string{"rsync", "-a", "-e", ctx.Transport()}
	for _, pattern := range excludedPatterns {
		args = append(args, "--exclude="+pattern)
	}

	// Files of another index whose name starts with ours, e.g. `data.v2.sp0`
	// for the `data` index, have more than one extension.
	args = append(args,
		"--exclude="+t.family()+".*.*",
		"--include="+t.family()+".*",
		"--exclude=*",
		filepath.Dir(t.Index.Path)+"/",
		t.Host+":"+t.StageDir()+"/")
	return shell.Join(args...)
}

// renameCommand tags each staged file with `.new.`, and strips the suffix
// from its name: `data-build.sp0` becomes `data.new.sp0`.
func (t Target) renameCommand() string {
	family := shell.Quote(t.family())
	return fmt.Sprintf(`cd %s && for f in %s.*; do `+
		`[ -f "$f" ] || continue; `+
		`ext=${f#%s.}; `+
		`case "$ext" in *.*|spl) continue ;; esac; `+
		`mv -f "$f" %s.new."$ext" || exit 1; `+
		`done`,
		shell.Quote(t.StageDir()), family, family, shell.Quote(t.liveFamily()))
}

// moveCommand moves the renamed files into the index directory, keeping the
// `.new.` tag. The search daemon drops the tag when it rotates the index on
// SIGHUP, which is when `data.new.sp0` becomes `data.sp0`.
func (t Target) moveCommand() string {
	return fmt.Sprintf("mv -f %s/%s.new.* %s/",
		shell.Quote(t.StageDir()), shell.Quote(t.liveFamily()), shell.Quote(t.Dir()))
}

// Stage copies the index files into the staging directory on the replica.
func (t Target) Stage(base shell.Context) error {
	ctx := t.context(base)
	code, err := ctx.Local(t.stageCommand(ctx))
	return checkStatus("stage", code, err)
}

// Rename tags the staged files on the replica with `.new.`.
func (t Target) Rename(base shell.Context) error {
	code, err := t.context(base).Remote(t.renameCommand())
	return checkStatus("rename", code, err)
}

// Move moves the renamed files into the index directory on the replica.
func (t Target) Move(base shell.Context) error {
	code, err := t.context(base).Remote(t.moveCommand())
	return checkStatus("move", code, err)
}

// Push stages, renames and moves the index files. It stops at the first
// step that fails.
func (t Target) Push(base shell.Context) error {
	steps := []struct {
		name string
		fn   func(shell.Context) error
	}{
		{"stage", t.Stage},
		{"rename", t.Rename},
		{"move", t.Move},
	}

	for _, step := range steps {
		if base.Log != nil {
			base.Log.WithField("index", t.Index.Name).WithField("host", t.Host).
				WithField("step", step.name).Debug("Running staging step")
		}
		if err := step.fn(base); err != nil {
			return errors.WithContext(err,
				fmt.Sprintf("push %s to %s", t.Index.Name, t.Host))
		}
	}
	return nil
}

func signalCommand(pidFile string) string {
	return fmt.Sprintf("kill -HUP $(cat %s)", shell.Quote(pidFile))
}

// Signal tells the search daemon on ctx.Host to rotate in the new index
// files. The daemon's process ID is read from pidFile on the replica.
func Signal(ctx shell.Context, pidFile string) error {
	code, err := ctx.Remote(signalCommand(pidFile))
	if err := checkStatus("signal", code, err); err != nil {
		return errors.WithContext(err, fmt.Sprintf("signal %s", ctx.Host))
	}
	return nil
}

func checkStatus(op string, code int, err error) error {
	if err != nil {
		return errors.WithContext(err, op)
	}

	if code != 0 {
		return errors.ExitError{Op: op, Code: code}
	}
	return nil
}
