package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// sshOptions make ssh fail rather than prompt when trust to the remote host
// hasn't been established.
var sshOptions = []string{"-o", "BatchMode=yes"}

// Context decides how a command is run: locally, on a remote host over ssh,
// or not at all when DryRun is set.
type Context struct {
	// Host is the remote host in the form `[user@]host`.
	Host string

	// Key is the SSH identity file. Optional.
	Key string

	// DryRun prints commands instead of running them.
	DryRun bool

	Exec Executor

	// Out is where dry-run commands are printed.
	Out io.Writer

	Log logrus.FieldLogger
}

// ForHost returns a copy of the context that targets `host`.
func (ctx Context) ForHost(host string) Context {
	ctx.Host = host
	return ctx
}

// Transport returns the ssh invocation used to reach remote hosts, e.g. for
// rsync's `-e` flag.
func (ctx Context) Transport() string {
	args := append([]string{"ssh"}, sshOptions...)
	if ctx.Key != "" {
		args = append(args, "-i", ctx.Key)
	}
	return Join(args...)
}

// RemoteLine wraps `line` so that it runs on ctx.Host.
func (ctx Context) RemoteLine(line string) string {
	return strings.Join([]string{ctx.Transport(), Quote(ctx.Host),
		quoteRemote(line)}, " ")
}

// Local runs `line` on this machine.
func (ctx Context) Local(line string) (int, error) {
	if ctx.DryRun {
		fmt.Fprintln(ctx.Out, line)
		return 0, nil
	}

	if ctx.Log != nil {
		ctx.Log.WithField("command", line).Debug("Running command")
	}
	return ctx.Exec.Run(line)
}

// Remote runs `line` on ctx.Host.
func (ctx Context) Remote(line string) (int, error) {
	return ctx.Local(ctx.RemoteLine(line))
}
