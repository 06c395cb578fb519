package shell

import (
	"strings"

	"github.com/alessio/shellescape"
)

// Quote returns s quoted for the POSIX shell. Strings that don't need
// quoting are returned unchanged so that printed commands stay readable.
func Quote(s string) string {
	return shellescape.Quote(s)
}

// Join quotes each argument and joins them into a single command line.
func Join(args ...string) string {
	return shellescape.QuoteCommand(args)
}

// remoteEscaper escapes the characters that the local shell would otherwise
// interpret inside a double-quoted string.
var remoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"`", "\\`",
	`$`, `\$`,
)

// quoteRemote wraps a command line in double quotes so that it reaches the
// remote shell verbatim.
func quoteRemote(line string) string {
	return `"` + remoteEscaper.Replace(line) + `"`
}
