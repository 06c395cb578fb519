package indexes

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/buger/goterm"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/sidkik/indexsync/cmd/util"
	"github.com/sidkik/indexsync/pkg/config"
	"github.com/sidkik/indexsync/pkg/errors"
	"github.com/sidkik/indexsync/pkg/indexconf"
)

// Mocked out for unit testing.
var (
	stdout        io.Writer = os.Stdout
	useColor                = terminal.IsTerminal(int(os.Stdout.Fd()))
	parseDefaults           = config.ParseDefaults
	loadConfig              = indexconf.Load
)

// New creates a new `indexes` command.
func New() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the indexes in the search configuration",
		Long: "List every index declared in the search configuration, along with\n" +
			"its resolved path and whether indexsync would push it.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(configPath); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "",
		"The search configuration file.")
	return cmd
}

func run(configPath string) error {
	if configPath == "" {
		defaults, err := parseDefaults()
		if err != nil {
			return errors.WithContext(err, "read defaults")
		}

		configPath = defaults.Config
		if configPath == "" {
			configPath = config.DefaultRun().DefaultConfigPath
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return errors.WithContext(err, "load search config")
	}

	out := tabwriter.NewWriter(stdout, 0, 10, 5, ' ', 0)
	defer out.Flush()

	fmt.Fprintln(out, "NAME\tTYPE\tPATH\tPARENT\tSTATUS")
	for _, index := range cfg.Indexes {
		path := index.Path
		if path == "" {
			path = "-"
		}
		parent := index.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
			index.Name, index.Type, path, parent, status(index))
	}
	return nil
}

func status(index indexconf.Index) string {
	msg, color := "synced", goterm.GREEN
	switch {
	case !index.IsPlain():
		msg, color = "skipped (not plain)", goterm.BLACK
	case !index.HasPath():
		msg, color = "skipped (no path)", goterm.YELLOW
	}

	if !useColor {
		return msg
	}
	return goterm.Color(msg, color)
}
