package config

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/sidkik/indexsync/cmd/util"
	"github.com/sidkik/indexsync/pkg/config"
	"github.com/sidkik/indexsync/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout         io.Writer = os.Stdout
	parseDefaults            = config.ParseDefaults
	writeDefaults            = config.WriteDefaults
	getDefaultPath           = config.GetDefaultsPath
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.Defaults
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Set the defaults used by indexsync runs",
		Long: "Update the defaults file with the given flags. Settings that " +
			"aren't\ngiven keep their current value.",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := SetupDefaults(cmd, cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup defaults:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Config, "config", "",
		"The search configuration file.")
	cmd.Flags().StringVar(&cliOpts.Indexer, "indexer", "",
		"The indexer executable.")
	cmd.Flags().StringSliceVarP(&cliOpts.Remotes, "remote", "r", nil,
		"A replica host, in the form [user@]host. Can be repeated.")
	cmd.Flags().StringVarP(&cliOpts.Key, "key", "i", "",
		"The SSH identity file used to connect to the replicas.")
	cmd.Flags().StringVar(&cliOpts.DstDir, "dst-dir", "",
		"The directory the indexes are installed into on the replicas.")
	cmd.Flags().StringVar(&cliOpts.Suffix, "suffix", "",
		"A suffix that's stripped from index file names on the replicas.")
	cmd.Flags().StringVar(&cliOpts.Wait, "wait", "",
		"How long to wait for the local search daemon to rotate new indexes.")
	cmd.Flags().StringVar(&cliOpts.LockPath, "lock", "",
		"The lock file that keeps runs from overlapping.")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current defaults",
		Run: func(_ *cobra.Command, _ []string) {
			if err := showDefaults(); err != nil {
				util.HandleFatalError(errors.WithContext(err, "show defaults"))
			}
		},
	})
	return cmd
}

type flagSet interface {
	Changed(name string) bool
}

// SetupDefaults writes the flags that were set to the defaults file.
func SetupDefaults(cmd *cobra.Command, cliOpts config.Defaults) error {
	return setupDefaults(cmd.Flags(), cliOpts)
}

func setupDefaults(flags flagSet, cliOpts config.Defaults) error {
	defaults, err := parseDefaults()
	if err != nil {
		return errors.WithContext(err, "read current defaults")
	}

	defaults = mergeDefaults(flags, defaults, cliOpts)
	if defaults.Wait != "" {
		if _, err := config.DefaultRun().WithDefaults(defaults); err != nil {
			return err
		}
	}

	if err := writeDefaults(defaults); err != nil {
		return errors.WithContext(err, "write defaults")
	}

	path, err := getDefaultPath()
	if err != nil {
		return errors.WithContext(err, "get defaults path")
	}

	fmt.Fprintf(stdout, "Wrote defaults to %s\n", path)
	return nil
}

func mergeDefaults(flags flagSet, curr, cliOpts config.Defaults) config.Defaults {
	fields := []struct {
		flag     string
		dst, src *string
	}{
		{"config", &curr.Config, &cliOpts.Config},
		{"indexer", &curr.Indexer, &cliOpts.Indexer},
		{"key", &curr.Key, &cliOpts.Key},
		{"dst-dir", &curr.DstDir, &cliOpts.DstDir},
		{"suffix", &curr.Suffix, &cliOpts.Suffix},
		{"wait", &curr.Wait, &cliOpts.Wait},
		{"lock", &curr.LockPath, &cliOpts.LockPath},
	}
	for _, field := range fields {
		if flags.Changed(field.flag) {
			*field.dst = *field.src
		}
	}

	if flags.Changed("remote") {
		curr.Remotes = cliOpts.Remotes
	}
	return curr
}

func showDefaults() error {
	defaults, err := parseDefaults()
	if err != nil {
		return errors.WithContext(err, "read defaults")
	}

	yamlBytes, err := yaml.Marshal(defaults)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	_, err = stdout.Write(yamlBytes)
	return err
}
