package cmd

import (
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	configCmd "github.com/sidkik/indexsync/cmd/config"
	"github.com/sidkik/indexsync/cmd/indexes"
	"github.com/sidkik/indexsync/cmd/util"
	"github.com/sidkik/indexsync/cmd/version"
	"github.com/sidkik/indexsync/pkg/config"
	"github.com/sidkik/indexsync/pkg/errors"
	"github.com/sidkik/indexsync/pkg/lock"
	"github.com/sidkik/indexsync/pkg/shell"
	"github.com/sidkik/indexsync/pkg/sync"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "INDEXSYNC_LOG_VERBOSE"

// Mocked out for unit testing.
var (
	parseDefaults           = config.ParseDefaults
	acquireLock             = lock.Acquire
	stdout        io.Writer = os.Stdout
	stderr        io.Writer = os.Stderr
)

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		DisableColors: !terminal.IsTerminal(int(os.Stderr.Fd())),
	})

	if err := New().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

// New creates the root `indexsync` command.
func New() *cobra.Command {
	var flags runFlags
	rootCmd := &cobra.Command{
		Use:   "indexsync [flags] [-- indexer arguments]",
		Short: "Build search indexes and push them to replica hosts",
		Long: "Run the indexer with the given arguments, then copy the indexes it\n" +
			"built to each remote host, and signal the remote search daemons to\n" +
			"load them.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSync(cmd.Flags(), flags, args); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	flags.register(rootCmd.Flags())

	rootCmd.AddCommand(
		configCmd.New(),
		indexes.New(),
		version.New(),
	)
	return rootCmd
}

type runFlags struct {
	remotes    []string
	key        string
	dstDir     string
	suffix     string
	configPath string
	indexer    string
	wait       time.Duration
	lockPath   string
	dryRun     bool
	syncOnly   bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	defaults := config.DefaultRun()
	fs.StringSliceVarP(&f.remotes, "remote", "r", nil,
		"A replica host, in the form [user@]host. Can be repeated.")
	fs.StringVarP(&f.key, "key", "i", "",
		"The SSH identity file used to connect to the replicas.")
	fs.StringVar(&f.dstDir, "dst-dir", "",
		"The directory the indexes are installed into on the replicas. "+
			"Defaults to the directory of each index's path.")
	fs.StringVar(&f.suffix, "suffix", "",
		"A suffix that's stripped from index file names on the replicas.")
	fs.StringVar(&f.configPath, "config", "",
		"The search configuration file. Defaults to "+defaults.DefaultConfigPath+".")
	fs.StringVar(&f.indexer, "indexer", defaults.Indexer,
		"The indexer executable.")
	fs.DurationVar(&f.wait, "wait", defaults.Wait,
		"How long to wait for the local search daemon to rotate new indexes "+
			"before copying them.")
	fs.StringVar(&f.lockPath, "lock", defaults.LockPath,
		"The lock file that keeps runs from overlapping.")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false,
		"Print the commands that would be run instead of running them.")
	fs.BoolVarP(&f.syncOnly, "sync-only", "s", false,
		"Skip the indexer, and only push the existing indexes.")
}

// toRun merges the flags that were set on the command line over the
// defaults file.
func (f runFlags) toRun(fs *pflag.FlagSet, defaults config.Defaults) (config.Run, error) {
	run, err := config.DefaultRun().WithDefaults(defaults)
	if err != nil {
		return config.Run{}, err
	}

	if fs.Changed("remote") {
		run.Remotes = f.remotes
	}
	if fs.Changed("key") {
		run.Key = f.key
	}
	if fs.Changed("dst-dir") {
		run.DstDir = f.dstDir
	}
	if fs.Changed("suffix") {
		run.Suffix = f.suffix
	}
	if fs.Changed("config") {
		run.ConfigPath = f.configPath
	}
	if fs.Changed("indexer") {
		run.Indexer = f.indexer
	}
	if fs.Changed("wait") {
		run.Wait = f.wait
	}
	if fs.Changed("lock") {
		run.LockPath = f.lockPath
	}
	run.DryRun = f.dryRun
	run.SyncOnly = f.syncOnly

	return run.Expand()
}

func runSync(fs *pflag.FlagSet, flags runFlags, args []string) error {
	defaults, err := parseDefaults()
	if err != nil {
		return errors.WithContext(err, "read defaults")
	}

	run, err := flags.toRun(fs, defaults)
	if err != nil {
		return err
	}

	if !run.DryRun {
		l, err := acquireLock(run.LockPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := l.Release(); err != nil {
				log.WithError(err).Warn("Failed to release lock")
			}
		}()
	}

	syncer := sync.Syncer{
		Run:   run,
		Args:  args,
		Exec:  shell.NewExecutor(stdout, stderr),
		Out:   stdout,
		Clock: clockwork.NewRealClock(),
		Log:   log.StandardLogger(),
	}
	return syncer.Sync()
}
