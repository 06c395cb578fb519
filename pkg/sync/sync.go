package sync

import (
	"io"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/indexsync/pkg/builder"
	"github.com/sidkik/indexsync/pkg/config"
	"github.com/sidkik/indexsync/pkg/errors"
	"github.com/sidkik/indexsync/pkg/indexconf"
	"github.com/sidkik/indexsync/pkg/shell"
)

// Mocked out for unit testing.
var loadConfig = indexconf.Load

// Syncer builds indexes with the indexer, and pushes the results to the
// configured replicas.
type Syncer struct {
	Run config.Run

	// Args are passed through to the indexer.
	Args []string

	Exec  shell.Executor
	Out   io.Writer
	Clock clockwork.Clock
	Log   log.FieldLogger
}

// Sync runs the indexer and then replicates the indexes it built. The
// indexer is skipped when the run is sync-only.
func (s Syncer) Sync() error {
	opts := builder.ScanOptions(s.Args)
	ctx := s.context()

	configPath := s.configPath(opts)
	cfg, err := loadConfig(configPath)
	if err != nil {
		if s.Run.SyncOnly {
			return errors.WithContext(err, "load search config")
		}

		s.Log.WithError(err).WithField("path", configPath).Warn(
			"Failed to load the search configuration. " +
				"Running the indexer without syncing.")
		return builder.Run(ctx, s.Run.Indexer, s.Args)
	}

	if !s.Run.SyncOnly {
		args := builder.WithConfig(s.Args, s.Run.ConfigPath)
		if err := builder.Run(ctx, s.Run.Indexer, args); err != nil {
			return err
		}

		if opts.Rotate && len(s.Run.Remotes) != 0 && !s.Run.DryRun && s.Run.Wait > 0 {
			s.Log.WithField("wait", s.Run.Wait).Info(
				"Waiting for the search daemon to rotate the new indexes")
			s.Clock.Sleep(s.Run.Wait)
		}
	}

	indexes := selectIndexes(s.Log, cfg, opts)
	if len(indexes) == 0 || len(s.Run.Remotes) == 0 {
		s.Log.WithField("indexes", len(indexes)).
			WithField("remotes", len(s.Run.Remotes)).
			Info("Nothing to sync")
		return nil
	}

	if cfg.PidFile == "" {
		if !s.Run.DryRun {
			return errors.NewFriendlyError(
				"The searchd section of %s doesn't set pid_file.\n"+
					"The pid file is needed to tell the remote search daemons "+
					"to load the new indexes.", cfg.Path)
		}
		s.Log.WithField("path", cfg.Path).Warn("The search configuration " +
			"doesn't set pid_file, so the remote search daemons won't be signaled")
	}

	for _, host := range s.Run.Remotes {
		for _, index := range indexes {
			target := Target{
				Index:  index,
				Host:   host,
				Key:    s.Run.Key,
				DstDir: s.Run.DstDir,
				Suffix: s.Run.Suffix,
			}
			if err := target.Push(ctx); err != nil {
				return err
			}
			s.Log.WithField("index", index.Name).WithField("host", host).
				Info("Pushed index")
		}
	}

	// The daemons are only signaled once every index has been moved into
	// place, so that they rotate all of them at once.
	for _, host := range s.Run.Remotes {
		if cfg.PidFile == "" {
			break
		}

		if err := Signal(ctx.ForHost(host), cfg.PidFile); err != nil {
			return err
		}
	}

	s.Log.WithField("indexes", len(indexes)).
		WithField("remotes", len(s.Run.Remotes)).
		Info("Sync complete")
	return nil
}

func (s Syncer) context() shell.Context {
	return shell.Context{
		Key:    s.Run.Key,
		DryRun: s.Run.DryRun,
		Exec:   s.Exec,
		Out:    s.Out,
		Log:    s.Log,
	}
}

// configPath returns the search configuration that the indexer will read.
func (s Syncer) configPath(opts builder.Options) string {
	switch {
	case opts.Config != "":
		return opts.Config
	case s.Run.ConfigPath != "":
		return s.Run.ConfigPath
	default:
		return s.Run.DefaultConfigPath
	}
}

// selectIndexes returns the indexes that should be pushed, in the order
// they're declared in the configuration.
func selectIndexes(logger log.FieldLogger, cfg indexconf.Config,
	opts builder.Options) (selected []indexconf.Index) {

	for _, name := range opts.Requested() {
		if _, ok := cfg.Lookup(name); !ok {
			logger.WithField("index", name).Warn(
				"Index isn't declared in the search configuration")
		}
	}

	for _, index := range cfg.Indexes {
		if !opts.Selects(index.Name) {
			continue
		}

		switch {
		case !index.IsPlain():
			logger.WithField("index", index.Name).WithField("type", index.Type).
				Debug("Skipping index that isn't plain")
		case !index.HasPath():
			logger.WithField("index", index.Name).
				Debug("Skipping index without a path")
		default:
			selected = append(selected, index)
		}
	}
	return selected
}
