package builder

import (
	"strings"
)

// Merge is an `--merge <dst> <src>` request, which merges Src into Dst.
type Merge struct {
	Dst, Src string
}

// Options are the indexer arguments that affect how indexes are synced.
type Options struct {
	// Config is the configuration file given with `--config` or `-c`.
	Config string

	All    bool
	Rotate bool
	Merge  *Merge

	// Indexes are the index names given as positional arguments.
	Indexes []string
}

// valueCounts is the number of values that follow the indexer flags that
// take values. Flags missing from the map are assumed to take none.
var valueCounts = map[string]int{
	"--config":           1,
	"-c":                 1,
	"--merge":            2,
	"--buildstops":       2,
	"--merge-dst-range":  3,
	"--dump-rows":        1,
	"--keep-attrs-names": 1,
	"--print-rt":         2,
}

// ScanOptions picks the options it recognizes out of the indexer arguments.
// It never fails: unknown flags are skipped, and flags missing their values
// are ignored.
func ScanOptions(args []string) Options {
	var opts Options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			opts.Indexes = append(opts.Indexes, arg)
			continue
		}

		if strings.HasPrefix(arg, "--config=") {
			opts.Config = strings.TrimPrefix(arg, "--config=")
			continue
		}

		count := valueCounts[arg]
		if i+count >= len(args) {
			// The flag is missing its values, so the indexer will reject
			// the command line anyway.
			return opts
		}
		values := args[i+1 : i+1+count]
		i += count

		switch arg {
		case "--all":
			opts.All = true
		case "--rotate":
			opts.Rotate = true
		case "--config", "-c":
			opts.Config = values[0]
		case "--merge":
			opts.Merge = &Merge{Dst: values[0], Src: values[1]}
		}
	}
	return opts
}

// Selects returns whether the indexer arguments ask for `index` to be
// synced. A merge only syncs its destination.
func (opts Options) Selects(index string) bool {
	if opts.Merge != nil {
		return index == opts.Merge.Dst
	}

	if opts.All {
		return true
	}

	for _, name := range opts.Indexes {
		if name == index {
			return true
		}
	}
	return false
}

// Requested returns the index names that were explicitly asked for.
func (opts Options) Requested() []string {
	if opts.Merge != nil {
		return []string{opts.Merge.Dst}
	}
	return opts.Indexes
}

// WithConfig returns args with `--config path` prepended, unless args
// already name a configuration file.
func WithConfig(args []string, path string) []string {
	if path == "" || ScanOptions(args).Config != "" {
		return args
	}
	return append([]string{"--config", path}, args...)
}
