package indexconf

import (
	"bytes"
	"io"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// Config is the resolved view of a search configuration file.
type Config struct {
	Indexes []Index

	// PidFile is the searchd `pid_file` setting.
	PidFile string

	// Path is the file the config was loaded from.
	Path string
}

// Lookup returns the index called `name`.
func (cfg Config) Lookup(name string) (Index, bool) {
	for _, idx := range cfg.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index{}, false
}

// Read parses and resolves the configuration in r.
func Read(r io.Reader) (Config, error) {
	raw, err := Parse(r)
	if err != nil {
		return Config{}, errors.WithContext(err, "parse")
	}

	indexes, err := Resolve(raw)
	if err != nil {
		return Config{}, errors.WithContext(err, "resolve")
	}

	return Config{
		Indexes: indexes,
		PidFile: raw.Searchd["pid_file"],
	}, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Config{}, errors.WithContext(err, "expand path")
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.FileNotFound{Path: path}
		}
		return Config{}, errors.WithContext(err, "read file")
	}

	cfg, err := Read(bytes.NewReader(contents))
	if err != nil {
		return Config{}, errors.WithContext(err, path)
	}
	cfg.Path = path
	return cfg, nil
}
