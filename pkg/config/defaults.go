package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/indexsync/pkg/errors"
)

const (
	// DefaultsPath is the default path to the indexsync defaults file.
	DefaultsPath = "~/.indexsync.yaml"

	// InitialDefaultsVersion is the first version of the defaults file.
	// Files that do not specify a version default to this version.
	InitialDefaultsVersion = "v1alpha1"

	// SupportedDefaultsVersion is the version of the defaults file that this
	// binary understands.
	SupportedDefaultsVersion = "v1alpha1"
)

// Defaults holds the values used for any run setting that isn't given on
// the command line.
type Defaults struct {
	Version  string   `json:"version,omitempty"`
	Config   string   `json:"config,omitempty"`
	Indexer  string   `json:"indexer,omitempty"`
	Remotes  []string `json:"remotes,omitempty"`
	Key      string   `json:"key,omitempty"`
	DstDir   string   `json:"dstDir,omitempty"`
	Suffix   string   `json:"suffix,omitempty"`
	Wait     string   `json:"wait,omitempty"`
	LockPath string   `json:"lockPath,omitempty"`
}

// Mocked out for unit testing.
var (
	fs            = afero.NewOsFs()
	homedirExpand = homedir.Expand
)

// invalidDefaultsTemplate is shown when the defaults file isn't valid YAML,
// or has fields of the wrong type or fields indexsync doesn't know about.
// The YAML library's errors don't say where in the file the problem is, so
// the parser's message is passed on as is.
const invalidDefaultsTemplate = "The indexsync defaults in %q could not be read.\n" +
	"Check that every setting is one of config, indexer, remotes, key, " +
	"dstDir, suffix, wait or lockPath, and that remotes is a list.\n" +
	"Running `indexsync config` rewrites the file.\n\n" +
	"The parser reported:\n%s"

// versionMismatchError is returned for defaults files written by a version
// of indexsync with a different file format.
type versionMismatchError struct {
	path, version string
}

func (err versionMismatchError) Error() string {
	return err.FriendlyMessage()
}

func (err versionMismatchError) FriendlyMessage() string {
	return fmt.Sprintf("The defaults file %q has version %q, but this "+
		"indexsync only reads version %q.\n"+
		"Run `indexsync config` to rewrite it.",
		err.path, err.version, SupportedDefaultsVersion)
}

// ParseDefaults parses the defaults file. The file is optional, so a missing
// file results in empty Defaults.
func ParseDefaults() (Defaults, error) {
	path, err := GetDefaultsPath()
	if err != nil {
		return Defaults{}, errors.WithContext(err, "expand defaults path")
	}

	defaults, err := readDefaults(path)
	if err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return Defaults{Version: SupportedDefaultsVersion}, nil
		}
		return Defaults{}, errors.WithContext(err, "parse")
	}
	return defaults, nil
}

// readDefaults reads the defaults file at path. The version is checked
// before unknown fields are rejected, so that a file from another version
// of indexsync is reported as such.
func readDefaults(path string) (Defaults, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults{}, errors.FileNotFound{Path: path}
		}
		return Defaults{}, errors.WithContext(err, "read file")
	}

	defaults := Defaults{Version: InitialDefaultsVersion}
	if err := yaml.Unmarshal(contents, &defaults); err != nil {
		return Defaults{}, errors.NewFriendlyError(invalidDefaultsTemplate, path, err)
	}

	if defaults.Version != SupportedDefaultsVersion {
		return Defaults{}, versionMismatchError{path, defaults.Version}
	}

	err = yaml.UnmarshalStrict(contents, &defaults, yaml.DisallowUnknownFields)
	if err != nil {
		return Defaults{}, errors.NewFriendlyError(invalidDefaultsTemplate, path, err)
	}
	return defaults, nil
}

// WriteDefaults writes the given defaults to disk.
func WriteDefaults(d Defaults) error {
	d.Version = SupportedDefaultsVersion
	path, err := GetDefaultsPath()
	if err != nil {
		return errors.WithContext(err, "expand defaults path")
	}

	yamlBytes, err := yaml.Marshal(d)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetDefaultsPath returns the expanded path to the defaults file.
func GetDefaultsPath() (string, error) {
	return homedirExpand(DefaultsPath)
}
