package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/indexsync/pkg/config"
	"github.com/sidkik/indexsync/pkg/errors"
)

type mockFlags map[string]bool

func (flags mockFlags) Changed(name string) bool {
	return flags[name]
}

func TestSetupDefaults(t *testing.T) {
	curr := config.Defaults{
		Version: config.SupportedDefaultsVersion,
		Remotes: []string{"r1"},
		Suffix:  "-build",
		Wait:    "10s",
	}

	tests := []struct {
		name       string
		changed    mockFlags
		cliOpts    config.Defaults
		expWritten config.Defaults
		expErr     bool
	}{
		{
			name:       "NothingChanged",
			expWritten: curr,
		},
		{
			name:    "OverrideAndClear",
			changed: mockFlags{"remote": true, "suffix": true, "key": true},
			cliOpts: config.Defaults{
				Remotes: []string{"r2", "r3"},
				Key:     "~/.ssh/sync",
			},
			expWritten: config.Defaults{
				Version: config.SupportedDefaultsVersion,
				Remotes: []string{"r2", "r3"},
				Key:     "~/.ssh/sync",
				Wait:    "10s",
			},
		},
		{
			name:    "BadWait",
			changed: mockFlags{"wait": true},
			cliOpts: config.Defaults{Wait: "later"},
			expErr:  true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var written *config.Defaults
			var out bytes.Buffer
			stdout = &out
			parseDefaults = func() (config.Defaults, error) {
				return curr, nil
			}
			writeDefaults = func(d config.Defaults) error {
				written = &d
				return nil
			}
			getDefaultPath = func() (string, error) {
				return "/home/sphinx/.indexsync.yaml", nil
			}

			err := setupDefaults(test.changed, test.cliOpts)
			if test.expErr {
				assert.Error(t, err)
				assert.Nil(t, written)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, &test.expWritten, written)
			assert.Equal(t, "Wrote defaults to /home/sphinx/.indexsync.yaml\n",
				out.String())
		})
	}
}

func TestSetupDefaultsParseError(t *testing.T) {
	parseDefaults = func() (config.Defaults, error) {
		return config.Defaults{}, assert.AnError
	}
	writeDefaults = func(config.Defaults) error {
		t.Fatal("unexpected write")
		return nil
	}

	err := setupDefaults(mockFlags{}, config.Defaults{})
	assert.Equal(t, assert.AnError, errors.RootCause(err))
}

func TestShowDefaults(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	parseDefaults = func() (config.Defaults, error) {
		return config.Defaults{
			Version: config.SupportedDefaultsVersion,
			Remotes: []string{"r1", "sphinx@r2"},
			Suffix:  "-build",
		}, nil
	}

	assert.NoError(t, showDefaults())
	assert.Equal(t, "remotes:\n- r1\n- sphinx@r2\nsuffix: -build\nversion: v1alpha1\n",
		out.String())
}
