package indexconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exampleConfig = `
source src_main
{
	type     = mysql
	sql_host = localhost
	sql_query = SELECT id, path FROM documents
}

index main
{
	source = src_main
	path   = /var/lib/sphinx/main
}

index delta : main
{
	path = /var/lib/sphinx/delta
}

index rt_docs
{
	type = rt
	path = "/var/lib/sphinx/rt docs"
}

index dist
{
	type  = distributed
	local = main
}

searchd
{
	listen   = 9312
	pid_file = /var/run/sphinx/searchd.pid
}
`

func TestParse(t *testing.T) {
	raw, err := Parse(strings.NewReader(exampleConfig))
	assert.NoError(t, err)

	assert.Equal(t, map[string]Settings{
		"main":    {"path": "/var/lib/sphinx/main"},
		"delta":   {"parent": "main", "path": "/var/lib/sphinx/delta"},
		"rt_docs": {"type": "rt", "path": "/var/lib/sphinx/rt docs"},
		"dist":    {"type": "distributed"},
	}, raw.Indexes)
	assert.Equal(t, Settings{"pid_file": "/var/run/sphinx/searchd.pid"}, raw.Searchd)
	assert.Equal(t, []string{"main", "delta", "rt_docs", "dist"}, raw.Names())
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expIndexes map[string]Settings
		expSearchd Settings
	}{
		{
			name:       "SettingsOutsideIndexIgnored",
			input:      "type = rt\npath = /data/orphan\nindex a {}",
			expIndexes: map[string]Settings{"a": {}},
			expSearchd: Settings{},
		},
		{
			name:       "SourceClosesIndex",
			input:      "index a { path = /data/a }\nsource s { type = pgsql }",
			expIndexes: map[string]Settings{"a": {"path": "/data/a"}},
			expSearchd: Settings{},
		},
		{
			name:       "SourceKeyKeepsIndexOpen",
			input:      "index a { source = s\ntype = plain }",
			expIndexes: map[string]Settings{"a": {"type": "plain"}},
			expSearchd: Settings{},
		},
		{
			name:       "KeywordUsedAsValue",
			input:      "index a { sql_attr = path\ntype = rt }",
			expIndexes: map[string]Settings{"a": {"type": "rt"}},
			expSearchd: Settings{},
		},
		{
			name:       "PidFileLastWins",
			input:      "pid_file = /a.pid\nindex a {}\npid_file = /b.pid",
			expIndexes: map[string]Settings{"a": {}},
			expSearchd: Settings{"pid_file": "/b.pid"},
		},
		{
			name:       "CRLFLineContinuation",
			input:      "index a\r\n{\r\n  path = \\\r\n /data/a\r\n}\r\n",
			expIndexes: map[string]Settings{"a": {"path": "/data/a"}},
			expSearchd: Settings{},
		},
		{
			name:       "ParentWithoutSpaces",
			input:      "index b:a {}",
			expIndexes: map[string]Settings{"b": {"parent": "a"}},
			expSearchd: Settings{},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			raw, err := Parse(strings.NewReader(test.input))
			assert.NoError(t, err)
			assert.Equal(t, test.expIndexes, raw.Indexes)
			assert.Equal(t, test.expSearchd, raw.Searchd)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expErr error
	}{
		{
			name:   "TruncatedIndex",
			input:  "index",
			expErr: SyntaxError{Line: 1, Msg: `unexpected end of file after "index"`},
		},
		{
			name:   "TruncatedIndexLookahead",
			input:  "index a",
			expErr: SyntaxError{Line: 1, Msg: `unexpected end of file after "a"`},
		},
		{
			name:   "TruncatedParent",
			input:  "index a :\n",
			expErr: SyntaxError{Line: 2, Msg: `unexpected end of file after ":"`},
		},
		{
			name:   "TruncatedAssignment",
			input:  "index a {\npath =",
			expErr: SyntaxError{Line: 2, Msg: `unexpected end of file after "="`},
		},
		{
			name:   "TruncatedPidFile",
			input:  "searchd {\npid_file",
			expErr: SyntaxError{Line: 2, Msg: `unexpected end of file after "pid_file"`},
		},
		{
			name:   "BadIndexName",
			input:  "index { }",
			expErr: SyntaxError{Line: 1, Msg: `expected index name, got "{"`},
		},
		{
			name:   "DuplicateIndex",
			input:  "index a {}\nindex a {}",
			expErr: SyntaxError{Line: 2, Msg: `index "a" is declared more than once`},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.input))
			assert.Equal(t, test.expErr, err)
		})
	}
}
