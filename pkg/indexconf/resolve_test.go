package indexconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveText(t *testing.T, text string) ([]Index, error) {
	raw, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	return Resolve(raw)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   []Index
	}{
		{
			name:  "OwnPath",
			input: "index a { path = /data/a }",
			exp:   []Index{{Name: "a", Path: "/data/a", Type: "plain"}},
		},
		{
			name: "InheritedThroughChain",
			input: `index c { path = /data/c }
index b : c {}
index a : b {}`,
			exp: []Index{
				{Name: "c", Path: "/data/c", Type: "plain"},
				{Name: "b", Path: "/data/c", Type: "plain", Parent: "c"},
				{Name: "a", Path: "/data/c", Type: "plain", Parent: "b"},
			},
		},
		{
			name: "ParentDeclaredLater",
			input: `index a : b {}
index b { path = /data/b }`,
			exp: []Index{
				{Name: "a", Path: "/data/b", Type: "plain", Parent: "b"},
				{Name: "b", Path: "/data/b", Type: "plain"},
			},
		},
		{
			name: "ClosestPathWins",
			input: `index base { path = /data/base }
index child : base { path = /data/child }`,
			exp: []Index{
				{Name: "base", Path: "/data/base", Type: "plain"},
				{Name: "child", Path: "/data/child", Type: "plain", Parent: "base"},
			},
		},
		{
			name:  "MissingParentHasNoPath",
			input: "index a : ghost {}",
			exp:   []Index{{Name: "a", Type: "plain", Parent: "ghost"}},
		},
		{
			name: "ChainWithoutPath",
			input: `index b {}
index a : b {}`,
			exp: []Index{
				{Name: "b", Type: "plain"},
				{Name: "a", Type: "plain", Parent: "b"},
			},
		},
		{
			name: "TypeIsNotInherited",
			input: `index base { type = rt
path = /data/base }
index child : base {}`,
			exp: []Index{
				{Name: "base", Path: "/data/base", Type: "rt"},
				{Name: "child", Path: "/data/base", Type: "plain", Parent: "base"},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			indexes, err := resolveText(t, test.input)
			assert.NoError(t, err)
			assert.Equal(t, test.exp, indexes)
		})
	}
}

func TestResolveCycle(t *testing.T) {
	_, err := resolveText(t, `index a : b {}
index b : a {}`)
	assert.Equal(t, CycleError{Chain: []string{"a", "b", "a"}}, err)
	assert.EqualError(t, err, "cyclic index inheritance: a -> b -> a")

	_, err = resolveText(t, "index self : self {}")
	assert.Equal(t, CycleError{Chain: []string{"self", "self"}}, err)
}

func TestIndexPredicates(t *testing.T) {
	assert.True(t, Index{Type: "plain"}.IsPlain())
	assert.False(t, Index{Type: "rt"}.IsPlain())
	assert.True(t, Index{Path: "/data/a"}.HasPath())
	assert.False(t, Index{}.HasPath())
}
