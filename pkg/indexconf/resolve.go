package indexconf

import (
	"fmt"
	"strings"
)

// DefaultType is the type of indexes that don't declare one.
const DefaultType = "plain"

// Index is an index whose inheritance chain has been resolved.
type Index struct {
	Name string

	// Path is the path prefix of the index's files. It's empty if neither
	// the index nor any of its ancestors defines one.
	Path string

	// Type is the index's own `type` setting. It isn't inherited.
	Type string

	// Parent is the name of the index this one inherits from, if any.
	Parent string
}

// IsPlain returns whether the index is backed directly by a family of files
// on disk.
func (idx Index) IsPlain() bool {
	return idx.Type == DefaultType
}

// HasPath returns whether the index resolved to a storage path.
func (idx Index) HasPath() bool {
	return idx.Path != ""
}

// CycleError is returned when an index inherits from itself, directly or
// through other indexes.
type CycleError struct {
	Chain []string
}

func (err CycleError) Error() string {
	return fmt.Sprintf("cyclic index inheritance: %s",
		strings.Join(err.Chain, " -> "))
}

// Resolve computes the effective path and type of every index in raw, in
// declaration order.
func Resolve(raw Raw) ([]Index, error) {
	var indexes []Index
	for _, name := range raw.order {
		settings := raw.Indexes[name]

		path, err := resolvePath(raw.Indexes, name)
		if err != nil {
			return nil, err
		}

		idxType, ok := settings["type"]
		if !ok {
			idxType = DefaultType
		}

		indexes = append(indexes, Index{
			Name:   name,
			Path:   path,
			Type:   idxType,
			Parent: settings["parent"],
		})
	}
	return indexes, nil
}

// resolvePath follows the parent chain starting at `name` until it finds a
// section that defines `path`. A parent that doesn't exist ends the search
// without a path.
func resolvePath(indexes map[string]Settings, name string) (string, error) {
	visited := map[string]struct{}{}
	var chain []string
	for curr := name; ; {
		chain = append(chain, curr)
		if _, ok := visited[curr]; ok {
			return "", CycleError{Chain: chain}
		}
		visited[curr] = struct{}{}

		settings, ok := indexes[curr]
		if !ok {
			return "", nil
		}

		if path, ok := settings["path"]; ok {
			return path, nil
		}

		parent, ok := settings["parent"]
		if !ok {
			return "", nil
		}
		curr = parent
	}
}
