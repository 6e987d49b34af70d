// Package changes turns the repository's changed paths into the selectable
// file groups and commit scopes shown by the commit wizard.
package changes

import "strings"

// RootKey is the group and scope key for paths without a directory segment.
const RootKey = "/"

// Entry is a selectable file: Value is the repository path, Label what the user sees.
type Entry struct {
	Value string
	Label string
}

// Groups maps a top-level directory to its entries. Keys iterate in order of
// first occurrence in the input.
type Groups struct {
	keys    []string
	entries map[string][]Entry
}

// Group buckets paths by their first segment. Top-level files land under RootKey
// with the path as both value and label; everything else is labelled with the
// remainder of the path after the first segment.
func Group(paths []string) *Groups {
	g := &Groups{entries: make(map[string][]Entry)}
	for _, path := range paths {
		if path == "" {
			continue
		}
		root, rest, found := strings.Cut(path, "/")
		if !found {
			g.add(RootKey, Entry{Value: path, Label: path})
			continue
		}
		g.add(root, Entry{Value: path, Label: rest})
	}
	return g
}

func (g *Groups) add(key string, e Entry) {
	if _, ok := g.entries[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.entries[key] = append(g.entries[key], e)
}

// Keys returns the group keys in insertion order.
func (g *Groups) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Entries returns the entries of one group, or nil for an unknown key.
func (g *Groups) Entries(key string) []Entry {
	return append([]Entry(nil), g.entries[key]...)
}

// Len reports the number of groups.
func (g *Groups) Len() int {
	return len(g.keys)
}

// Empty reports whether there is nothing to stage.
func (g *Groups) Empty() bool {
	return len(g.keys) == 0
}
