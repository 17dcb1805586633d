// Package filter produces focused views of a documentation map.
package filter

import (
	"sort"
	"strings"

	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
)

// ByName returns a new map containing only methods whose name contains
// substr (case-insensitive), alias records for matched methods included,
// and only the namespaces left non-empty.
func ByName(m *index.Map, substr string) *index.Map {
	lower := strings.ToLower(substr)
	return trim(m, func(meth *record.Method) bool {
		if strings.Contains(strings.ToLower(meth.Name()), lower) {
			return true
		}
		// Keep alias entries whose target matched.
		return meth.IsAliasFor != nil &&
			strings.Contains(strings.ToLower(meth.IsAliasFor.Name()), lower)
	})
}

// ByFile returns a new map containing only methods defined in files whose
// path contains substr (case-insensitive). Methods with no source token run
// (cache-loaded records) never match.
func ByFile(m *index.Map, substr string) *index.Map {
	lower := strings.ToLower(substr)
	return trim(m, func(meth *record.Method) bool {
		return meth.Text != nil &&
			strings.Contains(strings.ToLower(meth.Text.File()), lower)
	})
}

// SelectNamespaces returns a new map with only the maxN namespaces carrying
// the most methods, ties broken by name. maxN <= 0 or >= the namespace
// count returns m unchanged.
func SelectNamespaces(m *index.Map, maxN int) *index.Map {
	namespaces := m.Namespaces()
	if maxN <= 0 || maxN >= len(namespaces) {
		return m
	}

	sort.SliceStable(namespaces, func(i, j int) bool {
		if len(namespaces[i].Methods) != len(namespaces[j].Methods) {
			return len(namespaces[i].Methods) > len(namespaces[j].Methods)
		}
		return namespaces[i].FullName() < namespaces[j].FullName()
	})

	out := index.NewMap(m.RepoName, m.Root)
	for _, ns := range namespaces[:maxN] {
		copyShell(out, ns).Methods = ns.Methods
	}
	return out
}

// trim rebuilds the map keeping only methods accepted by keep, dropping
// namespaces left empty. Records are shared, not re-parented.
func trim(m *index.Map, keep func(*record.Method) bool) *index.Map {
	out := index.NewMap(m.RepoName, m.Root)
	for _, ns := range m.Namespaces() {
		var kept []*record.Method
		for _, meth := range ns.Methods {
			if keep(meth) {
				kept = append(kept, meth)
			}
		}
		if len(kept) > 0 {
			copyShell(out, ns).Methods = kept
		}
	}
	return out
}

func copyShell(out *index.Map, ns *index.Namespace) *index.Namespace {
	dst := out.Ensure(ns.FullName(), ns.Kind)
	dst.Superclass = ns.Superclass
	dst.RawComment = ns.RawComment
	dst.Comment = ns.Comment
	return dst
}
