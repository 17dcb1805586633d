// Package index groups extracted method records under their owning
// class/module namespaces and merges per-file extraction results into one
// deterministic documentation map.
package index

import (
	"sort"
	"strings"

	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/record"
)

// Kind is the namespace flavor.
type Kind string

const (
	Class  Kind = "class"
	Module Kind = "module"
)

// TopLevel is the synthetic namespace owning defs outside any class or
// module, matching Ruby's own placement of them.
const TopLevel = "Object"

// Namespace is a class or module owning documented methods. It implements
// record.Container.
type Namespace struct {
	Kind       Kind
	Superclass string
	RawComment string
	Comment    *comment.Comment
	Methods    []*record.Method

	fullName string
}

// NewNamespace creates a namespace with the given qualified name.
func NewNamespace(fullName string, kind Kind) *Namespace {
	return &Namespace{Kind: kind, fullName: fullName}
}

// FullName returns the ::-qualified namespace name.
func (n *Namespace) FullName() string { return n.fullName }

// Name returns the unqualified trailing segment.
func (n *Namespace) Name() string {
	if i := strings.LastIndex(n.fullName, "::"); i >= 0 {
		return n.fullName[i+2:]
	}
	return n.fullName
}

// Path returns the documentation page location for this namespace.
func (n *Namespace) Path() string {
	return "classes/" + strings.ReplaceAll(n.fullName, "::", "/") + ".html"
}

// AddMethod attaches m to this namespace and records it.
func (n *Namespace) AddMethod(m *record.Method) {
	m.SetContainer(n)
	n.Methods = append(n.Methods, m)
}

// FindMethod returns the method with the given name and singleton flag,
// or nil.
func (n *Namespace) FindMethod(name string, singleton bool) *record.Method {
	for _, m := range n.Methods {
		if m.Singleton == singleton && m.Name() == name {
			return m
		}
	}
	return nil
}

// SortMethods orders the method list: singleton methods first, then by name.
func (n *Namespace) SortMethods() {
	sort.SliceStable(n.Methods, func(i, j int) bool {
		return n.Methods[i].Compare(n.Methods[j]) < 0
	})
}

// Map is the complete documentation map for one repository.
type Map struct {
	RepoName string
	Root     string

	namespaces map[string]*Namespace
}

// NewMap creates an empty map for the named repository.
func NewMap(repoName, root string) *Map {
	return &Map{
		RepoName:   repoName,
		Root:       root,
		namespaces: make(map[string]*Namespace),
	}
}

// Ensure returns the namespace with the given qualified name, creating it
// (and recording kind) on first sight. The kind seen first wins.
func (m *Map) Ensure(fullName string, kind Kind) *Namespace {
	if ns, ok := m.namespaces[fullName]; ok {
		return ns
	}
	ns := NewNamespace(fullName, kind)
	m.namespaces[fullName] = ns
	return ns
}

// Get returns the namespace with the given qualified name, or nil.
func (m *Map) Get(fullName string) *Namespace {
	return m.namespaces[fullName]
}

// Namespaces returns all namespaces ordered by qualified name.
func (m *Map) Namespaces() []*Namespace {
	names := make([]string, 0, len(m.namespaces))
	for name := range m.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Namespace, len(names))
	for i, name := range names {
		out[i] = m.namespaces[name]
	}
	return out
}

// MethodCount returns the number of methods across all namespaces.
func (m *Map) MethodCount() int {
	var n int
	for _, ns := range m.namespaces {
		n += len(ns.Methods)
	}
	return n
}

// MergeFile folds one file's extraction result into the map: methods are
// re-parented onto the map's namespaces, and namespace metadata fills in
// where the map has none yet.
func (m *Map) MergeFile(namespaces []*Namespace) {
	for _, src := range namespaces {
		dst := m.Ensure(src.FullName(), src.Kind)
		if dst.Superclass == "" {
			dst.Superclass = src.Superclass
		}
		if dst.RawComment == "" {
			dst.RawComment = src.RawComment
		}
		if dst.Comment.Empty() {
			dst.Comment = src.Comment
		}
		for _, meth := range src.Methods {
			dst.AddMethod(meth)
		}
	}
}

// Sort orders every namespace's method list for output.
func (m *Map) Sort() {
	for _, ns := range m.namespaces {
		ns.SortMethods()
	}
}
