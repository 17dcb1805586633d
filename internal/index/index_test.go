package index

import (
	"testing"

	"github.com/phobologic/rbdoc/internal/record"
)

func method(t *testing.T, seq *record.FragmentSeq, name string, singleton bool) *record.Method {
	t.Helper()
	m := record.New(seq, nil, name)
	m.Singleton = singleton
	return m
}

func TestNamespaceNames(t *testing.T) {
	t.Parallel()

	ns := NewNamespace("Foo::Bar", Class)
	if got := ns.FullName(); got != "Foo::Bar" {
		t.Errorf("full name = %q", got)
	}
	if got := ns.Name(); got != "Bar" {
		t.Errorf("name = %q, want Bar", got)
	}
	if got := ns.Path(); got != "classes/Foo/Bar.html" {
		t.Errorf("path = %q, want classes/Foo/Bar.html", got)
	}
}

func TestAddMethodSetsContainer(t *testing.T) {
	t.Parallel()

	seq := record.NewFragmentSeq()
	ns := NewNamespace("Foo", Class)
	m := method(t, seq, "each", false)
	ns.AddMethod(m)

	if got := m.FullName(); got != "Foo#each" {
		t.Errorf("full name = %q, want Foo#each", got)
	}
	if ns.FindMethod("each", false) != m {
		t.Error("FindMethod did not return the added method")
	}
	if ns.FindMethod("each", true) != nil {
		t.Error("FindMethod matched the wrong singleton flag")
	}
}

func TestSortMethods(t *testing.T) {
	t.Parallel()

	seq := record.NewFragmentSeq()
	ns := NewNamespace("Foo", Class)
	ns.AddMethod(method(t, seq, "zeta", false))
	ns.AddMethod(method(t, seq, "alpha", false))
	ns.AddMethod(method(t, seq, "omega", true))
	ns.SortMethods()

	want := []string{"omega", "alpha", "zeta"}
	for i, name := range want {
		if got := ns.Methods[i].Name(); got != name {
			t.Errorf("method[%d] = %q, want %q", i, got, name)
		}
	}
}

func TestEnsureKindFirstWins(t *testing.T) {
	t.Parallel()

	m := NewMap("repo", "repo")
	m.Ensure("Foo", Module)
	ns := m.Ensure("Foo", Class)
	if ns.Kind != Module {
		t.Errorf("kind = %q, want module (first seen)", ns.Kind)
	}
}

func TestMergeFile(t *testing.T) {
	t.Parallel()

	seq := record.NewFragmentSeq()
	m := NewMap("repo", "repo")

	first := NewNamespace("Foo", Class)
	first.Superclass = "Base"
	first.AddMethod(method(t, seq, "a", false))

	second := NewNamespace("Foo", Class)
	second.RawComment = "# The Foo class."
	second.AddMethod(method(t, seq, "b", false))

	m.MergeFile([]*Namespace{first})
	m.MergeFile([]*Namespace{second})

	ns := m.Get("Foo")
	if ns == nil {
		t.Fatal("Foo not present after merge")
	}
	if len(ns.Methods) != 2 {
		t.Errorf("methods = %d, want 2", len(ns.Methods))
	}
	if ns.Superclass != "Base" {
		t.Errorf("superclass = %q, want Base", ns.Superclass)
	}
	if ns.RawComment != "# The Foo class." {
		t.Errorf("raw comment = %q", ns.RawComment)
	}
	if m.MethodCount() != 2 {
		t.Errorf("method count = %d, want 2", m.MethodCount())
	}
}

func TestNamespacesSorted(t *testing.T) {
	t.Parallel()

	m := NewMap("repo", "repo")
	m.Ensure("Zeta", Class)
	m.Ensure("Alpha", Module)
	m.Ensure("Alpha::Inner", Class)

	var names []string
	for _, ns := range m.Namespaces() {
		names = append(names, ns.FullName())
	}
	want := []string{"Alpha", "Alpha::Inner", "Zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("namespaces[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
