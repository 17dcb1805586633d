package filter

import (
	"testing"

	"github.com/phobologic/rbdoc/internal/extract"
	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
)

func buildMap(t *testing.T) *index.Map {
	t.Helper()
	seq := record.NewFragmentSeq()
	m := index.NewMap("repo", "repo")

	sources := map[string]string{
		"foo.rb": "class Foo\n  def each\n  end\n\n  def size\n  end\nend\n",
		"bar.rb": "class Bar\n  def each_pair\n  end\nend\n",
		"baz.rb": "class Baz\n  def other\n  end\nend\n",
	}
	parser := extract.NewParser()
	for _, path := range []string{"foo.rb", "bar.rb", "baz.rb"} {
		namespaces, err := extract.File(parser, []byte(sources[path]), path, seq)
		if err != nil {
			t.Fatalf("extract %s: %v", path, err)
		}
		m.MergeFile(namespaces)
	}
	m.Sort()
	return m
}

func TestByName(t *testing.T) {
	t.Parallel()

	got := ByName(buildMap(t), "each")

	if got.Get("Baz") != nil {
		t.Error("Baz has no matching methods and should be dropped")
	}
	foo := got.Get("Foo")
	if foo == nil || len(foo.Methods) != 1 || foo.Methods[0].Name() != "each" {
		t.Errorf("Foo view = %+v, want only each", foo)
	}
	bar := got.Get("Bar")
	if bar == nil || len(bar.Methods) != 1 {
		t.Error("each_pair should match the each substring")
	}
}

func TestByNameKeepsAliasRecords(t *testing.T) {
	t.Parallel()

	seq := record.NewFragmentSeq()
	m := index.NewMap("repo", "repo")
	namespaces, err := extract.File(extract.NewParser(),
		[]byte("class Foo\n  def each\n  end\n\n  alias collect each\nend\n"), "foo.rb", seq)
	if err != nil {
		t.Fatal(err)
	}
	m.MergeFile(namespaces)

	got := ByName(m, "each")
	foo := got.Get("Foo")
	if foo == nil {
		t.Fatal("Foo dropped")
	}
	if foo.FindMethod("collect", false) == nil {
		t.Error("alias record of a matched method should be kept")
	}
}

func TestByFile(t *testing.T) {
	t.Parallel()

	got := ByFile(buildMap(t), "bar.rb")

	if got.Get("Foo") != nil || got.Get("Baz") != nil {
		t.Error("only Bar is defined in bar.rb")
	}
	if bar := got.Get("Bar"); bar == nil || len(bar.Methods) != 1 {
		t.Errorf("Bar view = %+v", got.Get("Bar"))
	}
}

func TestSelectNamespaces(t *testing.T) {
	t.Parallel()

	m := buildMap(t)
	got := SelectNamespaces(m, 1)

	namespaces := got.Namespaces()
	if len(namespaces) != 1 {
		t.Fatalf("namespaces = %d, want 1", len(namespaces))
	}
	// Foo has the most methods.
	if namespaces[0].FullName() != "Foo" {
		t.Errorf("kept %q, want Foo", namespaces[0].FullName())
	}

	if SelectNamespaces(m, 0) != m {
		t.Error("maxN <= 0 should return the map unchanged")
	}
	if SelectNamespaces(m, 10) != m {
		t.Error("maxN >= count should return the map unchanged")
	}
}
