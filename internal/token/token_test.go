package token

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

func TestNew(t *testing.T) {
	t.Parallel()

	source := []byte("# header\ndef size\nend\n")
	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	var def *sitter.Node
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if c := root.NamedChild(i); c.Type() == "method" {
			def = c
		}
	}
	if def == nil {
		t.Fatal("no method node parsed")
	}

	s := New(def, source, "lib/size.rb")
	if !strings.HasPrefix(s.Text(), "def size") {
		t.Errorf("text = %q", s.Text())
	}
	if s.File() != "lib/size.rb" {
		t.Errorf("file = %q", s.File())
	}
	if s.Line() != 2 {
		t.Errorf("line = %d, want 2", s.Line())
	}
	start, end := s.ByteRange()
	if start == 0 || end <= start {
		t.Errorf("byte range = %d..%d", start, end)
	}
}
