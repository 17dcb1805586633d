// Package extract parses Ruby source with tree-sitter and produces method
// records grouped by namespace.
package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
	"github.com/phobologic/rbdoc/internal/token"
)

// NewParser creates a fresh Ruby parser. Each goroutine must use its own
// parser (not thread-safe).
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(ruby.GetLanguage())
	return p
}

// File parses one source file and returns its namespaces in first-seen
// order, each populated with the method records defined in this file.
// path is the repo-relative file path, used for token provenance only.
func File(parser *sitter.Parser, source []byte, path string, seq *record.FragmentSeq) ([]*index.Namespace, error) {
	if len(source) == 0 {
		return nil, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	w := &walker{
		source: source,
		path:   path,
		seq:    seq,
		byName: make(map[string]*index.Namespace),
	}
	w.walkBody(tree.RootNode(), nil, "", false)
	return w.order, nil
}

type walker struct {
	source []byte
	path   string
	seq    *record.FragmentSeq
	order  []*index.Namespace
	byName map[string]*index.Namespace
}

func (w *walker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}

func (w *walker) namespace(fullName string, kind index.Kind) *index.Namespace {
	if ns, ok := w.byName[fullName]; ok {
		return ns
	}
	ns := index.NewNamespace(fullName, kind)
	w.byName[fullName] = ns
	w.order = append(w.order, ns)
	return ns
}

// ownerOf resolves the namespace a def at this nesting level belongs to.
// Toplevel defs land in Object.
func (w *walker) ownerOf(owner *index.Namespace) *index.Namespace {
	if owner != nil {
		return owner
	}
	return w.namespace(index.TopLevel, index.Class)
}

// walkBody iterates the statements of a class/module/program body in source
// order, tracking the visibility state and the run of comment lines
// preceding each definition. inSingleton is true inside class << self.
func (w *walker) walkBody(body *sitter.Node, owner *index.Namespace, prefix string, inSingleton bool) {
	vis := record.Public
	var pending []string

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)

		if child.Type() == "comment" {
			pending = append(pending, w.text(child))
			continue
		}

		switch child.Type() {
		case "class", "module":
			w.handleNamespace(child, prefix, strings.Join(pending, "\n"))
		case "singleton_class":
			w.handleSingletonClass(child, owner, prefix)
		case "method":
			w.addMethod(child, w.ownerOf(owner), inSingleton, vis, strings.Join(pending, "\n"))
		case "singleton_method":
			w.addMethod(child, w.ownerOf(owner), true, vis, strings.Join(pending, "\n"))
		case "alias":
			w.handleAlias(child, w.ownerOf(owner), strings.Join(pending, "\n"))
		case "identifier":
			if v, ok := visibilityWord(w.text(child)); ok {
				vis = v
			}
		case "call":
			w.handleCall(child, owner, strings.Join(pending, "\n"))
		}
		pending = nil
	}
}

func (w *walker) handleNamespace(node *sitter.Node, prefix, rawComment string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	full := w.text(nameNode)
	if prefix != "" {
		full = prefix + "::" + full
	}

	kind := index.Class
	if node.Type() == "module" {
		kind = index.Module
	}

	ns := w.namespace(full, kind)
	if ns.RawComment == "" && rawComment != "" {
		ns.RawComment = rawComment
	}
	if sup := node.ChildByFieldName("superclass"); sup != nil && sup.NamedChildCount() > 0 {
		ns.Superclass = w.text(sup.NamedChild(0))
	}

	if body := childOfType(node, "body_statement"); body != nil {
		w.walkBody(body, ns, full, false)
	}
}

// handleSingletonClass walks a class << self block; defs inside are
// singleton methods of the enclosing namespace. Reopened singleton classes
// of other objects are skipped.
func (w *walker) handleSingletonClass(node *sitter.Node, owner *index.Namespace, prefix string) {
	if value := node.ChildByFieldName("value"); value == nil || value.Type() != "self" {
		return
	}
	if body := childOfType(node, "body_statement"); body != nil {
		w.walkBody(body, owner, prefix, true)
	}
}

func (w *walker) addMethod(defNode *sitter.Node, ns *index.Namespace, singleton bool, vis record.Visibility, rawComment string) *record.Method {
	nameNode := defNode.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	m := record.New(w.seq, token.New(defNode, w.source, w.path), w.text(nameNode))
	m.Singleton = singleton || defNode.Type() == "singleton_method"
	m.Visibility = vis
	if p := defNode.ChildByFieldName("parameters"); p != nil {
		m.Params = w.text(p)
	}

	callSeq, rest := comment.ExtractCallSeq(rawComment)
	m.CallSeq = callSeq
	m.RawComment = rest

	if y := findYield(defNode); y != nil && y.NamedChildCount() > 0 {
		m.BlockParams = w.text(y.NamedChild(0))
	}

	ns.AddMethod(m)
	return m
}

// handleAlias registers an alias declaration: an Alias entity on the target
// method plus a method record of its own pointing back at the target.
func (w *walker) handleAlias(node *sitter.Node, ns *index.Namespace, rawComment string) {
	if node.NamedChildCount() < 2 {
		return
	}
	newName := symbolName(w.text(node.NamedChild(0)))
	oldName := symbolName(w.text(node.NamedChild(1)))
	w.registerAlias(node, ns, oldName, newName, rawComment)
}

func (w *walker) registerAlias(node *sitter.Node, ns *index.Namespace, oldName, newName, rawComment string) {
	target := ns.FindMethod(oldName, false)
	if target == nil {
		return // alias precedes its target or targets an inherited method
	}

	a := record.NewAlias(token.New(node, w.source, w.path), oldName, newName, nil)
	a.RawComment = rawComment
	a.SetFullName(ns.FullName() + "#" + newName)
	target.AddAlias(a)

	am := record.New(w.seq, token.New(node, w.source, w.path), newName)
	am.Visibility = target.Visibility
	am.Params = target.Params
	am.BlockParams = target.BlockParams
	am.RawComment = rawComment
	am.IsAliasFor = target
	ns.AddMethod(am)
}

// handleCall interprets bare calls at body level: visibility modifiers with
// arguments and alias_method declarations. Anything else is ignored.
func (w *walker) handleCall(node *sitter.Node, owner *index.Namespace, rawComment string) {
	if node.ChildByFieldName("receiver") != nil {
		return
	}
	methodNode := node.ChildByFieldName("method")
	if methodNode == nil {
		return
	}
	name := w.text(methodNode)
	args := node.ChildByFieldName("arguments")

	if name == "alias_method" {
		if args == nil || args.NamedChildCount() < 2 {
			return
		}
		newName := symbolName(w.text(args.NamedChild(0)))
		oldName := symbolName(w.text(args.NamedChild(1)))
		w.registerAlias(node, w.ownerOf(owner), oldName, newName, rawComment)
		return
	}

	v, ok := visibilityWord(name)
	if !ok || args == nil {
		return
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "simple_symbol":
			ns := w.ownerOf(owner)
			if m := ns.FindMethod(symbolName(w.text(arg)), false); m != nil {
				m.Visibility = v
			}
		case "method", "singleton_method":
			// private def foo ... end
			w.addMethod(arg, w.ownerOf(owner), false, v, rawComment)
		}
	}
}

func visibilityWord(s string) (record.Visibility, bool) {
	switch s {
	case "public":
		return record.Public, true
	case "private":
		return record.Private, true
	case "protected":
		return record.Protected, true
	}
	return "", false
}

// symbolName strips a leading colon from symbol literal text.
func symbolName(s string) string {
	return strings.TrimPrefix(s, ":")
}

func childOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// findYield returns the first yield inside a def, skipping nested
// definitions, or nil.
func findYield(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "method", "singleton_method", "class", "module":
			continue
		case "yield":
			return c
		}
		if found := findYield(c); found != nil {
			return found
		}
	}
	return nil
}
