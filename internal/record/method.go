// Package record models a single documented callable: its identity,
// signature metadata, alias bookkeeping, ordering, and the versioned cache
// form used by incremental builds.
package record

import (
	"regexp"
	"strings"

	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/token"
)

// Visibility is a method's access level.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Container is the namespace a method belongs to. It supplies the prefix
// for full names and documentation paths. The record never mutates it and
// never owns it.
type Container interface {
	FullName() string
	Path() string
}

// Method is one documented callable extracted from source.
type Method struct {
	// name may be unset; Name() resolves it from CallSeq on demand.
	name string

	Visibility  Visibility
	Singleton   bool
	Params      string
	BlockParams string
	CallSeq     string

	// Text is the raw token run for the definition, exclusively owned by
	// this record. Not persisted to the cache.
	Text *token.Stream

	// RawComment is the comment blob as extracted; Comment is the parsed
	// form, set directly by import or by callers that parse eagerly.
	RawComment string
	Comment    *comment.Comment

	// Aliases holds discovery-order alias registrations. Append-only;
	// callers are responsible for dedup.
	Aliases []*Alias

	// IsAliasFor points at the aliased method when this record was created
	// by an alias declaration. Non-owning; not persisted.
	IsAliasFor *Method

	// DontRenameInitialize suppresses the initialize-to-new display rename.
	DontRenameInitialize bool

	fragmentID string
	container  Container
	fullName   string
}

// New constructs a record for text named name, issuing the next fragment ID
// from seq. Visibility starts public; everything else starts unset.
func New(seq *FragmentSeq, text *token.Stream, name string) *Method {
	return &Method{
		name:       name,
		Visibility: Public,
		Text:       text,
		fragmentID: seq.Next(),
	}
}

var callSeqNameRe = regexp.MustCompile(`^.*?\.(\w+)`)

// Name returns the method name, resolving it from the first line of CallSeq
// when unset. An unmatched CallSeq degrades to the raw CallSeq string.
// The resolved value is cached; CallSeq itself is never modified.
func (m *Method) Name() string {
	if m.name != "" {
		return m.name
	}
	if m.CallSeq == "" {
		return ""
	}
	if sub := callSeqNameRe.FindStringSubmatch(m.CallSeq); sub != nil {
		m.name = sub[1]
	} else {
		m.name = m.CallSeq
	}
	return m.name
}

// SetName overrides the stored name.
func (m *Method) SetName(name string) { m.name = name }

// FragmentID returns the per-run unique ID anchoring this method's
// documentation fragment.
func (m *Method) FragmentID() string { return m.fragmentID }

// Container returns the owning namespace, or nil.
func (m *Method) Container() Container { return m.container }

// SetContainer attaches the owning namespace. Reassignment after the first
// FullName call does not recompute the memoized name.
func (m *Method) SetContainer(c Container) { m.container = c }

// Compare orders methods for listing: singleton methods sort before
// instance methods, then lexicographically by name. Returns -1, 0, or 1.
// Callers must resolve names first; unresolved names compare as "".
func (m *Method) Compare(other *Method) int {
	if m.Singleton != other.Singleton {
		if m.Singleton {
			return -1
		}
		return 1
	}
	return strings.Compare(m.Name(), other.Name())
}

// AddAlias registers an alias discovered for this method. No duplicate
// check, no back-pointer.
func (m *Method) AddAlias(a *Alias) {
	m.Aliases = append(m.Aliases, a)
}

// PrettyName returns the name with its reference prefix: ::name for
// singleton methods, #name otherwise.
func (m *Method) PrettyName() string {
	if m.Singleton {
		return "::" + m.Name()
	}
	return "#" + m.Name()
}

// FullName returns the container-qualified name, computed once and memoized
// for the life of the record. A record with no container is qualified as
// "(unknown)".
func (m *Method) FullName() string {
	if m.fullName == "" {
		parent := "(unknown)"
		if m.container != nil {
			parent = m.container.FullName()
		}
		m.fullName = parent + m.PrettyName()
	}
	return m.fullName
}

var htmlNameRe = regexp.MustCompile(`[^a-z]+`)

// HTMLName returns the name with every run of characters outside a-z
// replaced by a single dash. Uppercase and non-ASCII letters are replaced
// too; downstream anchors rely on this exact mapping.
func (m *Method) HTMLName() string {
	return htmlNameRe.ReplaceAllString(m.Name(), "-")
}

// Type reports the method kind: "class" for singleton methods, "instance"
// otherwise.
func (m *Method) Type() string {
	if m.Singleton {
		return "class"
	}
	return "instance"
}

// Path returns the documentation location for this method: the container's
// page plus the fragment anchor.
func (m *Method) Path() string {
	if m.container == nil {
		return "#" + m.fragmentID
	}
	return m.container.Path() + "#" + m.fragmentID
}

// DisplayName returns the name and singleton flag to present in output.
// A constructor (instance initialize) presents as the singleton new unless
// DontRenameInitialize is set.
func (m *Method) DisplayName() (string, bool) {
	if !m.Singleton && m.Name() == "initialize" && !m.DontRenameInitialize {
		return "new", true
	}
	return m.Name(), m.Singleton
}

var (
	trailingCommentRe = regexp.MustCompile(`\s*#.*`)
	spaceRunRe        = regexp.MustCompile(`  +`)
	blockArgRe        = regexp.MustCompile(`,?\s*&\w+`)
)

// ParamSeq formats the stored parameter text into a display signature:
// per-line comments stripped, newlines collapsed, repeated spaces squeezed,
// and the result parenthesized when not already. When BlockParams is set,
// any explicit &block argument is dropped from the list and a trailing
// { |params| ... } annotation is appended. The stored fields are never
// modified; a record with no Params yields "()".
func (m *Method) ParamSeq() string {
	params := cleanSignatureText(m.Params)
	if !strings.HasPrefix(params, "(") {
		params = "(" + params + ")"
	}

	if m.BlockParams != "" {
		if loc := blockArgRe.FindStringIndex(params); loc != nil {
			params = params[:loc[0]] + params[loc[1]:]
		}
		block := cleanSignatureText(m.BlockParams)
		if strings.HasPrefix(block, "(") && strings.HasSuffix(block, ")") {
			block = block[1 : len(block)-1]
		}
		params += " { |" + block + "| ... }"
	}

	return params
}

func cleanSignatureText(s string) string {
	s = trailingCommentRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\n", " ")
	return spaceRunRe.ReplaceAllString(s, " ")
}
