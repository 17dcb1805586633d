package record

import (
	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/token"
)

// Alias is an alternate name declared for an existing method, carrying its
// own comment text. Registered on the aliased method via AddAlias.
type Alias struct {
	// Text is the token run of the alias declaration; nil for aliases
	// rebuilt from the cache.
	Text *token.Stream

	// OldName is the aliased method's name; NewName is the alternate.
	OldName string
	NewName string

	RawComment string
	Comment    *comment.Comment

	// fullName is the container-qualified alternate name. Set by the
	// extractor, or restored verbatim from the cache snapshot.
	fullName string
}

// AliasFactory rebuilds an alias entity from a cache snapshot. text is nil
// on that path; the snapshot carries only the qualified new name and the
// parsed comment.
type AliasFactory func(text *token.Stream, oldName, newName string, c *comment.Comment) *Alias

// NewAlias constructs an alias declaration record.
func NewAlias(text *token.Stream, oldName, newName string, c *comment.Comment) *Alias {
	return &Alias{Text: text, OldName: oldName, NewName: newName, Comment: c}
}

// FullName returns the qualified alternate name, falling back to the bare
// new name when no qualification was recorded.
func (a *Alias) FullName() string {
	if a.fullName != "" {
		return a.fullName
	}
	return a.NewName
}

// SetFullName records the container-qualified alternate name.
func (a *Alias) SetFullName(name string) { a.fullName = name }
