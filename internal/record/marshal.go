package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phobologic/rbdoc/internal/comment"
)

// FormatVersion tags every exported method tuple. Any layout change must
// bump it; Import refuses tags it does not know.
const FormatVersion = 0

// ErrUnsupportedFormat signals a cache record whose version tag this build
// cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported cache record version")

// CommentParser is the comment-parsing collaborator, invoked during export
// once per record and once per alias.
type CommentParser interface {
	Parse(raw string) *comment.Comment
}

// Export serializes the record into its cache tuple:
//
//	[version, name, fullName, singleton, visibility, comment,
//	 callSeq, blockParams, [[aliasFullName, aliasComment], ...]]
//
// The comment fields are parsed forms; an already-parsed Comment is reused,
// otherwise RawComment goes through p. Text, IsAliasFor, and the fragment
// ID are not part of the cache format.
func (m *Method) Export(p CommentParser) (json.RawMessage, error) {
	c := m.Comment
	if c == nil {
		c = p.Parse(m.RawComment)
	}

	snaps := make([][]any, 0, len(m.Aliases))
	for _, a := range m.Aliases {
		ac := a.Comment
		if ac == nil {
			ac = p.Parse(a.RawComment)
		}
		snaps = append(snaps, []any{a.FullName(), ac})
	}

	tuple := []any{
		FormatVersion,
		m.Name(),
		m.FullName(),
		m.Singleton,
		m.Visibility,
		c,
		m.CallSeq,
		m.BlockParams,
		snaps,
	}

	data, err := json.Marshal(tuple)
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", m.FullName(), err)
	}
	return data, nil
}

// Import populates the record from a cache tuple produced by Export. The
// full name becomes a plain stored field; aliases are rebuilt through mk and
// registered via AddAlias. Text, IsAliasFor, DontRenameInitialize, and the
// original fragment sequencing are not restored — the record keeps the
// fragment ID it was constructed with.
func (m *Method) Import(data json.RawMessage, mk AliasFactory) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	if len(fields) == 0 {
		return errors.New("cache record: empty tuple")
	}

	var version int
	if err := json.Unmarshal(fields[0], &version); err != nil {
		return fmt.Errorf("cache record version tag: %w", err)
	}
	if version != FormatVersion {
		return fmt.Errorf("cache record version %d: %w", version, ErrUnsupportedFormat)
	}
	if len(fields) != 9 {
		return fmt.Errorf("cache record: %d fields, want 9", len(fields))
	}

	var snaps [][]json.RawMessage
	dests := []struct {
		name string
		into any
	}{
		{"name", &m.name},
		{"fullName", &m.fullName},
		{"singleton", &m.Singleton},
		{"visibility", &m.Visibility},
		{"comment", &m.Comment},
		{"callSeq", &m.CallSeq},
		{"blockParams", &m.BlockParams},
		{"aliases", &snaps},
	}
	for i, d := range dests {
		if err := json.Unmarshal(fields[i+1], d.into); err != nil {
			return fmt.Errorf("cache record %s: %w", d.name, err)
		}
	}

	for _, snap := range snaps {
		if len(snap) != 2 {
			return fmt.Errorf("cache record alias: %d fields, want 2", len(snap))
		}
		var name string
		if err := json.Unmarshal(snap[0], &name); err != nil {
			return fmt.Errorf("cache record alias name: %w", err)
		}
		var ac *comment.Comment
		if err := json.Unmarshal(snap[1], &ac); err != nil {
			return fmt.Errorf("cache record alias comment: %w", err)
		}
		a := mk(nil, "", name, ac)
		a.SetFullName(name)
		m.AddAlias(a)
	}

	return nil
}
