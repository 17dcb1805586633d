// Package token wraps the raw source text of an extracted definition.
package token

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Stream is an opaque handle on the token run backing one definition.
// It is owned by the record it is attached to and never shared.
type Stream struct {
	text      string
	file      string
	startByte uint32
	endByte   uint32
	line      int
}

// New captures the source text of node. file is the repo-relative path of
// the file the node came from.
func New(node *sitter.Node, source []byte, file string) *Stream {
	return &Stream{
		text:      string(source[node.StartByte():node.EndByte()]),
		file:      file,
		startByte: node.StartByte(),
		endByte:   node.EndByte(),
		line:      int(node.StartPoint().Row) + 1,
	}
}

// Text returns the captured source text.
func (s *Stream) Text() string { return s.text }

// File returns the repo-relative path of the defining file.
func (s *Stream) File() string { return s.file }

// Line returns the 1-based line the definition starts on.
func (s *Stream) Line() int { return s.line }

// ByteRange returns the start and end byte offsets within the source file.
func (s *Stream) ByteRange() (uint32, uint32) { return s.startByte, s.endByte }
