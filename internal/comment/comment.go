// Package comment turns raw source comment blobs into structured comments.
//
// Rendering markup is out of scope; the parser normalizes marker characters,
// splits paragraphs, and recognizes the :call-seq: directive.
package comment

import (
	"regexp"
	"strings"
)

// Comment is a parsed comment attached to a documented entity.
type Comment struct {
	Text       string   `json:"text"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}

// Empty reports whether the comment carries no text.
func (c *Comment) Empty() bool {
	return c == nil || c.Text == ""
}

// Parser converts raw comment text into Comments. One Parser is shared per
// run; it holds no per-comment state and is safe for concurrent use.
type Parser struct{}

// NewParser returns the comment-parsing collaborator for a run.
func NewParser() *Parser { return &Parser{} }

var (
	markerRe  = regexp.MustCompile(`(?m)^\s*#+ ?`)
	callSeqRe = regexp.MustCompile(`(?m)^:call-seq:\s*\n((?:[ \t]+\S[^\n]*\n?)+)`)
)

// Parse strips comment markers from raw and splits the remainder into
// paragraphs. A nil-safe empty Comment is returned for blank input.
func (p *Parser) Parse(raw string) *Comment {
	text := strings.TrimRight(Strip(raw), "\n")
	c := &Comment{Text: text}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			c.Paragraphs = append(c.Paragraphs, para)
		}
	}
	return c
}

// Strip removes leading `#` markers and one following space from every line.
func Strip(raw string) string {
	return markerRe.ReplaceAllString(raw, "")
}

// ExtractCallSeq splits a :call-seq: directive out of raw comment text.
// It returns the newline-joined call sequence lines and the remaining
// comment text with the directive removed. callSeq is "" when no directive
// is present.
func ExtractCallSeq(raw string) (callSeq, rest string) {
	stripped := Strip(raw)
	m := callSeqRe.FindStringSubmatchIndex(stripped)
	if m == nil {
		return "", raw
	}

	var lines []string
	for _, line := range strings.Split(stripped[m[2]:m[3]], "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	rest = strings.TrimSpace(stripped[:m[0]] + stripped[m[1]:])
	return strings.Join(lines, "\n"), rest
}
