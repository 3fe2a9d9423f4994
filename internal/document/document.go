// Package document provides immutable source documents with line-indexed
// access and cursor-relative context windows.
package document

import (
	"strings"
)

// CursorPosition locates an edit point: 1-based line, 0-based column.
// Construction does not clamp; consumers check validity.
type CursorPosition struct {
	Line   int
	Column int
}

// SourceDocument is an immutable view of one source text with a derived
// line-offset table. Lines are split on "\n"; a trailing newline yields a
// final empty line, so every document has at least one line. Created once
// per analysis request and discarded with it.
type SourceDocument struct {
	text   string
	starts []int
}

// New builds a document and its line index. Construction is O(n) in the
// source length; line lookups are O(1).
func New(source []byte) *SourceDocument {
	text := string(source)
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	starts[0] = 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceDocument{text: text, starts: starts}
}

// Text returns the full source text.
func (d *SourceDocument) Text() string {
	return d.text
}

// LineCount returns the number of lines.
func (d *SourceDocument) LineCount() int {
	return len(d.starts)
}

// TextOf returns the text of a 1-based line without its trailing newline,
// or "" when the line is out of range.
func (d *SourceDocument) TextOf(line int) string {
	if line < 1 || line > len(d.starts) {
		return ""
	}
	return d.text[d.starts[line-1]:d.lineEnd(line)]
}

// lines returns the text covering whole lines from..to inclusive, joined by
// their original newlines. Empty when the range is empty or out of bounds.
func (d *SourceDocument) lines(from, to int) string {
	if from < 1 || to > len(d.starts) || from > to {
		return ""
	}
	return d.text[d.starts[from-1]:d.lineEnd(to)]
}

// lineEnd returns the byte offset just past the end of a line, excluding
// its newline.
func (d *SourceDocument) lineEnd(line int) int {
	if line < len(d.starts) {
		return d.starts[line] - 1
	}
	return len(d.text)
}
