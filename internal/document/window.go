package document

import (
	"strings"
)

// ContextWindow is the text immediately before and after a cursor, bounded
// by a line-count window. All three fields are empty when the cursor line
// is out of the document's range; that is a defined outcome, not an error.
type ContextWindow struct {
	Before      string
	After       string
	CurrentLine string
}

// Window computes the cursor-relative context. Half the window sits above
// the cursor line and half below, clamped to the document. The cursor
// column splits the current line: the part before it ends Before, the part
// from it onward starts After, so reinserting the two fragments at the
// cursor offset reconstructs the current line exactly. A column past the
// end of the line clamps to the line length.
func Window(doc *SourceDocument, cursor CursorPosition, windowLines int) ContextWindow {
	if cursor.Line < 1 || cursor.Line > doc.LineCount() {
		return ContextWindow{}
	}

	current := doc.TextOf(cursor.Line)
	column := cursor.Column
	if column < 0 {
		column = 0
	}
	if column > len(current) {
		column = len(current)
	}

	startLine := max(1, cursor.Line-windowLines/2)
	endLine := min(doc.LineCount()+1, cursor.Line+windowLines/2)

	var before strings.Builder
	if startLine <= cursor.Line-1 {
		before.WriteString(doc.lines(startLine, cursor.Line-1))
		before.WriteString("\n")
	}
	before.WriteString(current[:column])

	var after strings.Builder
	after.WriteString(current[column:])
	if cursor.Line+1 <= endLine-1 {
		after.WriteString("\n")
		after.WriteString(doc.lines(cursor.Line+1, endLine-1))
	}

	return ContextWindow{
		Before:      before.String(),
		After:       after.String(),
		CurrentLine: current,
	}
}
