package analyzer

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// summaryParseError is the error marker adopted by summaries built from
// sources that failed to parse.
const summaryParseError = "Syntax error in code"

// ParseFailure describes why source text could not be parsed cleanly.
// Line is the 1-based line of the first error node, 0 when unknown.
type ParseFailure struct {
	Reason string
	Line   int
}

// ParseOutcome is the result of running the grammar over source text:
// either a usable tree or a structured failure. A failed outcome still
// retains the tree so callers can inspect partial structure if they want,
// but Extract treats it as having no structure. Close must be called to
// release the tree.
type ParseOutcome struct {
	tree    *sitter.Tree
	source  []byte
	failure *ParseFailure
}

// Failure returns nil when the source parsed cleanly.
func (o *ParseOutcome) Failure() *ParseFailure {
	return o.failure
}

// Close releases the underlying tree. Safe to call more than once.
func (o *ParseOutcome) Close() {
	if o.tree != nil {
		o.tree.Close()
		o.tree = nil
	}
}

// Analyzer parses Python source text and extracts structural summaries.
// A single Analyzer is safe for concurrent use: every call creates its own
// parser and tree and discards them before returning.
type Analyzer struct {
	language *sitter.Language
}

// New creates an Analyzer backed by the Python grammar.
func New() *Analyzer {
	return &Analyzer{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Parse runs the grammar over source. It accepts arbitrary content,
// including syntactically invalid, incomplete, or empty text, and never
// panics; malformed input yields an outcome whose Failure is populated.
func (a *Analyzer) Parse(source []byte) *ParseOutcome {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(a.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return &ParseOutcome{
			source:  source,
			failure: &ParseFailure{Reason: "parser produced no tree"},
		}
	}

	if root := tree.RootNode(); root.HasError() {
		line := firstErrorLine(root)
		reason := "syntax error"
		if line > 0 {
			reason = fmt.Sprintf("syntax error near line %d", line)
		}
		return &ParseOutcome{
			tree:    tree,
			source:  source,
			failure: &ParseFailure{Reason: reason, Line: line},
		}
	}

	return &ParseOutcome{tree: tree, source: source}
}

// Analyze parses source and extracts its structure in one step.
func (a *Analyzer) Analyze(source []byte) *StructureSummary {
	outcome := a.Parse(source)
	defer outcome.Close()
	return Extract(outcome)
}

// firstErrorLine returns the 1-based line of the first error or missing
// node, or 0 when none is found.
func firstErrorLine(root *sitter.Node) int {
	line := 0
	walk(root, func(n *sitter.Node) bool {
		if line > 0 {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line = lineOf(n)
			return false
		}
		return true
	})
	return line
}
