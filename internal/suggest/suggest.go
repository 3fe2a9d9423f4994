// Package suggest orchestrates the suggestion pipeline: parse, extract
// structure, window the cursor context, assemble a budgeted prompt, and
// delegate to a completion provider.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/caretml/caret/internal/analyzer"
	"github.com/caretml/caret/internal/document"
	"github.com/caretml/caret/internal/prompt"
	"github.com/caretml/caret/internal/provider"
)

// truncationWarning is attached to results whose prompt was cut down to
// the character budget.
const truncationWarning = "Context was truncated due to length limit. Consider continuing processing."

// Context records the inputs and derived context of one suggestion.
type Context struct {
	FilePath      string                     `json:"file_path"`
	LineNumber    int                        `json:"line_number"`
	ColumnNumber  int                        `json:"column_number"`
	ContextWindow int                        `json:"context_window"`
	CodeStructure *analyzer.StructureSummary `json:"code_structure"`
	ContextBefore string                     `json:"context_before"`
	ContextAfter  string                     `json:"context_after"`
	CurrentLine   string                     `json:"current_line"`
}

// Result is the outcome of one suggestion request. Suggestion always holds
// text: provider failures are substituted with a diagnostic string rather
// than failing the request.
type Result struct {
	Suggestion    string  `json:"suggestion"`
	Context       Context `json:"context"`
	Truncated     bool    `json:"truncated"`
	PromptLength  int     `json:"prompt_length"`
	ContextWindow int     `json:"context_window"`
	Warning       string  `json:"warning,omitempty"`
}

// Suggester runs the pipeline. Its fields are read-only after construction,
// so a single Suggester is safe for concurrent use; each call builds its
// own document, summary, and prompt.
type Suggester struct {
	provider  provider.Provider
	analyzer  *analyzer.Analyzer
	assembler *prompt.Assembler
	budget    int
	maxTokens int
}

// New creates a Suggester. A nil provider falls back to the mock; a
// non-positive defaultBudget falls back to prompt.DefaultBudget.
func New(p provider.Provider, defaultBudget int) *Suggester {
	if p == nil {
		p = provider.NewMock()
	}
	if defaultBudget <= 0 {
		defaultBudget = prompt.DefaultBudget
	}
	return &Suggester{
		provider:  p,
		analyzer:  analyzer.New(),
		assembler: prompt.NewAssembler(defaultBudget),
		budget:    defaultBudget,
		maxTokens: provider.DefaultMaxTokens,
	}
}

// Suggest runs the pipeline over in-memory source. A non-positive budget
// means "use the default". The returned result is always populated; only
// obtaining the source can fail, and that happens before this call.
func (s *Suggester) Suggest(ctx context.Context, source []byte, cursor document.CursorPosition, budget int) *Result {
	return s.suggest(ctx, "", source, cursor, budget)
}

// SuggestFile reads path and runs the pipeline over its contents. An
// unreadable file is the one hard failure of the whole request.
func (s *Suggester) SuggestFile(ctx context.Context, path string, cursor document.CursorPosition, budget int) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return s.suggest(ctx, path, source, cursor, budget), nil
}

func (s *Suggester) suggest(ctx context.Context, path string, source []byte, cursor document.CursorPosition, budget int) *Result {
	if budget <= 0 {
		budget = s.budget
	}

	summary := s.analyzer.Analyze(source)

	doc := document.New(source)
	window := document.Window(doc, cursor, windowLines(budget))

	p := s.assembler.Assemble(summary, window, cursor, budget)

	suggestion, err := s.provider.Generate(ctx, p.Text, s.maxTokens)
	if err != nil {
		suggestion = "Error generating suggestion: " + err.Error()
	}

	result := &Result{
		Suggestion: suggestion,
		Context: Context{
			FilePath:      path,
			LineNumber:    cursor.Line,
			ColumnNumber:  cursor.Column,
			ContextWindow: budget,
			CodeStructure: summary,
			ContextBefore: window.Before,
			ContextAfter:  window.After,
			CurrentLine:   window.CurrentLine,
		},
		Truncated:     p.Truncated,
		PromptLength:  p.Length,
		ContextWindow: budget,
	}
	if p.Truncated {
		result.Warning = truncationWarning
	}
	return result
}

// windowLines derives the context window's line count from the character
// budget, assuming an average line width of 50 characters.
func windowLines(budget int) int {
	return max(1, budget/50)
}
