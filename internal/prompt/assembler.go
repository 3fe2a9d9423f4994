// Package prompt renders structural summaries and context windows into a
// single budget-limited completion prompt.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/caretml/caret/internal/analyzer"
	"github.com/caretml/caret/internal/document"
)

// DefaultBudget is the character budget used when a caller does not supply
// one.
const DefaultBudget = 8096

// promptTemplate mirrors the completion prompt layout: structure summary as
// indented JSON, fenced before/after context blocks, then the cursor
// coordinates.
const promptTemplate = "\nYou are a Python code completion assistant. Based on the code structure and context, provide a relevant code completion.\n\nCode Structure:\n%s\n\nContext before cursor:\n```python\n%s\n```\n\nContext after cursor:\n```python\n%s\n```\n\nCurrent line: %s\nCursor position: Line %d, Column %d\n\nPlease provide a code completion that would be appropriate at this cursor position:\n"

// Prompt is an assembled completion prompt. Length never exceeds Budget;
// when the unbounded rendering would have, Text holds exactly the first
// Budget bytes and Truncated is set.
type Prompt struct {
	Text      string
	Length    int
	Budget    int
	Truncated bool
}

// Assembler renders prompts under a character budget. The default budget is
// fixed at construction; a single Assembler is safe for concurrent use.
type Assembler struct {
	defaultBudget int
}

// NewAssembler creates an Assembler. A non-positive defaultBudget falls
// back to DefaultBudget.
func NewAssembler(defaultBudget int) *Assembler {
	if defaultBudget <= 0 {
		defaultBudget = DefaultBudget
	}
	return &Assembler{defaultBudget: defaultBudget}
}

// Assemble renders the prompt and enforces the budget. A non-positive
// budget means "use the assembler's default".
func (a *Assembler) Assemble(summary *analyzer.StructureSummary, window document.ContextWindow, cursor document.CursorPosition, budget int) Prompt {
	if budget <= 0 {
		budget = a.defaultBudget
	}

	structureJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		structureJSON = []byte("{}")
	}

	text := fmt.Sprintf(promptTemplate,
		structureJSON, window.Before, window.After, window.CurrentLine,
		cursor.Line, cursor.Column)

	truncated := false
	if len(text) > budget {
		text = text[:budget]
		truncated = true
	}

	return Prompt{
		Text:      text,
		Length:    len(text),
		Budget:    budget,
		Truncated: truncated,
	}
}
