package prompt

// Test Plan:
// Prompt assembly has two responsibilities: render the template with the
// structure summary and context window, and enforce the character budget.
// These tests verify the rendered layout (JSON structure block, fenced
// context blocks, cursor coordinates), the hard truncation to exactly the
// budget, and the default-budget fallback for non-positive budgets.

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretml/caret/internal/analyzer"
	"github.com/caretml/caret/internal/document"
)

func sampleSummary() *analyzer.StructureSummary {
	summary := analyzer.NewStructureSummary()
	summary.Classes = append(summary.Classes, analyzer.ClassEntry{
		Name:    "Greeter",
		Line:    1,
		Methods: []string{"greet"},
		Bases:   []string{},
	})
	summary.Imports = append(summary.Imports, analyzer.ImportEntry{
		Kind: analyzer.ImportDirect,
		Name: "os",
		Line: 3,
	})
	return summary
}

func TestAssemble_RendersTemplate(t *testing.T) {
	t.Parallel()

	asm := NewAssembler(DefaultBudget)
	window := document.ContextWindow{
		Before:      "class Greeter:\n    def greet(self):\n        ret",
		After:       "urn 'hi'\n\nimport os",
		CurrentLine: "        return 'hi'",
	}
	cursor := document.CursorPosition{Line: 3, Column: 11}

	p := asm.Assemble(sampleSummary(), window, cursor, 0)

	require.False(t, p.Truncated)
	assert.Equal(t, len(p.Text), p.Length)
	assert.Equal(t, DefaultBudget, p.Budget)

	assert.True(t, strings.HasPrefix(p.Text, "\nYou are a Python code completion assistant."))
	assert.Contains(t, p.Text, "Code Structure:\n{")
	assert.Contains(t, p.Text, `"classes"`)
	assert.Contains(t, p.Text, `"name": "Greeter"`)
	assert.Contains(t, p.Text, "Context before cursor:\n```python\nclass Greeter:\n    def greet(self):\n        ret\n```")
	assert.Contains(t, p.Text, "Context after cursor:\n```python\nurn 'hi'\n\nimport os\n```")
	assert.Contains(t, p.Text, "Current line:         return 'hi'\n")
	assert.Contains(t, p.Text, "Cursor position: Line 3, Column 11")
	assert.True(t, strings.HasSuffix(p.Text, "at this cursor position:\n"))
}

func TestAssemble_TruncatesToBudget(t *testing.T) {
	t.Parallel()

	asm := NewAssembler(DefaultBudget)
	window := document.ContextWindow{
		Before:      strings.Repeat("x = 1\n", 40),
		After:       strings.Repeat("y = 2\n", 40),
		CurrentLine: "x = 1",
	}
	cursor := document.CursorPosition{Line: 20, Column: 0}

	full := asm.Assemble(sampleSummary(), window, cursor, DefaultBudget)
	require.False(t, full.Truncated)
	require.Greater(t, full.Length, 300)

	p := asm.Assemble(sampleSummary(), window, cursor, 50)

	assert.True(t, p.Truncated)
	assert.Equal(t, 50, p.Length)
	assert.Equal(t, 50, p.Budget)
	assert.Len(t, p.Text, 50)
	assert.Equal(t, full.Text[:50], p.Text)
}

func TestAssemble_ExactFitIsNotTruncated(t *testing.T) {
	t.Parallel()

	asm := NewAssembler(DefaultBudget)
	window := document.ContextWindow{CurrentLine: "pass"}
	cursor := document.CursorPosition{Line: 1, Column: 0}

	full := asm.Assemble(sampleSummary(), window, cursor, DefaultBudget)
	require.False(t, full.Truncated)

	exact := asm.Assemble(sampleSummary(), window, cursor, full.Length)
	assert.False(t, exact.Truncated)
	assert.Equal(t, full.Length, exact.Length)
	assert.Equal(t, full.Text, exact.Text)

	under := asm.Assemble(sampleSummary(), window, cursor, full.Length-1)
	assert.True(t, under.Truncated)
	assert.Equal(t, full.Length-1, under.Length)
}

func TestAssemble_NonPositiveBudgetUsesDefault(t *testing.T) {
	t.Parallel()

	asm := NewAssembler(100)
	window := document.ContextWindow{CurrentLine: "pass"}
	cursor := document.CursorPosition{Line: 1, Column: 0}

	for _, budget := range []int{0, -1, -500} {
		p := asm.Assemble(sampleSummary(), window, cursor, budget)
		assert.Equal(t, 100, p.Budget)
		assert.True(t, p.Truncated)
		assert.Equal(t, 100, p.Length)
	}
}

func TestNewAssembler_NonPositiveDefault(t *testing.T) {
	t.Parallel()

	asm := NewAssembler(0)
	p := asm.Assemble(sampleSummary(), document.ContextWindow{}, document.CursorPosition{Line: 1, Column: 0}, 0)
	assert.Equal(t, DefaultBudget, p.Budget)
}

func TestAssemble_ErrorSummaryRendersMarker(t *testing.T) {
	t.Parallel()

	summary := analyzer.NewStructureSummary()
	summary.Error = "Syntax error in code"

	asm := NewAssembler(DefaultBudget)
	p := asm.Assemble(summary, document.ContextWindow{CurrentLine: "def broken(:"}, document.CursorPosition{Line: 1, Column: 12}, 0)

	assert.Contains(t, p.Text, `"error": "Syntax error in code"`)
	assert.Contains(t, p.Text, `"classes": []`)
}
