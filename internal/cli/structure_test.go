package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caretml/caret/internal/analyzer"
)

// Test Plan for structure rendering:
// - Classes section lists bases and methods
// - Functions section lists decorators, parameters and return types
// - Imports are reconstructed as statements, with aliases
// - Empty groups are omitted; an empty summary says so
// - Parse failures render the error instead of empty sections

func TestRenderStructureText_FullSummary(t *testing.T) {
	t.Parallel()

	summary := &analyzer.StructureSummary{
		Classes: []analyzer.ClassEntry{
			{Name: "Greeter", Line: 5, Methods: []string{"greet", "wave"}, Bases: []string{"Base"}},
		},
		Functions: []analyzer.FunctionEntry{
			{Name: "main", Line: 20, Parameters: []string{"argv"}, Decorators: []string{"cache"}, ReturnType: "int"},
		},
		Imports: []analyzer.ImportEntry{
			{Kind: analyzer.ImportDirect, Name: "os", Line: 1},
			{Kind: analyzer.ImportFromModule, Module: "typing", Name: "List", Alias: "L", Line: 2},
		},
		Variables: []analyzer.VariableEntry{
			{Name: "VERSION", Line: 3},
		},
	}

	text := renderStructureText(summary)

	assert.Contains(t, text, "Classes:\n")
	assert.Contains(t, text, "Greeter(Base)  (line 5)\n")
	assert.Contains(t, text, "    def greet\n")
	assert.Contains(t, text, "    def wave\n")

	assert.Contains(t, text, "Functions:\n")
	assert.Contains(t, text, "  @cache\n")
	assert.Contains(t, text, "main(argv) -> int  (line 20)\n")

	assert.Contains(t, text, "Imports:\n")
	assert.Contains(t, text, "import os  (line 1)\n")
	assert.Contains(t, text, "from typing import List as L  (line 2)\n")

	assert.Contains(t, text, "Variables:\n")
	assert.Contains(t, text, "VERSION  (line 3)\n")
}

func TestRenderStructureText_OmitsEmptyGroups(t *testing.T) {
	t.Parallel()

	summary := analyzer.NewStructureSummary()
	summary.Variables = append(summary.Variables, analyzer.VariableEntry{Name: "x", Line: 1})

	text := renderStructureText(summary)

	assert.Contains(t, text, "Variables:\n")
	assert.NotContains(t, text, "Classes:")
	assert.NotContains(t, text, "Functions:")
	assert.NotContains(t, text, "Imports:")
}

func TestRenderStructureText_EmptySummary(t *testing.T) {
	t.Parallel()

	text := renderStructureText(analyzer.NewStructureSummary())

	assert.Equal(t, "No structure found.\n", text)
}

func TestRenderStructureText_ParseError(t *testing.T) {
	t.Parallel()

	summary := analyzer.NewStructureSummary()
	summary.Error = "Syntax error in code"

	text := renderStructureText(summary)

	assert.Equal(t, "Parse error: Syntax error in code\n", text)
}

func TestRenderImport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		imp  analyzer.ImportEntry
		want string
	}{
		{
			name: "direct",
			imp:  analyzer.ImportEntry{Kind: analyzer.ImportDirect, Name: "os"},
			want: "import os",
		},
		{
			name: "direct with alias",
			imp:  analyzer.ImportEntry{Kind: analyzer.ImportDirect, Name: "numpy", Alias: "np"},
			want: "import numpy as np",
		},
		{
			name: "from module",
			imp:  analyzer.ImportEntry{Kind: analyzer.ImportFromModule, Module: "typing", Name: "List"},
			want: "from typing import List",
		},
		{
			name: "from module with alias",
			imp:  analyzer.ImportEntry{Kind: analyzer.ImportFromModule, Module: "collections", Name: "OrderedDict", Alias: "OD"},
			want: "from collections import OrderedDict as OD",
		},
		{
			name: "wildcard",
			imp:  analyzer.ImportEntry{Kind: analyzer.ImportFromModule, Module: "os.path", Name: "*"},
			want: "from os.path import *",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, renderImport(tt.imp))
		})
	}
}
