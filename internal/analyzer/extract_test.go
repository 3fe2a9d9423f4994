package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for structure extraction:
// - Parse class definitions with bases and method lists
// - Methods stay inside their class entry, never in the functions sequence
// - Extract standalone and nested functions with parameters/decorators/return types
// - Extract direct, aliased, from-module, wildcard, and relative imports
// - One import entry per imported symbol, not per statement
// - Extract module-level simple-name assignments only
// - Document declaration order for all four sequences
// - Invalid source yields the error marker and empty sequences, never a panic
// - Extraction is deterministic for identical source

func TestExtract_ClassWithMethod(t *testing.T) {
	t.Parallel()

	a := New()

	// Test: a method belongs to its class and not to the functions sequence
	summary := a.Analyze([]byte("class A:\n    def foo(self):\n        pass\n"))

	require.NotNil(t, summary)
	assert.Empty(t, summary.Error)

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, "A", summary.Classes[0].Name)
	assert.Equal(t, 1, summary.Classes[0].Line)
	assert.Equal(t, []string{"foo"}, summary.Classes[0].Methods)
	assert.Empty(t, summary.Classes[0].Bases)

	assert.Len(t, summary.Functions, 0)
}

func TestExtract_ClassDetails(t *testing.T) {
	t.Parallel()

	a := New()

	content := `class Repository(Base, abc.ABC):
    table = "users"

    def __init__(self, db):
        self.db = db

    @property
    def name(self):
        return self.table

    async def fetch(self, key):
        return await self.db.get(key)
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Classes, 1)
	cls := summary.Classes[0]
	assert.Equal(t, "Repository", cls.Name)
	assert.Equal(t, 1, cls.Line)
	assert.Equal(t, []string{"Base", "abc.ABC"}, cls.Bases)

	// Decorated and async methods are still direct children of the body.
	assert.Equal(t, []string{"__init__", "name", "fetch"}, cls.Methods)

	// The class-level assignment is not a module variable.
	assert.Len(t, summary.Variables, 0)
	assert.Len(t, summary.Functions, 0)
}

func TestExtract_Functions(t *testing.T) {
	t.Parallel()

	a := New()

	content := `import functools

@functools.lru_cache(maxsize=128)
def cached(x: int) -> int:
    return x * 2

def outer(a, b=1, *args, **kwargs):
    def inner():
        pass
    return inner
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Functions, 3)

	cached := summary.Functions[0]
	assert.Equal(t, "cached", cached.Name)
	assert.Equal(t, 4, cached.Line)
	assert.Equal(t, []string{"x"}, cached.Parameters)
	assert.Equal(t, []string{"functools.lru_cache"}, cached.Decorators)
	assert.Equal(t, "int", cached.ReturnType)

	outer := summary.Functions[1]
	assert.Equal(t, "outer", outer.Name)
	assert.Equal(t, []string{"a", "b"}, outer.Parameters, "splat parameters carry no plain name")
	assert.Empty(t, outer.Decorators)
	assert.Empty(t, outer.ReturnType)

	// Nested functions appear in the top-level sequence; only class-body
	// methods are excluded.
	inner := summary.Functions[2]
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, 8, inner.Line)
}

func TestExtract_MethodNotDoubleCounted(t *testing.T) {
	t.Parallel()

	a := New()

	content := `class Service:
    def handle(self):
        def helper():
            pass
        return helper

def standalone():
    pass
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, []string{"handle"}, summary.Classes[0].Methods)

	names := []string{}
	for _, fn := range summary.Functions {
		names = append(names, fn.Name)
	}
	assert.NotContains(t, names, "handle", "methods must not leak into the functions sequence")
	assert.Contains(t, names, "helper", "functions nested in a method body are plain functions")
	assert.Contains(t, names, "standalone")
}

func TestExtract_Imports(t *testing.T) {
	t.Parallel()

	a := New()

	// Test: one entry per imported symbol
	summary := a.Analyze([]byte("import os\nfrom sys import path\n"))

	require.Len(t, summary.Imports, 2)

	direct := summary.Imports[0]
	assert.Equal(t, ImportDirect, direct.Kind)
	assert.Equal(t, "os", direct.Name)
	assert.Empty(t, direct.Module)
	assert.Empty(t, direct.Alias)
	assert.Equal(t, 1, direct.Line)

	from := summary.Imports[1]
	assert.Equal(t, ImportFromModule, from.Kind)
	assert.Equal(t, "sys", from.Module)
	assert.Equal(t, "path", from.Name)
	assert.Equal(t, 2, from.Line)
}

func TestExtract_ImportForms(t *testing.T) {
	t.Parallel()

	a := New()

	content := `import os, os.path
import numpy as np
from typing import Optional, List
from collections import OrderedDict as OD
from os.path import *
from . import siblings
from ..pkg import helper
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Imports, 9)

	assert.Equal(t, ImportEntry{Kind: ImportDirect, Name: "os", Line: 1}, summary.Imports[0])
	assert.Equal(t, ImportEntry{Kind: ImportDirect, Name: "os.path", Line: 1}, summary.Imports[1])
	assert.Equal(t, ImportEntry{Kind: ImportDirect, Name: "numpy", Alias: "np", Line: 2}, summary.Imports[2])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: "typing", Name: "Optional", Line: 3}, summary.Imports[3])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: "typing", Name: "List", Line: 3}, summary.Imports[4])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: "collections", Name: "OrderedDict", Alias: "OD", Line: 4}, summary.Imports[5])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: "os.path", Name: "*", Line: 5}, summary.Imports[6])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: ".", Name: "siblings", Line: 6}, summary.Imports[7])
	assert.Equal(t, ImportEntry{Kind: ImportFromModule, Module: "..pkg", Name: "helper", Line: 7}, summary.Imports[8])
}

func TestExtract_Variables(t *testing.T) {
	t.Parallel()

	a := New()

	content := `API_KEY = "secret"
count: int = 0
obj.attr = 1
items[0] = 2
a, b = 1, 2

def setup():
    local = 3
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Variables, 2)
	assert.Equal(t, VariableEntry{Name: "API_KEY", Line: 1}, summary.Variables[0])
	assert.Equal(t, VariableEntry{Name: "count", Line: 2}, summary.Variables[1])
}

func TestExtract_DocumentOrder(t *testing.T) {
	t.Parallel()

	a := New()

	content := `import os

def first():
    pass

class Middle:
    def m(self):
        pass

def last():
    pass
`
	summary := a.Analyze([]byte(content))

	require.Len(t, summary.Functions, 2)
	assert.Equal(t, "first", summary.Functions[0].Name)
	assert.Equal(t, "last", summary.Functions[1].Name)
	assert.Less(t, summary.Functions[0].Line, summary.Functions[1].Line)

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, "Middle", summary.Classes[0].Name)
}

func TestExtract_SyntaxError(t *testing.T) {
	t.Parallel()

	a := New()

	summary := a.Analyze([]byte("def broken(:\n    pass\n"))

	require.NotNil(t, summary)
	assert.True(t, summary.Failed())
	assert.Equal(t, "Syntax error in code", summary.Error)

	// The error marker implies empty sequences.
	assert.Empty(t, summary.Classes)
	assert.Empty(t, summary.Functions)
	assert.Empty(t, summary.Imports)
	assert.Empty(t, summary.Variables)
}

func TestExtract_EmptySource(t *testing.T) {
	t.Parallel()

	a := New()

	summary := a.Analyze([]byte(""))

	require.NotNil(t, summary)
	assert.Empty(t, summary.Error)
	assert.Empty(t, summary.Classes)
	assert.Empty(t, summary.Functions)
	assert.Empty(t, summary.Imports)
	assert.Empty(t, summary.Variables)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	a := New()

	content := `import json

class Point:
    def __init__(self, x, y):
        self.x = x

ORIGIN = None

def distance(p, q):
    return 0
`
	first := a.Analyze([]byte(content))
	second := a.Analyze([]byte(content))

	assert.Equal(t, first, second)
}

func TestExtract_NilOutcome(t *testing.T) {
	t.Parallel()

	summary := Extract(nil)

	require.NotNil(t, summary)
	assert.True(t, summary.Failed())
}
