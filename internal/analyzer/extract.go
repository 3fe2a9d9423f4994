package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extract walks a parse outcome and produces the structural summary. All
// four sequences come out in document declaration order. Extraction never
// panics; nodes it does not recognize are simply not represented. A failed
// outcome yields a summary with the error marker set and empty sequences.
func Extract(outcome *ParseOutcome) *StructureSummary {
	summary := NewStructureSummary()
	if outcome == nil || outcome.tree == nil || outcome.failure != nil {
		summary.Error = summaryParseError
		return summary
	}

	source := outcome.source
	walk(outcome.tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_definition":
			summary.Classes = append(summary.Classes, extractClass(n, source))
		case "function_definition":
			// Direct children of a class body belong to that class's
			// methods list, never to the top-level functions sequence.
			if !isClassMethod(n) {
				summary.Functions = append(summary.Functions, extractFunction(n, source))
			}
		case "import_statement":
			summary.Imports = append(summary.Imports, directImports(n, source)...)
			return false
		case "import_from_statement":
			summary.Imports = append(summary.Imports, fromImports(n, source)...)
			return false
		case "assignment":
			if isModuleLevel(n) {
				if entry, ok := extractVariable(n, source); ok {
					summary.Variables = append(summary.Variables, entry)
				}
			}
		}
		return true
	})

	return summary
}

// extractClass builds a ClassEntry from a class_definition node. Methods
// are the function definitions sitting directly in the class body, counting
// decorated definitions; bases are the identifiers or dotted paths in the
// superclass argument list.
func extractClass(node *sitter.Node, source []byte) ClassEntry {
	entry := ClassEntry{
		Line:    lineOf(node),
		Methods: []string{},
		Bases:   []string{},
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		entry.Name = nodeText(nameNode, source)
	}

	if args := findChildByKind(node, "argument_list"); args != nil {
		for i := uint(0); i < args.ChildCount(); i++ {
			arg := args.Child(i)
			if kind := arg.Kind(); kind == "identifier" || kind == "attribute" {
				entry.Bases = append(entry.Bases, nodeText(arg, source))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return entry
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		fn := child
		if child.Kind() == "decorated_definition" {
			fn = findChildByKind(child, "function_definition")
		}
		if fn == nil || fn.Kind() != "function_definition" {
			continue
		}
		if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
			entry.Methods = append(entry.Methods, nodeText(nameNode, source))
		}
	}

	return entry
}

// extractFunction builds a FunctionEntry from a function_definition node.
func extractFunction(node *sitter.Node, source []byte) FunctionEntry {
	entry := FunctionEntry{
		Line:       lineOf(node),
		Parameters: []string{},
		Decorators: []string{},
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		entry.Name = nodeText(nameNode, source)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		entry.Parameters = parameterNames(params, source)
	}
	if parent := node.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
		entry.Decorators = decoratorNames(parent, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		entry.ReturnType = nodeText(ret, source)
	}

	return entry
}

// isClassMethod reports whether a function definition is a direct child of
// a class body. A decorated_definition wrapper counts as part of the
// definition, not as extra nesting.
func isClassMethod(node *sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Kind() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "block" {
		return false
	}
	grand := parent.Parent()
	return grand != nil && grand.Kind() == "class_definition"
}

// isModuleLevel checks if a node is at module scope (not inside a class or
// function).
func isModuleLevel(node *sitter.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "class_definition", "function_definition":
			return false
		case "module":
			return true
		}
	}
	return true
}

// parameterNames lists declared parameter names in order. Splat parameters
// (*args, **kwargs) and bare separators carry no plain name and are skipped.
func parameterNames(params *sitter.Node, source []byte) []string {
	names := []string{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "typed_parameter":
			if id := findChildByKind(child, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		case "default_parameter", "typed_default_parameter":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				names = append(names, nodeText(nameNode, source))
			}
		}
	}
	return names
}

// decoratorNames records each decorator's literal name or dotted path. A
// decorator with arguments records only the callee, not the argument values.
func decoratorNames(decorated *sitter.Node, source []byte) []string {
	names := []string{}
	for i := uint(0); i < decorated.ChildCount(); i++ {
		child := decorated.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			inner := child.Child(j)
			switch inner.Kind() {
			case "identifier", "attribute":
				names = append(names, nodeText(inner, source))
			case "call":
				if callee := inner.ChildByFieldName("function"); callee != nil {
					names = append(names, nodeText(callee, source))
				}
			}
		}
	}
	return names
}

// directImports emits one entry per imported module in an import_statement
// (`import os, sys` yields two entries).
func directImports(stmt *sitter.Node, source []byte) []ImportEntry {
	line := lineOf(stmt)
	entries := []ImportEntry{}
	for i := uint(0); i < stmt.ChildCount(); i++ {
		child := stmt.Child(i)
		switch child.Kind() {
		case "dotted_name":
			entries = append(entries, ImportEntry{
				Kind: ImportDirect,
				Name: nodeText(child, source),
				Line: line,
			})
		case "aliased_import":
			name, alias := aliasedImportParts(child, source)
			entries = append(entries, ImportEntry{
				Kind:  ImportDirect,
				Name:  name,
				Alias: alias,
				Line:  line,
			})
		}
	}
	return entries
}

// fromImports emits one entry per imported symbol in an
// import_from_statement. The module is the dotted name or relative prefix
// before the import keyword; names after the keyword are the symbols.
func fromImports(stmt *sitter.Node, source []byte) []ImportEntry {
	module := ""
	if m := stmt.ChildByFieldName("module_name"); m != nil {
		module = nodeText(m, source)
	}

	line := lineOf(stmt)
	entries := []ImportEntry{}
	sawImport := false
	for i := uint(0); i < stmt.ChildCount(); i++ {
		child := stmt.Child(i)
		switch child.Kind() {
		case "import":
			sawImport = true
		case "dotted_name", "identifier":
			// Before the import keyword this is the module path, already
			// captured above.
			if sawImport {
				entries = append(entries, ImportEntry{
					Kind:   ImportFromModule,
					Module: module,
					Name:   nodeText(child, source),
					Line:   line,
				})
			}
		case "aliased_import":
			name, alias := aliasedImportParts(child, source)
			entries = append(entries, ImportEntry{
				Kind:   ImportFromModule,
				Module: module,
				Name:   name,
				Alias:  alias,
				Line:   line,
			})
		case "wildcard_import":
			entries = append(entries, ImportEntry{
				Kind:   ImportFromModule,
				Module: module,
				Name:   "*",
				Line:   line,
			})
		}
	}
	return entries
}

// aliasedImportParts splits `x as y` into its name and alias.
func aliasedImportParts(node *sitter.Node, source []byte) (string, string) {
	var name, alias string
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = nodeText(nameNode, source)
	}
	if aliasNode := node.ChildByFieldName("alias"); aliasNode != nil {
		alias = nodeText(aliasNode, source)
	}
	return name, alias
}

// extractVariable records an assignment to a simple identifier target.
// Compound targets (attribute access, subscript, tuple unpacking) and
// annotation-only declarations without a value are not variables.
func extractVariable(node *sitter.Node, source []byte) (VariableEntry, bool) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return VariableEntry{}, false
	}
	if node.ChildByFieldName("right") == nil {
		return VariableEntry{}, false
	}
	return VariableEntry{Name: nodeText(left, source), Line: lineOf(node)}, true
}
