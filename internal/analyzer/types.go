package analyzer

// ImportKind distinguishes `import x` from `from m import x`.
type ImportKind string

const (
	ImportDirect     ImportKind = "import"
	ImportFromModule ImportKind = "from_import"
)

// ClassEntry describes a class definition. Methods lists the names of
// function definitions that are direct children of the class body, in body
// order. Bases lists the literal names or dotted paths of declared parents.
type ClassEntry struct {
	Name    string   `json:"name"`
	Line    int      `json:"line"`
	Methods []string `json:"methods"`
	Bases   []string `json:"bases"`
}

// FunctionEntry describes a function definition that is not a direct child
// of a class body. Nested functions are included.
type FunctionEntry struct {
	Name       string   `json:"name"`
	Line       int      `json:"line"`
	Parameters []string `json:"parameters"`
	Decorators []string `json:"decorators"`
	ReturnType string   `json:"return_type,omitempty"`
}

// ImportEntry describes one imported symbol. A statement importing several
// symbols yields one entry per symbol, all sharing the statement's line.
type ImportEntry struct {
	Kind   ImportKind `json:"kind"`
	Module string     `json:"module,omitempty"`
	Name   string     `json:"name"`
	Alias  string     `json:"alias,omitempty"`
	Line   int        `json:"line"`
}

// VariableEntry describes a module-level assignment to a simple name.
type VariableEntry struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// StructureSummary holds the declarations extracted from one source file,
// each sequence in document order. Error is set when the source failed to
// parse; in that case all four sequences are empty.
type StructureSummary struct {
	Classes   []ClassEntry    `json:"classes"`
	Functions []FunctionEntry `json:"functions"`
	Imports   []ImportEntry   `json:"imports"`
	Variables []VariableEntry `json:"variables"`
	Error     string          `json:"error,omitempty"`
}

// NewStructureSummary returns an empty summary with allocated sequences so
// JSON output renders [] instead of null.
func NewStructureSummary() *StructureSummary {
	return &StructureSummary{
		Classes:   []ClassEntry{},
		Functions: []FunctionEntry{},
		Imports:   []ImportEntry{},
		Variables: []VariableEntry{},
	}
}

// Failed reports whether the summary came from an unparseable source.
func (s *StructureSummary) Failed() bool {
	return s.Error != ""
}
