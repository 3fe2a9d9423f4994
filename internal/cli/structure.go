package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caretml/caret/internal/analyzer"
)

var structureOutputFormat string

var structureCmd = &cobra.Command{
	Use:   "structure <file>",
	Short: "Show the structural summary of a Python file",
	Long: `Extract the structural summary of a Python file: classes with their
methods and bases, functions with their signatures, imports and module-level
variables, in source order. Unparseable files report a parse error instead
of failing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func init() {
	rootCmd.AddCommand(structureCmd)

	structureCmd.Flags().StringVar(&structureOutputFormat, "output-format", formatText, "output format: text or json")
}

func runStructure(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s", args[0])
		}
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}

	summary := analyzer.New().Analyze(source)

	switch structureOutputFormat {
	case formatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		fmt.Println(string(data))
	case formatText:
		fmt.Print(renderStructureText(summary))
	default:
		return fmt.Errorf("unsupported output format: %q (supported: text, json)", structureOutputFormat)
	}
	return nil
}

// renderStructureText formats a summary for humans, grouped by declaration
// kind with line numbers. Empty groups are omitted.
func renderStructureText(summary *analyzer.StructureSummary) string {
	var b strings.Builder

	if summary.Failed() {
		fmt.Fprintf(&b, "Parse error: %s\n", summary.Error)
		return b.String()
	}

	if len(summary.Classes) > 0 {
		b.WriteString("Classes:\n")
		for _, c := range summary.Classes {
			fmt.Fprintf(&b, "  %s", c.Name)
			if len(c.Bases) > 0 {
				fmt.Fprintf(&b, "(%s)", strings.Join(c.Bases, ", "))
			}
			fmt.Fprintf(&b, "  (line %d)\n", c.Line)
			for _, m := range c.Methods {
				fmt.Fprintf(&b, "    def %s\n", m)
			}
		}
	}

	if len(summary.Functions) > 0 {
		b.WriteString("Functions:\n")
		for _, f := range summary.Functions {
			for _, d := range f.Decorators {
				fmt.Fprintf(&b, "  @%s\n", d)
			}
			fmt.Fprintf(&b, "  %s(%s)", f.Name, strings.Join(f.Parameters, ", "))
			if f.ReturnType != "" {
				fmt.Fprintf(&b, " -> %s", f.ReturnType)
			}
			fmt.Fprintf(&b, "  (line %d)\n", f.Line)
		}
	}

	if len(summary.Imports) > 0 {
		b.WriteString("Imports:\n")
		for _, imp := range summary.Imports {
			fmt.Fprintf(&b, "  %s  (line %d)\n", renderImport(imp), imp.Line)
		}
	}

	if len(summary.Variables) > 0 {
		b.WriteString("Variables:\n")
		for _, v := range summary.Variables {
			fmt.Fprintf(&b, "  %s  (line %d)\n", v.Name, v.Line)
		}
	}

	if b.Len() == 0 {
		b.WriteString("No structure found.\n")
	}

	return b.String()
}

// renderImport reconstructs the import statement for one entry.
func renderImport(imp analyzer.ImportEntry) string {
	var b strings.Builder
	if imp.Kind == analyzer.ImportFromModule {
		fmt.Fprintf(&b, "from %s import %s", imp.Module, imp.Name)
	} else {
		fmt.Fprintf(&b, "import %s", imp.Name)
	}
	if imp.Alias != "" {
		fmt.Fprintf(&b, " as %s", imp.Alias)
	}
	return b.String()
}
