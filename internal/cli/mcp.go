package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caretml/caret/internal/mcp"
	"github.com/caretml/caret/internal/suggest"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for code suggestions",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants request code suggestions for cursor positions in Python files.

The MCP server:
- Provides code completions via the code_suggest tool
- Provides structure summaries via the code_structure tool
- Communicates via stdio (standard MCP transport)

Example:
  caret mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Provider.APIKey = resolveAPIKey(cfg.Provider.Name, "", cfg.Provider.APIKey)

	// Startup information goes to stderr: stdout carries the MCP transport.
	fmt.Fprintf(os.Stderr, "Caret MCP Server\n")

	p := buildProvider(os.Stderr, cfg.Provider)
	fmt.Fprintf(os.Stderr, "Provider: %s\n", p.Name())
	fmt.Fprintf(os.Stderr, "\n")

	suggester := suggest.New(p, cfg.Suggest.ContextWindow)

	server, err := mcp.NewServer(Version, suggester)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
