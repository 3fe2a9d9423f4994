package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/caretml/caret/internal/analyzer"
	"github.com/caretml/caret/internal/document"
	"github.com/caretml/caret/internal/prompt"
	"github.com/caretml/caret/internal/suggest"
)

// AddCodeSuggestTool registers the code_suggest tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddCodeSuggestTool(s *server.MCPServer, suggester *suggest.Suggester) {
	tool := mcp.NewTool(
		"code_suggest",
		mcp.WithDescription("Generate a code completion suggestion for a cursor position in a Python file. Returns the suggestion together with the structural context that produced it."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the Python source file")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("Cursor line number (1-based)")),
		mcp.WithNumber("column",
			mcp.Required(),
			mcp.Description("Cursor column number (0-based)")),
		mcp.WithNumber("context_window",
			mcp.Description(fmt.Sprintf("Prompt length budget in characters (default: %d)", prompt.DefaultBudget))),
	)

	s.AddTool(tool, createCodeSuggestHandler(suggester))
}

// createCodeSuggestHandler creates the handler function for the code_suggest tool.
func createCodeSuggestHandler(suggester *suggest.Suggester) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		line, ok := argsMap["line"].(float64)
		if !ok {
			return mcp.NewToolResultError("line parameter is required"), nil
		}

		column, ok := argsMap["column"].(float64)
		if !ok {
			return mcp.NewToolResultError("column parameter is required"), nil
		}

		budget := 0
		if window, ok := argsMap["context_window"].(float64); ok {
			budget = int(window)
		}

		cursor := document.CursorPosition{Line: int(line), Column: int(column)}
		result, err := suggester.SuggestFile(ctx, file, cursor, budget)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddCodeStructureTool registers the code_structure tool with an MCP server.
func AddCodeStructureTool(s *server.MCPServer, a *analyzer.Analyzer) {
	tool := mcp.NewTool(
		"code_structure",
		mcp.WithDescription("Extract the structural summary of a Python file: classes with methods and bases, functions with signatures, imports and module-level variables, in source order."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the Python source file")),
	)

	s.AddTool(tool, createCodeStructureHandler(a))
}

// createCodeStructureHandler creates the handler function for the code_structure tool.
func createCodeStructureHandler(a *analyzer.Analyzer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		source, err := os.ReadFile(file)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read file %s: %v", file, err)), nil
		}

		summary := a.Analyze(source)

		jsonData, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal summary: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
