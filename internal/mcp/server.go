// Package mcp exposes the suggestion pipeline over the Model Context
// Protocol so editors and agents can call it as tools on stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/caretml/caret/internal/analyzer"
	"github.com/caretml/caret/internal/suggest"
)

// Server manages the MCP server lifecycle.
type Server struct {
	suggester *suggest.Suggester
	mcp       *server.MCPServer
}

// NewServer creates an MCP server exposing the code_suggest and
// code_structure tools.
func NewServer(version string, suggester *suggest.Suggester) (*Server, error) {
	if suggester == nil {
		return nil, fmt.Errorf("suggester is required")
	}

	mcpServer := server.NewMCPServer(
		"caret",
		version,
		server.WithToolCapabilities(true),
	)

	AddCodeSuggestTool(mcpServer, suggester)
	AddCodeStructureTool(mcpServer, analyzer.New())

	return &Server{
		suggester: suggester,
		mcp:       mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Start MCP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
