package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/caretml/caret/internal/config"
	"github.com/caretml/caret/internal/document"
	"github.com/caretml/caret/internal/provider"
	"github.com/caretml/caret/internal/suggest"
)

// Output formats shared by the suggest, structure and scan commands.
const (
	formatText = "text"
	formatJSON = "json"
)

var (
	suggestContextWindow int
	suggestProvider      string
	suggestAPIKey        string
	suggestModel         string
	suggestBaseURL       string
	suggestOutputFormat  string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file> <line> <column>",
	Short: "Generate a code suggestion for a cursor position",
	Long: `Generate a code completion suggestion for a cursor position in a Python file.

The file is parsed with tree-sitter, its structure is summarized, and a
context window around the cursor is assembled into a prompt for the
configured completion provider. Line numbers are 1-based, columns 0-based.

Examples:
  caret suggest app.py 42 8
  caret suggest app.py 42 8 --provider anthropic --output-format json`,
	Args: cobra.ExactArgs(3),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVar(&suggestContextWindow, "context-window", 8096, "prompt length budget in characters")
	suggestCmd.Flags().StringVar(&suggestProvider, "provider", "", "completion provider: mock, openai, anthropic or deepseek (default from config, or mock)")
	suggestCmd.Flags().StringVar(&suggestAPIKey, "api-key", "", "provider API key (overrides config and environment)")
	suggestCmd.Flags().StringVar(&suggestModel, "model", "", "provider model name (default per provider)")
	suggestCmd.Flags().StringVar(&suggestBaseURL, "base-url", "", "provider endpoint override")
	suggestCmd.Flags().StringVar(&suggestOutputFormat, "output-format", formatText, "output format: text or json")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cursor, err := parseCursor(args[1], args[2])
	if err != nil {
		return suggestError(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return suggestError(err)
	}
	applySuggestFlags(cfg)

	budget := cfg.Suggest.ContextWindow
	if cmd.Flags().Changed("context-window") {
		budget = suggestContextWindow
	}

	p := buildProvider(os.Stdout, cfg.Provider)
	suggester := suggest.New(p, budget)

	result, err := suggester.SuggestFile(cmd.Context(), args[0], cursor, budget)
	if err != nil {
		return suggestError(err)
	}

	return printSuggestResult(os.Stdout, result, suggestOutputFormat)
}

// suggestError reports a hard failure in the requested format. In JSON mode
// the error object goes to stdout so callers parsing the output see it.
func suggestError(err error) error {
	if suggestOutputFormat == formatJSON {
		printJSONError(os.Stdout, err)
		os.Exit(1)
	}
	return err
}

// applySuggestFlags layers the suggest command's provider flags over the
// loaded configuration. Empty flags leave the config values alone.
func applySuggestFlags(cfg *config.Config) {
	if suggestProvider != "" {
		cfg.Provider.Name = suggestProvider
	}
	if suggestModel != "" {
		cfg.Provider.Model = suggestModel
	}
	if suggestBaseURL != "" {
		cfg.Provider.BaseURL = suggestBaseURL
	}
	cfg.Provider.APIKey = resolveAPIKey(cfg.Provider.Name, suggestAPIKey, cfg.Provider.APIKey)
}

// resolveAPIKey picks the provider API key: explicit flag first, then the
// configured value, then the provider's conventional environment variable.
func resolveAPIKey(providerName, flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	switch providerName {
	case provider.NameOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case provider.NameAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case provider.NameDeepSeek:
		return os.Getenv("DEEPSEEK_API_KEY")
	}
	return ""
}

// buildProvider constructs the configured provider. Construction failures
// (bad name, missing API key) fall back to the mock provider so the request
// still produces a placeholder suggestion.
func buildProvider(w io.Writer, pc config.ProviderConfig) provider.Provider {
	p, err := provider.New(provider.Config{
		Name:        pc.Name,
		APIKey:      pc.APIKey,
		Model:       pc.Model,
		BaseURL:     pc.BaseURL,
		Temperature: pc.Temperature,
		Timeout:     time.Duration(pc.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		fmt.Fprintf(w, "Error initializing %s provider: %v\n", pc.Name, err)
		fmt.Fprintln(w, "Falling back to mock provider")
		return provider.NewMock()
	}
	return p
}

func parseCursor(lineArg, columnArg string) (document.CursorPosition, error) {
	line, err := strconv.Atoi(lineArg)
	if err != nil {
		return document.CursorPosition{}, fmt.Errorf("invalid line number: %q", lineArg)
	}
	column, err := strconv.Atoi(columnArg)
	if err != nil {
		return document.CursorPosition{}, fmt.Errorf("invalid column number: %q", columnArg)
	}
	return document.CursorPosition{Line: line, Column: column}, nil
}

func printSuggestResult(w io.Writer, result *suggest.Result, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case formatText:
		fmt.Fprintf(w, "Suggestion: %s\n", result.Suggestion)
		if result.Warning != "" {
			fmt.Fprintf(w, "Warning: %s\n", result.Warning)
		}
		fmt.Fprintf(w, "Prompt length: %d/%d\n", result.PromptLength, result.ContextWindow)
	default:
		return fmt.Errorf("unsupported output format: %q (supported: text, json)", format)
	}
	return nil
}

func printJSONError(w io.Writer, err error) {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintln(w, string(data))
}
