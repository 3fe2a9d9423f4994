package provider

import (
	"context"
	"strings"
)

// Mock is an offline provider that completes the prompt's last line with
// simple Python heuristics. It never fails, which makes it the default for
// demos and tests.
type Mock struct{}

// NewMock creates a Mock provider.
func NewMock() *Mock {
	return &Mock{}
}

func (*Mock) Name() string {
	return NameMock
}

// Generate inspects the final line of the prompt and returns a canned
// continuation for common Python constructs.
func (*Mock) Generate(_ context.Context, prompt string, _ int) (string, error) {
	lines := strings.Split(prompt, "\n")
	last := lines[len(lines)-1]

	switch {
	case strings.Contains(last, "def ") && strings.Contains(last, "(") &&
		strings.Count(last, "(") > strings.Count(last, ")"):
		return "):\n    pass", nil
	case strings.Contains(last, "class ") && !strings.Contains(last, ":"):
		return ":\n    pass", nil
	case strings.Contains(last, "if ") && !strings.Contains(last, ":"):
		return ":\n    pass", nil
	case strings.Contains(last, "for ") && !strings.Contains(last, ":"):
		return ":\n    pass", nil
	case strings.Contains(last, "while ") && !strings.Contains(last, ":"):
		return ":\n    pass", nil
	case strings.HasSuffix(strings.TrimSpace(last), "="):
		return " None", nil
	case strings.Contains(last, "import ") && !strings.Contains(last, " as "):
		return "", nil
	default:
		return fallbackCompletion, nil
	}
}
