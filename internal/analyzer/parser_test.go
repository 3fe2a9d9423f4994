package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the parser:
// - Valid source parses with no failure
// - Malformed source yields a structured failure with an approximate line
// - Arbitrary byte content never panics
// - Close is safe to call repeatedly

func TestParse_ValidSource(t *testing.T) {
	t.Parallel()

	a := New()

	outcome := a.Parse([]byte("x = 1\n"))
	defer outcome.Close()

	require.NotNil(t, outcome)
	assert.Nil(t, outcome.Failure())
}

func TestParse_MalformedSource(t *testing.T) {
	t.Parallel()

	a := New()

	outcome := a.Parse([]byte("x = 1\ndef broken(:\n    pass\n"))
	defer outcome.Close()

	require.NotNil(t, outcome)
	failure := outcome.Failure()
	require.NotNil(t, failure)
	assert.Contains(t, failure.Reason, "syntax error")
	assert.GreaterOrEqual(t, failure.Line, 1)
}

func TestParse_ArbitraryBytes(t *testing.T) {
	t.Parallel()

	a := New()

	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("\n\n\n"),
		[]byte("�����"),
		[]byte{0x00, 0xff, 0xfe, 0x01},
		[]byte(strings.Repeat("(", 500)),
	}

	for _, source := range inputs {
		outcome := a.Parse(source)
		require.NotNil(t, outcome)
		outcome.Close()
	}
}

func TestParseOutcome_CloseTwice(t *testing.T) {
	t.Parallel()

	a := New()

	outcome := a.Parse([]byte("y = 2\n"))
	outcome.Close()
	outcome.Close()
}
