package provider

// Test Plan:
// Provider failures are classified into a small taxonomy so callers can
// branch on kind. These tests cover the HTTP status mapping, the transport
// classification (context deadlines, net.Error, message sniffing), the
// rendered diagnostic per kind, and unwrapping to the underlying error.

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   ErrorKind
		ok     bool
	}{
		{status: 401, want: AuthError, ok: true},
		{status: 403, want: AuthError, ok: true},
		{status: 429, want: RateLimited, ok: true},
		{status: 400, ok: false},
		{status: 500, ok: false},
		{status: 503, ok: false},
	}

	for _, tt := range tests {
		kind, ok := classifyStatus(tt.status)
		assert.Equal(t, tt.ok, ok, "status %d", tt.status)
		if tt.ok {
			assert.Equal(t, tt.want, kind, "status %d", tt.status)
		}
	}
}

func TestClassifyTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: Timeout,
		},
		{
			name: "wrapped context deadline",
			err:  errors.Join(errors.New("request failed"), context.DeadlineExceeded),
			want: Timeout,
		},
		{
			name: "net timeout",
			err:  &net.DNSError{Err: "lookup timeout", IsTimeout: true},
			want: Timeout,
		},
		{
			name: "net non-timeout",
			err:  &net.DNSError{Err: "no such host"},
			want: NetworkError,
		},
		{
			name: "timeout in message",
			err:  errors.New("Client.Timeout exceeded while awaiting headers"),
			want: Timeout,
		},
		{
			name: "connection in message",
			err:  errors.New("dial tcp 127.0.0.1:443: connection refused"),
			want: NetworkError,
		},
		{
			name: "anything else",
			err:  errors.New("unexpected response shape"),
			want: OtherError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classifyTransport(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ErrorKind
		want string
	}{
		{kind: AuthError, want: "openai: invalid API key"},
		{kind: RateLimited, want: "openai: rate limit exceeded"},
		{kind: NetworkError, want: "openai: network connection failed"},
		{kind: Timeout, want: "openai: request timed out"},
	}

	for _, tt := range tests {
		err := &Error{Provider: "openai", Kind: tt.kind, Err: errors.New("raw")}
		assert.Equal(t, tt.want, err.Error())
	}
}

func TestError_OtherTruncatesMessage(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 80)
	err := &Error{Provider: "anthropic", Kind: OtherError, Err: errors.New(long)}
	assert.Equal(t, "anthropic: "+strings.Repeat("x", 50)+"...", err.Error())

	short := &Error{Provider: "anthropic", Kind: OtherError, Err: errors.New("bad request")}
	assert.Equal(t, "anthropic: bad request", short.Error())

	nilErr := &Error{Provider: "anthropic", Kind: OtherError}
	assert.Equal(t, "anthropic: unknown error", nilErr.Error())
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("boom")
	err := &Error{Provider: "deepseek", Kind: OtherError, Err: underlying}
	assert.ErrorIs(t, err, underlying)

	var perr *Error
	assert.ErrorAs(t, error(err), &perr)
	assert.Equal(t, OtherError, perr.Kind)
}
