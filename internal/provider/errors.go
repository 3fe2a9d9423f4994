package provider

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	AuthError    ErrorKind = "auth_error"
	RateLimited  ErrorKind = "rate_limited"
	NetworkError ErrorKind = "network_error"
	Timeout      ErrorKind = "timeout"
	OtherError   ErrorKind = "other"
)

// Error is a classified provider failure. Provider names the adapter that
// produced it; Err holds the underlying SDK or transport error.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case AuthError:
		return e.Provider + ": invalid API key"
	case RateLimited:
		return e.Provider + ": rate limit exceeded"
	case NetworkError:
		return e.Provider + ": network connection failed"
	case Timeout:
		return e.Provider + ": request timed out"
	default:
		return e.Provider + ": " + shortMessage(e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// shortMessage caps unclassified error text at 50 characters.
func shortMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	if len(msg) > 50 {
		return msg[:50] + "..."
	}
	return msg
}

// classifyStatus maps an HTTP status from a provider API to an ErrorKind,
// returning false for statuses with no specific classification.
func classifyStatus(status int) (ErrorKind, bool) {
	switch status {
	case 401, 403:
		return AuthError, true
	case 429:
		return RateLimited, true
	}
	return OtherError, false
}

// classifyTransport distinguishes timeouts and connection failures from
// everything else.
func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Timeout
		}
		return NetworkError
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") {
		return Timeout
	}
	if strings.Contains(msg, "connection") {
		return NetworkError
	}
	return OtherError
}
