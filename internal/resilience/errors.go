package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// FatalError wraps an error that must not be retried regardless of shape,
// e.g. a tool rejecting its input.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatalError marks err as non-retryable.
func NewFatalError(err error) *FatalError {
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsRetryable reports whether err matches a known transient failure shape:
// a step deadline expiring, network timeouts, connection resets, DNS
// failures, or provider throttling. FatalErrors are never retryable.
func IsRetryable(err error) bool {
	if err == nil || IsFatal(err) {
		return false
	}

	// A step deadline expiring is the normal timeout path.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"overloaded",
		"rate limit",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// RetryAllButFatal retries every failure except explicit FatalErrors. Tool
// plan steps use this: the caller supplies a small fixed budget and the
// upstream tool may fail in arbitrary ways worth one more try.
func RetryAllButFatal(err error) bool {
	return err != nil && !IsFatal(err)
}
