package mandel

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrProtocol      = errors.New("protocol violation")
)

// ConfigurationError reports a process topology that does not match the
// fixed count the run was built for, or a parameter outside its domain.
type ConfigurationError struct {
	Expected int
	Actual   int
	Msg      string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Msg)
	}
	return fmt.Sprintf("%s: expected number of processes is %d, but current number of processes is %d",
		ErrConfiguration.Error(), e.Expected, e.Actual)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ProcessMismatch builds the error raised before any dispatch when the
// launched process count differs from the expected one.
func ProcessMismatch(expected, actual int) error {
	return &ConfigurationError{Expected: expected, Actual: actual}
}

func Invalidf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ProtocolViolation is an invariant failure of the scheduler/worker
// handshake. It is raised with panic and never returned.
type ProtocolViolation struct {
	Msg string
}

func (e *ProtocolViolation) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrProtocol.Error(), e.Msg)
}

func (e *ProtocolViolation) Unwrap() error { return ErrProtocol }

// Violate panics with a ProtocolViolation.
func Violate(format string, args ...any) {
	panic(&ProtocolViolation{Msg: fmt.Sprintf(format, args...)})
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
