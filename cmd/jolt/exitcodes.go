package main

import "errors"

// Exit codes of the jolt command.
const (
	ExitSuccess = 0
	// ExitHTTPError is a response outside 2xx.
	ExitHTTPError = 1
	// ExitUsageError is an invalid flag, argument or config file.
	ExitUsageError = 2
	// ExitRequestError is a request that failed before a response arrived.
	ExitRequestError = 3
	// ExitCancelled is a request interrupted by a signal.
	ExitCancelled = 130
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
