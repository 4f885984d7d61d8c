package main

import (
	"context"
	"errors"
	"fmt"
)

const exitCodeCanceled = 130

type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func (e *exitError) cause(fallback error) error {
	if e != nil && e.err != nil {
		return e.err
	}
	return fallback
}

// runError maps the result of a long running command to its exit status.
// Cancellation exits 130 without logging a failure.
func runError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return &exitError{code: exitCodeCanceled, err: err, silent: true}
	default:
		return &exitError{code: 1, err: err}
	}
}
