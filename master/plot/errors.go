package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrCompile is wrapped by CompileError.
	ErrCompile = errors.New("cannot compile expression")
	// ErrPointEvaluation is wrapped by PointError.
	ErrPointEvaluation = errors.New("evaluation failed")
	// ErrUnknownMode is returned for a mode outside value/derivative/integral.
	ErrUnknownMode = errors.New("unknown mode")
)

// CompileError means the expression text could not be turned into a
// function. No samples are produced for such a request.
type CompileError struct {
	Text string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q", ErrCompile, e.Text)
	}
	return fmt.Sprintf("%s %q: %v", ErrCompile, e.Text, e.Err)
}

func (e *CompileError) Unwrap() []error { return []error{ErrCompile, e.Err} }

// PointError reports a function that is undefined at X.
type PointError struct {
	X   float64
	Err error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("%s at x=%g: %v", ErrPointEvaluation, e.X, e.Err)
}

func (e *PointError) Unwrap() []error { return []error{ErrPointEvaluation, e.Err} }

// IsRequestError reports whether err is a failure caused by the request
// itself (bad formula, bad mode, undefined integrand) rather than by the
// server.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrCompile) || errors.Is(err, ErrPointEvaluation) || errors.Is(err, ErrUnknownMode)
}
