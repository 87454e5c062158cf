package plot

import (
	"errors"
	"fmt"
	"math"
)

// Expression is a compiled function of one variable.
type Expression interface {
	Eval(x float64) (float64, error)
	// String returns the canonical text of the expression.
	String() string
}

// Compiler turns formula text into an Expression and derives expressions.
type Compiler interface {
	Parse(text string) (Expression, error)
	Differentiate(e Expression, variable string) (Expression, error)
}

// Evaluate invokes fn at the single point x. Every failure, including a
// panic inside fn or a NaN result, comes back as a *PointError so the
// caller can decide whether it is fatal.
func Evaluate(fn Expression, x float64) (y float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			y, err = 0, &PointError{X: x, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	y, err = fn.Eval(x)
	if err != nil {
		return 0, &PointError{X: x, Err: err}
	}
	if math.IsNaN(y) {
		return 0, &PointError{X: x, Err: errNotANumber}
	}
	return y, nil
}

var errNotANumber = errors.New("result is not a number")

// sampleEach evaluates fn on every grid point, turning point failures into
// gaps. Used for value and derivative modes.
func sampleEach(fn Expression, grid []float64) []Sample {
	samples := make([]Sample, len(grid))
	for i, x := range grid {
		y, err := Evaluate(fn, x)
		if err != nil {
			samples[i] = Sample{X: x, Gap: true}
			continue
		}
		samples[i] = filtered(x, y)
	}
	return samples
}
