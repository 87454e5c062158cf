package plot

import (
	"errors"
	"math"
)

var errNotFinite = errors.New("result is not finite")

// Integrate returns the running integral of fn over grid, starting at 0 on
// the first point, by the composite trapezoidal rule:
//
//	acc[i] = acc[i-1] + (y[i] + y[i-1]) / 2 * (x[i] - x[i-1])
//
// Unlike the per-point modes, a single undefined or infinite point fails the
// whole integration, since every later total depends on it.
func Integrate(fn Expression, grid []float64) ([]float64, error) {
	if len(grid) == 0 {
		return nil, nil
	}

	ys := make([]float64, len(grid))
	for i, x := range grid {
		y, err := Evaluate(fn, x)
		if err != nil {
			return nil, err
		}
		if math.IsInf(y, 0) {
			return nil, &PointError{X: x, Err: errNotFinite}
		}
		ys[i] = y
	}

	acc := make([]float64, len(grid))
	for i := 1; i < len(grid); i++ {
		acc[i] = acc[i-1] + (ys[i]+ys[i-1])/2*(grid[i]-grid[i-1])
	}
	return acc, nil
}
