package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Fixed sampling domain. These are not user-tunable.
const (
	DomainStart = -10.0
	DomainStop  = 10.0
	DomainStep  = 0.02
)

// GenerateGrid returns the evenly spaced points from start to stop
// inclusive. Points are computed from their index, so the closing boundary
// is exactly stop and no drift accumulates.
func GenerateGrid(start, stop, step float64) []float64 {
	n := int(math.Round((stop-start)/step)) + 1
	if n < 2 {
		return []float64{start}
	}
	grid := floats.Span(make([]float64, n), start, stop)
	grid[n-1] = stop
	return grid
}

// DomainGrid returns the grid every visualize request samples: [-10, 10]
// in steps of 0.02, 1001 points.
func DomainGrid() []float64 {
	return GenerateGrid(DomainStart, DomainStop, DomainStep)
}
