package plot

import (
	"encoding/json"
	"math"
)

// MaxMagnitude is the exclusive bound on |y| for a plotted sample.
const MaxMagnitude = 100.0

// Sample is one plotted point. Gap marks a point the renderer must skip,
// breaking the line.
type Sample struct {
	X   float64
	Y   float64
	Gap bool
}

// MarshalJSON encodes a gap as a null y.
func (s Sample) MarshalJSON() ([]byte, error) {
	var y *float64
	if !s.Gap {
		y = &s.Y
	}
	return json.Marshal(struct {
		X float64  `json:"x"`
		Y *float64 `json:"y"`
	}{s.X, y})
}

// Filter passes y through unless it is NaN, infinite or |y| >= 100, in which
// case ok is false and the sample becomes a gap.
func Filter(y float64) (v float64, ok bool) {
	if math.IsNaN(y) || math.IsInf(y, 0) || math.Abs(y) >= MaxMagnitude {
		return 0, false
	}
	return y, true
}

func filtered(x, y float64) Sample {
	v, ok := Filter(y)
	if !ok {
		return Sample{X: x, Gap: true}
	}
	return Sample{X: x, Y: v}
}
