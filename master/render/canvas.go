// Package render draws visualized curves as PNG line charts.
package render

import (
	"errors"
	"io"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fnplot.com/master/plot"
)

var (
	// ErrNothingDrawn is returned by WritePNG before the first Draw.
	ErrNothingDrawn = errors.New("no curve drawn yet")
	// ErrNothingToPlot is returned for a curve made only of gaps.
	ErrNothingToPlot = errors.New("curve has no plottable samples")
)

var curveColor = drawing.Color{R: 75, G: 192, B: 192, A: 255}

// Canvas keeps the most recently drawn curve. Concurrent requests replace
// each other; the last Draw wins.
type Canvas struct {
	mu     sync.RWMutex
	width  int
	height int
	curve  *plot.Curve
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Draw replaces the current curve.
func (c *Canvas) Draw(curve *plot.Curve) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.curve = curve
}

// Last returns the current curve, or nil.
func (c *Canvas) Last() *plot.Curve {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.curve
}

// Size returns the rendered image size in pixels.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// WritePNG renders the current curve.
func (c *Canvas) WritePNG(w io.Writer) error {
	curve := c.Last()
	if curve == nil {
		return ErrNothingDrawn
	}
	return WritePNG(w, curve, c.width, c.height)
}

// WritePNG renders curve as a width x height PNG.
func WritePNG(w io.Writer, curve *plot.Curve, width, height int) error {
	ch, err := Chart(curve, width, height)
	if err != nil {
		return err
	}
	return Encode(w, ch)
}

// Encode writes ch as PNG.
func Encode(w io.Writer, ch chart.Chart) error {
	return ch.Render(chart.PNG, w)
}

// Chart builds the chart for curve. Each run of consecutive non-gap samples
// becomes its own series so that gaps show as breaks in the line.
func Chart(curve *plot.Curve, width, height int) (chart.Chart, error) {
	segments := Segments(curve.Samples)
	if len(segments) == 0 {
		return chart.Chart{}, ErrNothingToPlot
	}

	style := chart.Style{StrokeColor: curveColor, StrokeWidth: 2}
	series := make([]chart.Series, 0, len(segments))
	lo, hi := segments[0][0].Y, segments[0][0].Y
	for i, seg := range segments {
		xs := make([]float64, len(seg))
		ys := make([]float64, len(seg))
		for j, s := range seg {
			xs[j], ys[j] = s.X, s.Y
			lo, hi = min(lo, s.Y), max(hi, s.Y)
		}
		st := style
		if len(seg) == 1 { // a lone point has no line to stroke
			st.DotColor = curveColor
			st.DotWidth = 3
		}
		cs := chart.ContinuousSeries{XValues: xs, YValues: ys, Style: st}
		if i == 0 {
			cs.Name = curve.SeriesName()
		}
		series = append(series, cs)
	}

	// go-chart refuses a zero-height range, which a constant curve has.
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}

	return chart.Chart{
		Title:  curve.Label,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "x",
			Range: &chart.ContinuousRange{Min: plot.DomainStart, Max: plot.DomainStop},
		},
		YAxis: chart.YAxis{
			Name:  "y",
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}, nil
}

// Segments splits samples into runs without gaps.
func Segments(samples []plot.Sample) [][]plot.Sample {
	var segments [][]plot.Sample
	var run []plot.Sample
	for _, s := range samples {
		if s.Gap {
			if len(run) > 0 {
				segments = append(segments, run)
				run = nil
			}
			continue
		}
		run = append(run, s)
	}
	if len(run) > 0 {
		segments = append(segments, run)
	}
	return segments
}
