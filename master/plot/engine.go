package plot

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Outcomes reported to an Observer.
const (
	OutcomeOK              = "ok"
	OutcomeCompileError    = "compile_error"
	OutcomeEvaluationError = "evaluation_error"
	OutcomeInvalidMode     = "invalid_mode"
)

// Curve is the result of one visualize request.
type Curve struct {
	Mode Mode
	// Text is the formula as the user typed it.
	Text    string
	Label   string
	Samples []Sample
}

// Gaps counts the samples that render as breaks.
func (c *Curve) Gaps() int {
	n := 0
	for _, s := range c.Samples {
		if s.Gap {
			n++
		}
	}
	return n
}

// SeriesName returns the legend entry for the curve.
func (c *Curve) SeriesName() string { return SeriesName(c.Mode, c.Text) }

// Observer receives one call per visualize request.
type Observer interface {
	ObserveVisualize(mode Mode, outcome string, gaps int, elapsed time.Duration)
}

// Engine samples expressions over the fixed domain. It holds no state that
// affects results; the mutex only guards request statistics.
type Engine struct {
	compiler Compiler
	logger   *slog.Logger
	observer Observer

	statsMutex sync.Mutex
	stats      Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards output, and a
// nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver attaches an observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func NewEngine(compiler Compiler, opts ...Option) *Engine {
	e := &Engine{
		compiler: compiler,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats:    newStats(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Visualize compiles text and samples it in the given mode. A compile
// failure returns before any sampling. In integral mode a point where the
// function is undefined fails the request; in the other modes such points
// become gaps.
func (e *Engine) Visualize(text string, mode Mode) (*Curve, error) {
	start := time.Now()
	curve, err := e.visualize(strings.TrimSpace(text), mode)
	return e.finish(text, mode, start, curve, err)
}

// VisualizeNamed is Visualize with the mode given by its wire name, as the
// transports receive it. An unknown name fails with ErrUnknownMode and is
// counted as an invalid-mode request.
func (e *Engine) VisualizeNamed(text, modeName string) (*Curve, error) {
	mode, err := ParseMode(modeName)
	if err != nil {
		return e.finish(text, modeInvalid, time.Now(), nil, err)
	}
	return e.Visualize(text, mode)
}

// modeInvalid stands in for a mode name that did not parse.
const modeInvalid Mode = -1

func (e *Engine) finish(text string, mode Mode, start time.Time, curve *Curve, err error) (*Curve, error) {
	outcome := OutcomeOK
	gaps := 0
	switch {
	case errors.Is(err, ErrUnknownMode):
		outcome = OutcomeInvalidMode
	case errors.Is(err, ErrCompile):
		outcome = OutcomeCompileError
	case errors.Is(err, ErrPointEvaluation):
		outcome = OutcomeEvaluationError
	case err == nil:
		gaps = curve.Gaps()
	}
	elapsed := time.Since(start)

	e.record(mode, outcome, gaps)
	if e.observer != nil {
		e.observer.ObserveVisualize(mode, outcome, gaps, elapsed)
	}

	if err != nil {
		e.logger.Debug("visualize failed", "mode", mode, "function", text, "error", err)
		return nil, err
	}
	e.logger.Info("visualized", "mode", mode, "function", curve.Text,
		"samples", len(curve.Samples), "gaps", gaps, "elapsed", elapsed)
	return curve, nil
}

func (e *Engine) visualize(text string, mode Mode) (*Curve, error) {
	if !mode.valid() {
		return nil, ErrUnknownMode
	}
	if text == "" {
		return nil, &CompileError{Text: text, Err: errors.New("empty expression")}
	}

	fn, err := e.compiler.Parse(text)
	if err != nil {
		return nil, &CompileError{Text: text, Err: err}
	}

	curve := &Curve{Mode: mode, Text: text}
	grid := DomainGrid()

	switch mode {
	case ModeValue:
		curve.Label = FormatLabel(mode, fn.String(), "")
		curve.Samples = sampleEach(fn, grid)

	case ModeDerivative:
		deriv, err := e.compiler.Differentiate(fn, "x")
		if err != nil {
			return nil, &CompileError{Text: text, Err: err}
		}
		curve.Label = FormatLabel(mode, fn.String(), deriv.String())
		curve.Samples = sampleEach(deriv, grid)

	case ModeIntegral:
		acc, err := Integrate(fn, grid)
		if err != nil {
			return nil, err
		}
		curve.Label = FormatLabel(mode, fn.String(), "")
		curve.Samples = make([]Sample, len(grid))
		for i, x := range grid {
			curve.Samples[i] = filtered(x, acc[i])
		}
	}

	return curve, nil
}
