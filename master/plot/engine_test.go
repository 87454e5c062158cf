package plot

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler returns canned expressions and records how it was used.
type fakeCompiler struct {
	exprs     map[string]funcExpr
	derivs    map[string]funcExpr
	evalCalls int
	mu        sync.Mutex
}

func newFakeCompiler() *fakeCompiler {
	return &fakeCompiler{
		exprs: map[string]funcExpr{
			"x^2":  pure("x^2", func(x float64) float64 { return x * x }),
			"1":    pure("1", func(float64) float64 { return 1 }),
			"1/x":  pure("1/x", func(x float64) float64 { return 1 / x }),
			"tanx": pure("tan(x)", math.Tan),
		},
		derivs: map[string]funcExpr{
			"x^2": pure("2*x", func(x float64) float64 { return 2 * x }),
		},
	}
}

func (c *fakeCompiler) Parse(text string) (Expression, error) {
	e, ok := c.exprs[text]
	if !ok {
		return nil, errors.New("unbalanced parentheses")
	}
	return c.counting(e), nil
}

func (c *fakeCompiler) Differentiate(e Expression, variable string) (Expression, error) {
	d, ok := c.derivs[e.String()]
	if !ok {
		return nil, errors.New("no derivative")
	}
	return c.counting(d), nil
}

func (c *fakeCompiler) counting(e funcExpr) funcExpr {
	inner := e.f
	e.f = func(x float64) (float64, error) {
		c.mu.Lock()
		c.evalCalls++
		c.mu.Unlock()
		return inner(x)
	}
	return e
}

type recordedObservation struct {
	mode    Mode
	outcome string
	gaps    int
}

type fakeObserver struct {
	seen []recordedObservation
}

func (o *fakeObserver) ObserveVisualize(mode Mode, outcome string, gaps int, elapsed time.Duration) {
	o.seen = append(o.seen, recordedObservation{mode, outcome, gaps})
}

func sampleAt(t *testing.T, curve *Curve, x float64) Sample {
	t.Helper()
	i := int(math.Round((x - DomainStart) / DomainStep))
	require.InDelta(t, x, curve.Samples[i].X, 1e-9)
	return curve.Samples[i]
}

func TestEngine_ValueMode(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("x^2", ModeValue)
	require.NoError(t, err)

	assert.Equal(t, "f(x) = x^2", curve.Label)
	assert.Equal(t, ModeValue, curve.Mode)
	require.Len(t, curve.Samples, 1001)

	grid := DomainGrid()
	for i, s := range curve.Samples {
		assert.Equal(t, grid[i], s.X)
		assert.False(t, s.Gap)
		assert.InDelta(t, s.X*s.X, s.Y, 1e-9)
	}
	assert.InDelta(t, 4.0, sampleAt(t, curve, -2).Y, 1e-9)
	assert.InDelta(t, 0.0, sampleAt(t, curve, 0).Y, 1e-9)
	assert.InDelta(t, 9.0, sampleAt(t, curve, 3).Y, 1e-9)
}

func TestEngine_DerivativeMode(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("x^2", ModeDerivative)
	require.NoError(t, err)
	assert.Equal(t, "f'(x) = 2*x", curve.Label)
	assert.InDelta(t, 10.0, sampleAt(t, curve, 5).Y, 1e-9)
	assert.Equal(t, "Derivative of x^2", curve.SeriesName())
}

func TestEngine_IntegralMode(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("1", ModeIntegral)
	require.NoError(t, err)
	assert.Equal(t, IntegralLabel, curve.Label)
	require.Len(t, curve.Samples, 1001)

	assert.Equal(t, 0.0, curve.Samples[0].Y)
	assert.InDelta(t, 10.0, sampleAt(t, curve, 0).Y, 1e-9)
	for _, s := range curve.Samples {
		assert.InDelta(t, s.X-DomainStart, s.Y, 1e-9)
	}
}

func TestEngine_PoleBecomesGap(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("1/x", ModeValue)
	require.NoError(t, err)
	assert.True(t, sampleAt(t, curve, 0).Gap)
	assert.Equal(t, 1, curve.Gaps())
	assert.InDelta(t, 0.5, sampleAt(t, curve, 2).Y, 1e-9)
}

func TestEngine_IntegralOfPoleFails(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("1/x", ModeIntegral)
	assert.Nil(t, curve)
	assert.ErrorIs(t, err, ErrPointEvaluation)
	assert.True(t, IsRequestError(err))
}

func TestEngine_CompileErrorSkipsSampling(t *testing.T) {
	compiler := newFakeCompiler()
	engine := NewEngine(compiler)

	curve, err := engine.Visualize("(x+1", ModeValue)
	assert.Nil(t, curve)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompile)
	assert.True(t, IsRequestError(err))

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "(x+1", ce.Text)
	assert.Equal(t, 0, compiler.evalCalls)
}

func TestEngine_EmptyExpression(t *testing.T) {
	compiler := newFakeCompiler()
	engine := NewEngine(compiler)

	_, err := engine.Visualize("   ", ModeValue)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Equal(t, 0, compiler.evalCalls)
}

func TestEngine_DerivativeFailureIsCompileError(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	_, err := engine.Visualize("1", ModeDerivative)
	assert.ErrorIs(t, err, ErrCompile)
}

func TestEngine_UnknownMode(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	_, err := engine.Visualize("x^2", Mode(42))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	for _, mode := range Modes {
		first, err := engine.Visualize("x^2", mode)
		require.NoError(t, err)
		second, err := engine.Visualize("x^2", mode)
		require.NoError(t, err)
		assert.Equal(t, first.Samples, second.Samples, "mode %s", mode)
	}
}

func TestEngine_StatsAndObserver(t *testing.T) {
	observer := &fakeObserver{}
	engine := NewEngine(newFakeCompiler(), WithObserver(observer), WithLogger(nil))

	_, _ = engine.Visualize("x^2", ModeValue)
	_, _ = engine.Visualize("1/x", ModeValue)
	_, _ = engine.Visualize("1/x", ModeIntegral)
	_, _ = engine.Visualize("nope", ModeDerivative)
	_, _ = engine.Visualize("x^2", Mode(9))

	stats := engine.Stats()
	assert.Equal(t, 5, stats.TotalRequests)
	assert.Equal(t, 1, stats.CompileErrors)
	assert.Equal(t, 1, stats.EvaluationErrors)
	assert.Equal(t, 1, stats.InvalidModes)
	assert.Equal(t, 1, stats.GapSamples)
	assert.Equal(t, map[string]int{"function": 2, "integral": 1, "derivative": 1}, stats.RequestsByMode)

	// The returned map is a copy.
	stats.RequestsByMode["function"] = 100
	assert.Equal(t, 2, engine.Stats().RequestsByMode["function"])

	require.Len(t, observer.seen, 5)
	assert.Equal(t, recordedObservation{ModeValue, OutcomeOK, 0}, observer.seen[0])
	assert.Equal(t, recordedObservation{ModeValue, OutcomeOK, 1}, observer.seen[1])
	assert.Equal(t, recordedObservation{ModeIntegral, OutcomeEvaluationError, 0}, observer.seen[2])
	assert.Equal(t, recordedObservation{ModeDerivative, OutcomeCompileError, 0}, observer.seen[3])
	assert.Equal(t, OutcomeInvalidMode, observer.seen[4].outcome)
}

func TestEngine_IntegralFilteredPastThreshold(t *testing.T) {
	engine := NewEngine(newFakeCompiler())

	curve, err := engine.Visualize("x^2", ModeIntegral)
	require.NoError(t, err)

	grid := DomainGrid()
	require.Len(t, curve.Samples, len(grid))
	for i, s := range curve.Samples {
		assert.Equal(t, grid[i], s.X)
	}

	// F(x) = (x^3 + 1000) / 3 stays under 100 up to x = -9 and is past it
	// from x = -8 on.
	for _, s := range curve.Samples[:51] {
		require.False(t, s.Gap, "x=%g", s.X)
		assert.InDelta(t, (s.X*s.X*s.X+1000)/3, s.Y, 1e-3, "x=%g", s.X)
	}
	for _, s := range curve.Samples[100:] {
		assert.True(t, s.Gap, "x=%g", s.X)
		assert.Zero(t, s.Y)
	}
	assert.Equal(t, curve.Gaps(), engine.Stats().GapSamples)
}

func TestEngine_VisualizeNamed(t *testing.T) {
	observer := &fakeObserver{}
	engine := NewEngine(newFakeCompiler(), WithObserver(observer))

	curve, err := engine.VisualizeNamed("x^2", "derivative")
	require.NoError(t, err)
	assert.Equal(t, ModeDerivative, curve.Mode)

	curve, err = engine.VisualizeNamed("x^2", "")
	require.NoError(t, err)
	assert.Equal(t, ModeValue, curve.Mode)

	curve, err = engine.VisualizeNamed("x^2", "area")
	assert.Nil(t, curve)
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.True(t, IsRequestError(err))

	stats := engine.Stats()
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 1, stats.InvalidModes)
	assert.Equal(t, map[string]int{"derivative": 1, "function": 1}, stats.RequestsByMode)

	require.Len(t, observer.seen, 3)
	assert.Equal(t, OutcomeInvalidMode, observer.seen[2].outcome)
	assert.False(t, observer.seen[2].mode.valid())
}
