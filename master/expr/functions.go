package expr

import (
	"math"

	"golang.org/x/exp/slices"
)

type function struct {
	eval func(float64) (float64, error)
	// deriv returns d/du f(u), without the inner derivative.
	deriv func(u Node) Node
}

var functions map[string]function

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func init() {
	functions = map[string]function{
		// --- Trigonometric ---
		"sin": {
			eval:  total(math.Sin),
			deriv: func(u Node) Node { return call("cos", u) },
		},
		"cos": {
			eval:  total(math.Cos),
			deriv: func(u Node) Node { return neg(call("sin", u)) },
		},
		"tan": {
			eval: func(x float64) (float64, error) {
				if math.Cos(x) == 0 {
					return 0, &DomainError{Op: "tan", Arg: x}
				}
				return math.Tan(x), nil
			},
			deriv: func(u Node) Node { return div(Num{1}, pow(call("cos", u), Num{2})) },
		},
		"asin": {
			eval:  bounded("asin", math.Asin),
			deriv: func(u Node) Node { return div(Num{1}, call("sqrt", sub(Num{1}, pow(u, Num{2})))) },
		},
		"acos": {
			eval:  bounded("acos", math.Acos),
			deriv: func(u Node) Node { return neg(div(Num{1}, call("sqrt", sub(Num{1}, pow(u, Num{2}))))) },
		},
		"atan": {
			eval:  total(math.Atan),
			deriv: func(u Node) Node { return div(Num{1}, add(Num{1}, pow(u, Num{2}))) },
		},

		// --- Hyperbolic ---
		"sinh": {
			eval:  total(math.Sinh),
			deriv: func(u Node) Node { return call("cosh", u) },
		},
		"cosh": {
			eval:  total(math.Cosh),
			deriv: func(u Node) Node { return call("sinh", u) },
		},
		"tanh": {
			eval:  total(math.Tanh),
			deriv: func(u Node) Node { return div(Num{1}, pow(call("cosh", u), Num{2})) },
		},

		// --- Exponentials and logarithms ---
		"exp": {
			eval:  total(math.Exp),
			deriv: func(u Node) Node { return call("exp", u) },
		},
		"log": {
			eval:  positive("log", math.Log),
			deriv: func(u Node) Node { return div(Num{1}, u) },
		},
		"ln": {
			eval:  positive("ln", math.Log),
			deriv: func(u Node) Node { return div(Num{1}, u) },
		},
		"sqrt": {
			eval: func(x float64) (float64, error) {
				if x < 0 {
					return 0, &DomainError{Op: "sqrt", Arg: x}
				}
				return math.Sqrt(x), nil
			},
			deriv: func(u Node) Node { return div(Num{1}, mul(Num{2}, call("sqrt", u))) },
		},

		// --- Other ---
		"abs": {
			eval:  total(math.Abs),
			deriv: func(u Node) Node { return div(u, call("abs", u)) },
		},
	}
}

func total(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return f(x), nil }
}

// positive guards functions defined only for x > 0.
func positive(name string, f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{Op: name, Arg: x}
		}
		return f(x), nil
	}
}

// bounded guards functions defined only on [-1, 1].
func bounded(name string, f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, &DomainError{Op: name, Arg: x}
		}
		return f(x), nil
	}
}

// Functions returns the names of the supported functions, sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
