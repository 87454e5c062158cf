package expr

import (
	"math"
	"strconv"
)

// Operator precedence used by String to decide where parentheses go.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// Node is a parsed expression of a single variable.
type Node interface {
	// Eval evaluates the expression with the variable bound to x.
	Eval(x float64) (float64, error)
	// Diff returns the simplified derivative with respect to variable.
	Diff(variable string) Node
	// String returns the canonical infix form.
	String() string
	precedence() int
}

// Num is a numeric literal.
type Num struct{ V float64 }

// Var is the free variable.
type Var struct{ Name string }

// Const is a named constant such as pi.
type Const struct {
	Name string
	V    float64
}

type Add struct{ L, R Node }
type Sub struct{ L, R Node }
type Mul struct{ L, R Node }
type Div struct{ L, R Node }

// Pow is Base raised to Exp, right-associative.
type Pow struct{ Base, Exp Node }

// Neg is unary minus.
type Neg struct{ Arg Node }

// Call applies one of the built-in functions to Arg.
type Call struct {
	Name string
	Arg  Node
}

func (n Num) Eval(float64) (float64, error) { return n.V, nil }
func (n Num) Diff(string) Node              { return Num{0} }
func (n Num) String() string                { return strconv.FormatFloat(n.V, 'g', -1, 64) }
func (n Num) precedence() int {
	if n.V < 0 || math.Signbit(n.V) {
		return precUnary
	}
	return precAtom
}

func (v Var) Eval(x float64) (float64, error) { return x, nil }
func (v Var) String() string                  { return v.Name }
func (v Var) precedence() int                 { return precAtom }
func (v Var) Diff(variable string) Node {
	if v.Name == variable {
		return Num{1}
	}
	return Num{0}
}

func (c Const) Eval(float64) (float64, error) { return c.V, nil }
func (c Const) Diff(string) Node              { return Num{0} }
func (c Const) String() string                { return c.Name }
func (c Const) precedence() int               { return precAtom }

func (a Add) Eval(x float64) (float64, error) {
	l, r, err := evalPair(a.L, a.R, x)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

func (a Add) Diff(v string) Node { return add(a.L.Diff(v), a.R.Diff(v)) }
func (a Add) String() string     { return binary(a.L, " + ", a.R, precSum, false) }
func (a Add) precedence() int    { return precSum }

func (s Sub) Eval(x float64) (float64, error) {
	l, r, err := evalPair(s.L, s.R, x)
	if err != nil {
		return 0, err
	}
	return l - r, nil
}

func (s Sub) Diff(v string) Node { return sub(s.L.Diff(v), s.R.Diff(v)) }
func (s Sub) String() string     { return binary(s.L, " - ", s.R, precSum, true) }
func (s Sub) precedence() int    { return precSum }

func (m Mul) Eval(x float64) (float64, error) {
	l, r, err := evalPair(m.L, m.R, x)
	if err != nil {
		return 0, err
	}
	return l * r, nil
}

// Diff applies the product rule.
func (m Mul) Diff(v string) Node {
	return add(mul(m.L.Diff(v), m.R), mul(m.L, m.R.Diff(v)))
}

func (m Mul) String() string  { return binary(m.L, "*", m.R, precProduct, false) }
func (m Mul) precedence() int { return precProduct }

func (d Div) Eval(x float64) (float64, error) {
	l, r, err := evalPair(d.L, d.R, x)
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, &DomainError{Op: "/", Arg: r}
	}
	return l / r, nil
}

// Diff applies the quotient rule. A constant numerator reduces to
// -c*g'/g^2.
func (d Div) Diff(v string) Node {
	dl, dr := d.L.Diff(v), d.R.Diff(v)
	if isZero(dr) {
		return div(dl, d.R)
	}
	return div(sub(mul(dl, d.R), mul(d.L, dr)), pow(d.R, Num{2}))
}

func (d Div) String() string  { return binary(d.L, "/", d.R, precProduct, true) }
func (d Div) precedence() int { return precProduct }

func (p Pow) Eval(x float64) (float64, error) {
	b, e, err := evalPair(p.Base, p.Exp, x)
	if err != nil {
		return 0, err
	}
	if b == 0 && e < 0 {
		return 0, &DomainError{Op: "^", Arg: b}
	}
	if b < 0 && e != math.Trunc(e) {
		return 0, &DomainError{Op: "^", Arg: b}
	}
	return math.Pow(b, e), nil
}

// Diff uses the power rule when the exponent does not depend on v and the
// general rule d(f^g) = f^g * (g'*ln(f) + g*f'/f) otherwise.
func (p Pow) Diff(v string) Node {
	db, de := p.Base.Diff(v), p.Exp.Diff(v)
	if isZero(de) {
		return mul(mul(p.Exp, pow(p.Base, sub(p.Exp, Num{1}))), db)
	}
	if isZero(db) {
		return mul(mul(p, call("ln", p.Base)), de)
	}
	return mul(p, add(mul(de, call("ln", p.Base)), div(mul(p.Exp, db), p.Base)))
}

func (p Pow) String() string {
	base := p.Base.String()
	if p.Base.precedence() <= precPower {
		base = "(" + base + ")"
	}
	exp := p.Exp.String()
	if p.Exp.precedence() < precPower {
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (p Pow) precedence() int { return precPower }

func (n Neg) Eval(x float64) (float64, error) {
	v, err := n.Arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n Neg) Diff(v string) Node { return neg(n.Arg.Diff(v)) }
func (n Neg) precedence() int    { return precUnary }
func (n Neg) String() string {
	if n.Arg.precedence() < precUnary {
		return "-(" + n.Arg.String() + ")"
	}
	return "-" + n.Arg.String()
}

func (c Call) Eval(x float64) (float64, error) {
	arg, err := c.Arg.Eval(x)
	if err != nil {
		return 0, err
	}
	fn, ok := functions[c.Name]
	if !ok {
		return 0, &DomainError{Op: c.Name, Arg: arg}
	}
	return fn.eval(arg)
}

// Diff applies the chain rule.
func (c Call) Diff(v string) Node {
	fn, ok := functions[c.Name]
	if !ok {
		return Num{math.NaN()}
	}
	return mul(fn.deriv(c.Arg), c.Arg.Diff(v))
}

func (c Call) String() string  { return c.Name + "(" + c.Arg.String() + ")" }
func (c Call) precedence() int { return precAtom }

func evalPair(l, r Node, x float64) (float64, float64, error) {
	lv, err := l.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	rv, err := r.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	return lv, rv, nil
}

// binary renders a left-associative infix operation. For non-commutative
// operators the right operand also needs parentheses at equal precedence.
func binary(l Node, op string, r Node, prec int, strictRight bool) string {
	ls := l.String()
	if l.precedence() < prec {
		ls = "(" + ls + ")"
	}
	rs := r.String()
	if r.precedence() < prec || (strictRight && r.precedence() == prec) {
		rs = "(" + rs + ")"
	}
	return ls + op + rs
}
