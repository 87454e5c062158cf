package expr

import "math"

// The constructors below fold constants and drop identity terms so that
// derivatives come out in a readable form. They never change where an
// expression is defined, except that 0*u folds to 0.

func add(a, b Node) Node {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{an.V + bn.V}
	case aok && an.V == 0:
		return b
	case bok && bn.V == 0:
		return a
	case bok && bn.V < 0:
		return Sub{a, Num{-bn.V}}
	}
	if bneg, ok := b.(Neg); ok {
		return sub(a, bneg.Arg)
	}
	if aneg, ok := a.(Neg); ok {
		return sub(b, aneg.Arg)
	}
	return Add{a, b}
}

func sub(a, b Node) Node {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{an.V - bn.V}
	case bok && bn.V == 0:
		return a
	case aok && an.V == 0:
		return neg(b)
	case bok && bn.V < 0:
		return Add{a, Num{-bn.V}}
	}
	if bneg, ok := b.(Neg); ok {
		return add(a, bneg.Arg)
	}
	if a.String() == b.String() {
		return Num{0}
	}
	return Sub{a, b}
}

func mul(a, b Node) Node {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{an.V * bn.V}
	case (aok && an.V == 0) || (bok && bn.V == 0):
		return Num{0}
	case aok && an.V == 1:
		return b
	case bok && bn.V == 1:
		return a
	case aok && an.V == -1:
		return neg(b)
	case bok && bn.V == -1:
		return neg(a)
	case bok:
		// coefficient first
		return mul(b, a)
	}
	if aneg, ok := a.(Neg); ok {
		return neg(mul(aneg.Arg, b))
	}
	if bneg, ok := b.(Neg); ok {
		return neg(mul(a, bneg.Arg))
	}
	if aok {
		if an.V < 0 {
			return neg(mul(Num{-an.V}, b))
		}
		if bm, ok := b.(Mul); ok {
			if c, ok := bm.L.(Num); ok {
				return mul(Num{an.V * c.V}, bm.R)
			}
		}
	}
	if bm, ok := b.(Mul); ok {
		if c, ok := bm.L.(Num); ok {
			return mul(c, mul(a, bm.R))
		}
	}
	return Mul{a, b}
}

func div(a, b Node) Node {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	switch {
	case aok && bok && bn.V != 0:
		return Num{an.V / bn.V}
	case bok && bn.V == 1:
		return a
	case bok && bn.V == -1:
		return neg(a)
	}
	if aneg, ok := a.(Neg); ok {
		return neg(div(aneg.Arg, b))
	}
	if aok && an.V < 0 {
		return neg(div(Num{-an.V}, b))
	}
	return Div{a, b}
}

func pow(a, b Node) Node {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	if aok && bok {
		if v := math.Pow(an.V, bn.V); !math.IsNaN(v) && !math.IsInf(v, 0) {
			return Num{v}
		}
	}
	switch {
	case bok && bn.V == 0:
		return Num{1}
	case bok && bn.V == 1:
		return a
	case aok && an.V == 1:
		return Num{1}
	}
	if ap, ok := a.(Pow); ok && bok {
		if e, ok := ap.Exp.(Num); ok && e.V == math.Trunc(e.V) && bn.V == math.Trunc(bn.V) {
			return pow(ap.Base, Num{e.V * bn.V})
		}
	}
	return Pow{a, b}
}

func neg(a Node) Node {
	switch n := a.(type) {
	case Num:
		return Num{-n.V}
	case Neg:
		return n.Arg
	}
	return Neg{a}
}

func call(name string, arg Node) Node {
	var x float64
	switch a := arg.(type) {
	case Num:
		x = a.V
	case Const:
		if a.Name == "e" && (name == "ln" || name == "log") {
			return Num{1}
		}
		x = a.V
	default:
		return Call{Name: name, Arg: arg}
	}
	if fn, ok := functions[name]; ok {
		if v, err := fn.eval(x); err == nil && v == math.Trunc(v) && !math.IsInf(v, 0) {
			return Num{v}
		}
	}
	return Call{Name: name, Arg: arg}
}

func isZero(n Node) bool {
	v, ok := n.(Num)
	return ok && v.V == 0
}

// Simplify rebuilds n through the folding constructors.
func Simplify(n Node) Node {
	switch t := n.(type) {
	case Add:
		return add(Simplify(t.L), Simplify(t.R))
	case Sub:
		return sub(Simplify(t.L), Simplify(t.R))
	case Mul:
		return mul(Simplify(t.L), Simplify(t.R))
	case Div:
		return div(Simplify(t.L), Simplify(t.R))
	case Pow:
		return pow(Simplify(t.Base), Simplify(t.Exp))
	case Neg:
		return neg(Simplify(t.Arg))
	case Call:
		return call(t.Name, Simplify(t.Arg))
	}
	return n
}
