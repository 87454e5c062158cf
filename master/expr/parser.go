package expr

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// Variable is the only free variable a formula may use.
const Variable = "x"

// tokPow is the token for both '^' and '**'.
const tokPow = -100

// MaxDepth bounds how deeply groups, calls and unary operators may nest.
const MaxDepth = 1000

type parser struct {
	s     scanner.Scanner
	src   string
	tok   rune
	lit   string
	pos   int
	depth int
	err   error
}

// Parse parses a formula in x. Both '^' and '**' denote exponentiation, and
// a number or parenthesised group directly followed by an identifier or '('
// is an implicit product ("2x", "3(x+1)").
func Parse(text string) (node Node, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SyntaxError{Offset: 0, Msg: "empty expression"}
	}

	p := &parser{src: text}
	p.s.Init(strings.NewReader(text))
	// Numbers are lexed by scanNumber so that "2e^x" is 2*e^x.
	p.s.Mode = scanner.ScanIdents
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = &SyntaxError{Offset: s.Pos().Offset, Msg: msg}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			node, err = nil, se
		}
	}()

	p.next()
	node = p.sum()
	if p.tok != scanner.EOF {
		p.fail("unexpected %s", p.describe())
	}
	if p.err != nil {
		return nil, p.err
	}
	return node, nil
}

func (p *parser) next() {
	for isSpace(p.s.Peek()) {
		p.s.Next()
	}
	if c := p.s.Peek(); isDigit(c) || c == '.' {
		p.pos = p.s.Pos().Offset
		p.tok, p.lit = scanner.Float, p.scanNumber()
		return
	}

	p.tok = p.s.Scan()
	p.lit = p.s.TokenText()
	p.pos = p.s.Position.Offset
	if !p.s.Position.IsValid() {
		p.pos = p.s.Pos().Offset
	}
	switch {
	case p.tok == '^':
		p.tok = tokPow
	case p.tok == '*' && p.s.Peek() == '*':
		p.s.Next()
		p.tok = tokPow
	}
	if p.err != nil {
		panic(p.err)
	}
}

// scanNumber consumes digits [. digits] [e [+-] digits]. The exponent is
// only taken when a digit follows it, otherwise the e starts the next token.
func (p *parser) scanNumber() string {
	rest := p.src[p.pos:]
	i := 0
	digits := func() {
		for i < len(rest) && isDigit(rune(rest[i])) {
			i++
		}
	}
	digits()
	if i < len(rest) && rest[i] == '.' {
		i++
		digits()
	}
	if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
		j := i + 1
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			j++
		}
		if j < len(rest) && isDigit(rune(rest[j])) {
			i = j
			digits()
		}
	}
	for range i {
		p.s.Next()
	}
	return rest[:i]
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isSpace(c rune) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func (p *parser) fail(format string, args ...any) {
	panic(&SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) describe() string {
	switch p.tok {
	case scanner.EOF:
		return "end of input"
	case tokPow:
		return `"^"`
	}
	return strconv.Quote(p.lit)
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected %q, found %s", tok, p.describe())
	}
	p.next()
}

// sum := term (('+'|'-') term)*
func (p *parser) sum() Node {
	n := p.term()
	for {
		switch p.tok {
		case '+':
			p.next()
			n = Add{n, p.term()}
		case '-':
			p.next()
			n = Sub{n, p.term()}
		default:
			return n
		}
	}
}

// term := unary (('*'|'/') unary | implicit)*
func (p *parser) term() Node {
	n := p.unary()
	for {
		switch p.tok {
		case '*':
			p.next()
			n = Mul{n, p.unary()}
		case '/':
			p.next()
			n = Div{n, p.unary()}
		case scanner.Ident, '(':
			n = Mul{n, p.power()}
		default:
			return n
		}
	}
}

// unary := ('+'|'-') unary | power
//
// Every recursive path of the grammar passes through unary, so this is
// where nesting is bounded.
func (p *parser) unary() Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		p.fail("expression nested too deeply")
	}

	switch p.tok {
	case '-':
		p.next()
		return Neg{p.unary()}
	case '+':
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := atom ('^' unary)?
func (p *parser) power() Node {
	base := p.atom()
	if p.tok == tokPow {
		p.next()
		return Pow{base, p.unary()}
	}
	return base
}

func (p *parser) atom() Node {
	switch p.tok {
	case scanner.Float:
		v, err := strconv.ParseFloat(p.lit, 64)
		if err != nil {
			p.fail("invalid number %s", p.describe())
		}
		p.next()
		return Num{v}
	case scanner.Ident:
		name := p.lit
		if name == Variable {
			p.next()
			return Var{Name: name}
		}
		if v, ok := constants[name]; ok {
			p.next()
			return Const{Name: name, V: v}
		}
		if _, ok := functions[name]; ok {
			p.next()
			p.expect('(')
			arg := p.sum()
			p.expect(')')
			return Call{Name: name, Arg: arg}
		}
		p.fail("unknown identifier %q", name)
	case '(':
		p.next()
		n := p.sum()
		p.expect(')')
		return n
	}
	p.fail("unexpected %s", p.describe())
	return nil
}
