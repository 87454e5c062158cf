package expr

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("syntax error")

// ErrDomain is wrapped by every evaluation outside a function's domain.
var ErrDomain = errors.New("outside function domain")

// SyntaxError reports a malformed formula. Offset is the byte offset of the
// offending token in the input.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// DomainError reports an operation applied outside its domain, such as a
// division by zero or the logarithm of a negative number.
type DomainError struct {
	Op  string
	Arg float64
}

func (e *DomainError) Error() string {
	if e.Op == "/" {
		return "division by zero"
	}
	return e.Op + " undefined for " + strconv.FormatFloat(e.Arg, 'g', -1, 64)
}

func (e *DomainError) Unwrap() error { return ErrDomain }
