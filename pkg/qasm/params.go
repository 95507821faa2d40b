package qasm

import (
	"math"
	"strconv"
	"strings"
)

// maxExprDepth bounds parenthesis and unary nesting in a parameter.
const maxExprDepth = 64

// exprFuncs are the unary functions of OpenQASM 2.0 expressions.
var exprFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

// parseParam evaluates a gate parameter expression.
//
// The grammar is that of OpenQASM 2.0 real expressions: numbers, pi, unary
// + and -, the binary operators + - * / ^, parentheses and the functions
// sin, cos, tan, exp, ln and sqrt. A number directly followed by pi is a
// product, so "2pi" reads as 2*pi. Results that are not finite are rejected.
func parseParam(s string) (float64, bool) {
	e := &exprParser{src: strings.ToLower(s)}
	v, ok := e.sum()
	if !ok {
		return 0, false
	}
	e.skipSpace()
	if e.pos != len(e.src) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type exprParser struct {
	src   string
	pos   int
	depth int
}

func (e *exprParser) skipSpace() {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t' || e.src[e.pos] == '\n' || e.src[e.pos] == '\r') {
		e.pos++
	}
}

// accept consumes c if it is the next non-space byte.
func (e *exprParser) accept(c byte) bool {
	e.skipSpace()
	if e.pos < len(e.src) && e.src[e.pos] == c {
		e.pos++
		return true
	}
	return false
}

// sum := product (('+' | '-') product)*
func (e *exprParser) sum() (float64, bool) {
	v, ok := e.product()
	for ok {
		switch {
		case e.accept('+'):
			var w float64
			w, ok = e.product()
			v += w
		case e.accept('-'):
			var w float64
			w, ok = e.product()
			v -= w
		default:
			return v, true
		}
	}
	return 0, false
}

// product := unary (('*' | '/') unary)*
func (e *exprParser) product() (float64, bool) {
	v, ok := e.unary()
	for ok {
		switch {
		case e.accept('*'):
			var w float64
			w, ok = e.unary()
			v *= w
		case e.accept('/'):
			var w float64
			w, ok = e.unary()
			if w == 0 {
				return 0, false
			}
			v /= w
		default:
			return v, true
		}
	}
	return 0, false
}

// unary := ('+' | '-') unary | power
func (e *exprParser) unary() (float64, bool) {
	if e.depth++; e.depth > maxExprDepth {
		return 0, false
	}
	defer func() { e.depth-- }()

	switch {
	case e.accept('-'):
		v, ok := e.unary()
		return -v, ok
	case e.accept('+'):
		return e.unary()
	}
	return e.power()
}

// power := primary ('^' unary)?
func (e *exprParser) power() (float64, bool) {
	v, ok := e.primary()
	if !ok {
		return 0, false
	}
	if e.accept('^') {
		w, ok := e.unary()
		if !ok {
			return 0, false
		}
		return math.Pow(v, w), true
	}
	return v, true
}

// primary := number ['pi'] | 'pi' | func '(' sum ')' | '(' sum ')'
func (e *exprParser) primary() (float64, bool) {
	e.skipSpace()
	if e.pos >= len(e.src) {
		return 0, false
	}
	c := e.src[e.pos]
	switch {
	case c == '(':
		e.pos++
		v, ok := e.sum()
		if !ok || !e.accept(')') {
			return 0, false
		}
		return v, true
	case isDigit(c) || c == '.':
		v, ok := e.number()
		if ok && e.peekIdent() == "pi" {
			e.pos += len("pi")
			v *= math.Pi
		}
		return v, ok
	case isLetter(c):
		name := e.peekIdent()
		e.pos += len(name)
		if name == "pi" {
			return math.Pi, true
		}
		fn, known := exprFuncs[name]
		if !known || !e.accept('(') {
			return 0, false
		}
		v, ok := e.sum()
		if !ok || !e.accept(')') {
			return 0, false
		}
		return fn(v), true
	}
	return 0, false
}

func (e *exprParser) number() (float64, bool) {
	start := e.pos
	for e.pos < len(e.src) && (isDigit(e.src[e.pos]) || e.src[e.pos] == '.') {
		e.pos++
	}
	if e.pos < len(e.src) && e.src[e.pos] == 'e' {
		end := e.pos + 1
		if end < len(e.src) && (e.src[end] == '+' || e.src[end] == '-') {
			end++
		}
		if end < len(e.src) && isDigit(e.src[end]) {
			for end < len(e.src) && isDigit(e.src[end]) {
				end++
			}
			e.pos = end
		}
	}
	v, err := strconv.ParseFloat(e.src[start:e.pos], 64)
	return v, err == nil
}

// peekIdent returns the identifier at the current position without
// consuming it.
func (e *exprParser) peekIdent() string {
	end := e.pos
	for end < len(e.src) && (isLetter(e.src[end]) || isDigit(e.src[end]) || e.src[end] == '_') {
		end++
	}
	return e.src[e.pos:end]
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

// splitParams separates a parenthesized parameter list from the arguments
// that follow it. The list may itself contain parentheses. ok is false when
// the parentheses do not balance.
func splitParams(s string) (params, rest string, ok bool) {
	if !strings.HasPrefix(s, "(") {
		return "", s, true
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// splitTopLevel splits s on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// piForms are the multiples of pi written symbolically.
var piForms = []struct {
	value   float64
	display string
}{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// formatParam formats a parameter, using pi notation for common fractions.
func formatParam(val float64) string {
	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
