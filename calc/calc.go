// Package calc evaluates arithmetic expressions for the calculator tab.
//
// Supported: decimal numbers, + - * / % ^ and parentheses. ^ binds
// tightest and is right-associative, and may follow a number or a
// parenthesised expression; * / % bind tighter than + -. Any Unicode space
// is ignored. There is no unary minus.
package calc

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrNotReady          = errors.New("calculator not initialized")
)

// Evaluator rejects every call until Init has completed once.
type Evaluator struct {
	once  sync.Once
	ready atomic.Bool
}

// Init prepares the evaluator. Only the first call does any work; it can
// run on any goroutine.
func (e *Evaluator) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.once.Do(func() {
		e.ready.Store(true)
	})
	return nil
}

func (e *Evaluator) Ready() bool {
	return e.ready.Load()
}

// Evaluate returns the rounded value of expr, ErrNotReady before Init, or
// ErrInvalidExpression.
func (e *Evaluator) Evaluate(expr string) (float64, error) {
	if !e.Ready() {
		return 0, ErrNotReady
	}
	v := Calculate(expr)
	if math.IsNaN(v) {
		return 0, ErrInvalidExpression
	}
	return v, nil
}

// Calculate evaluates expr and rounds to five decimal places. Any syntax
// error, stray character, trailing input, or division or modulo by zero
// yields NaN.
func Calculate(expr string) float64 {
	var b strings.Builder
	for _, r := range expr {
		switch {
		case unicode.IsSpace(r):
			continue
		case r >= '0' && r <= '9', strings.ContainsRune("+-*/%^.()", r):
			b.WriteRune(r)
		default:
			return math.NaN()
		}
	}

	p := &parser{src: b.String()}
	v := p.expression()
	if p.pos < len(p.src) {
		return math.NaN()
	}
	return math.Round(v*1e5) / 1e5
}

type parser struct {
	src string
	pos int
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) expression() float64 {
	v := p.term()
	for {
		switch p.peek() {
		case '+':
			p.pos++
			v += p.term()
		case '-':
			p.pos++
			v -= p.term()
		default:
			return v
		}
	}
}

func (p *parser) term() float64 {
	v := p.power()
	for {
		switch p.peek() {
		case '*':
			p.pos++
			v *= p.power()
		case '/':
			p.pos++
			d := p.power()
			if d == 0 {
				return math.NaN()
			}
			v /= d
		case '%':
			p.pos++
			d := p.power()
			if d == 0 {
				return math.NaN()
			}
			v = math.Mod(v, d)
		default:
			return v
		}
	}
}

func (p *parser) power() float64 {
	base := p.operand()
	if p.peek() == '^' {
		p.pos++
		return math.Pow(base, p.power())
	}
	return base
}

func (p *parser) operand() float64 {
	if p.peek() == '(' {
		p.pos++
		v := p.expression()
		if p.peek() != ')' {
			return math.NaN()
		}
		p.pos++
		return v
	}

	start := p.pos
	for c := p.peek(); (c >= '0' && c <= '9') || c == '.'; c = p.peek() {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
