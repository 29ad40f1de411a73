// Package eval 实现一个受限的算术表达式求值器，用于计算复杂题的标准答案。
// 只支持数字、括号、一元正负号、加减乘除和固定的函数白名单，
// 不解析变量、不执行任何代码。变量必须在求值前由出题逻辑代入成数字。
package eval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type builtin struct {
	arity int
	fn    func(args []float64) float64
}

var builtins = map[string]builtin{
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"round": {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
}

// Evaluate 求值整个表达式。语法错误、未知标识符、除零和
// 非有限结果都返回错误
func Evaluate(input string) (float64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, errors.New("empty expression")
	}

	p := &parser{input: input}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("expression result is not a finite number")
	}

	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		op := p.peek()
		if op != '+' && op != '-' {
			return v, nil
		}
		p.pos++

		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		op := p.peek()
		if op != '*' && op != '/' {
			return v, nil
		}
		p.pos++

		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			v *= rhs
		} else {
			if rhs == 0 {
				return 0, errors.New("division by zero")
			}
			v /= rhs
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()

	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return v, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case isIdentStart(c):
		return p.parseCall()
	}

	if c == 0 {
		return 0, errors.New("unexpected end of expression")
	}
	return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}

	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q at position %d", p.input[start:p.pos], start)
	}
	return v, nil
}

func (p *parser) parseCall() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]

	fn, ok := builtins[name]
	if !ok {
		return 0, fmt.Errorf("unknown identifier %q at position %d", name, start)
	}

	p.skipSpaces()
	if p.peek() != '(' {
		return 0, fmt.Errorf("expected '(' after function %q", name)
	}
	p.pos++

	args := make([]float64, 0, fn.arity)
	for {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		args = append(args, v)

		p.skipSpaces()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}

	if p.peek() != ')' {
		return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
	}
	p.pos++

	if len(args) != fn.arity {
		return 0, fmt.Errorf("function %q expects %d arguments, got %d", name, fn.arity, len(args))
	}

	return fn.fn(args), nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
