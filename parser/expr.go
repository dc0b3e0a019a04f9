// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strconv"

	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/token"
)

func binaryPrec(t token.Token) int {
	switch t {
	case token.Nullish, token.LogicalOr:
		return 1
	case token.LogicalAnd:
		return 2
	case token.Pipe:
		return 3
	case token.Caret:
		return 4
	case token.Amp:
		return 5
	case token.Equal, token.NotEqual, token.StrictEqual, token.StrictNotEqual:
		return 6
	case token.Less, token.Greater, token.LessEqual, token.GreaterEqual,
		token.Instanceof, token.In:
		return 7
	case token.Add, token.Sub:
		return 9
	case token.Mul, token.Div, token.Rem:
		return 10
	case token.Pow:
		return 11
	}
	return 0
}

var assignOps = map[token.Token]bool{
	token.Assign:    true,
	token.AddAssign: true,
	token.SubAssign: true,
	token.MulAssign: true,
	token.DivAssign: true,
	token.RemAssign: true,
}

func (p *Parser) parseExpr() expr.Expr {
	if p.tok == token.Yield {
		return p.parseYield()
	}
	pos := p.pos
	left := p.parseBinaryExpr(1)
	if assignOps[p.tok] {
		op := p.tok
		p.next()
		right := p.parseExpr()
		return &expr.Assign{Position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseYield() expr.Expr {
	pos := p.pos
	p.expect(token.Yield)
	y := &expr.Yield{Position: pos}
	if p.tok == token.Mul {
		y.Star = true
		p.next()
	}
	// A bare yield ends at a statement boundary.
	if !y.Star && (p.nlBefore || p.tok == token.Semicolon || p.tok == token.RightParen ||
		p.tok == token.RightBrace || p.tok == token.Comma || p.atEOF()) {
		return y
	}
	y.Expr = p.parseExpr()
	return y
}

func (p *Parser) parseBinaryExpr(minPrec int) expr.Expr {
	pos := p.pos
	x := p.parseUnaryExpr()
	for {
		prec := binaryPrec(p.tok)
		if prec < minPrec || prec == 0 {
			return x
		}
		op := p.tok
		p.next()
		y := p.parseBinaryExpr(prec + 1)
		x = &expr.Binary{Position: pos, Op: op, Left: x, Right: y}
	}
}

func (p *Parser) parseUnaryExpr() expr.Expr {
	pos := p.pos
	switch p.tok {
	case token.Not, token.Tilde, token.Sub, token.Add, token.Typeof,
		token.Void, token.Delete, token.Inc, token.Dec:
		op := p.tok
		p.next()
		return &expr.Unary{Position: pos, Op: op, Expr: p.parseUnaryExpr()}
	case token.Less:
		// <T>x angle-bracket assertion; relational expressions never
		// start with '<'.
		p.next()
		t := p.parseType()
		p.expect(token.Greater)
		operand := p.parseUnaryExpr()
		return &expr.Assert{Position: pos, Kind: expr.AssertAngle, Expr: operand, Type: t}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() expr.Expr {
	pos := p.pos
	x := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case token.Period:
			p.next()
			if p.tok == token.Hash {
				p.next()
				x = &expr.PrivateSelector{Position: pos, Left: x, Name: p.parseIdentName()}
				continue
			}
			x = &expr.Selector{Position: pos, Left: x, Name: p.parsePropertyName()}
		case token.QuestionDot:
			p.next()
			x = &expr.Selector{Position: pos, Left: x, Name: p.parsePropertyName(), Optional: true}
		case token.LeftBracket:
			p.next()
			idx := p.parseExpr()
			p.expect(token.RightBracket)
			x = &expr.Index{Position: pos, Left: x, Index: idx}
		case token.LeftParen:
			x = &expr.Call{Position: pos, Func: x, Args: p.parseArgs()}
		case token.Not:
			// Postfix non-null assertion; erased after parsing.
			if p.nlBefore {
				return x
			}
			p.next()
		case token.Inc, token.Dec:
			if p.nlBefore {
				return x
			}
			op := p.tok
			p.next()
			x = &expr.Unary{Position: pos, Op: op, Expr: x}
		case token.Ident:
			switch p.word() {
			case "as":
				p.next()
				if p.tok == token.Const {
					p.next()
					x = &expr.Assert{Position: pos, Kind: expr.AssertConst, Expr: x}
					continue
				}
				x = &expr.Assert{Position: pos, Kind: expr.AssertAs, Expr: x, Type: p.parseType()}
			case "satisfies":
				p.next()
				x = &expr.Assert{Position: pos, Kind: expr.AssertSatisfies, Expr: x, Type: p.parseType()}
			default:
				return x
			}
		default:
			return x
		}
	}
}

// parsePropertyName accepts identifiers and keywords used as property
// names (x.type, x.default).
func (p *Parser) parsePropertyName() string {
	if p.tok == token.Ident {
		return p.parseIdentName()
	}
	if s := p.tok.String(); s != "" && p.tok > token.Backtick {
		p.next()
		return s
	}
	p.errorf("expected property name, found %q", p.tok)
	return ""
}

func (p *Parser) parseArgs() []expr.Expr {
	p.expect(token.LeftParen)
	var args []expr.Expr
	for p.tok != token.RightParen && !p.atEOF() {
		args = append(args, p.parseExpr())
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parsePrimaryExpr() expr.Expr {
	pos := p.pos
	switch p.tok {
	case token.Ident:
		name := p.word()
		p.next()
		if p.tok == token.Arrow {
			// Single-parameter arrow function: x => …
			fn := &expr.FuncLiteral{
				Position: pos,
				Arrow:    true,
				Params:   []*expr.Param{{Position: pos, Name: name}},
			}
			p.next()
			p.parseArrowBody(fn)
			return fn
		}
		return &expr.Ident{Position: pos, Name: name}
	case token.Number:
		v := p.lit.(float64)
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.Number, Value: v}
	case token.Bigint:
		v := p.lit.(string)
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.Bigint, Value: v}
	case token.String:
		v := p.lit.(string)
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.String, Value: v}
	case token.True:
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.True, Value: true}
	case token.False:
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.False, Value: false}
	case token.Null:
		p.next()
		return &expr.BasicLiteral{Position: pos, Token: token.Null, Value: nil}
	case token.Template:
		parts := p.lit.(TemplateParts)
		p.next()
		t := &expr.TemplateLiteral{Position: pos, Texts: parts.Texts}
		for _, sub := range parts.Subs {
			t.Subs = append(t.Subs, p.parseSubExpr(sub, pos))
		}
		return t
	case token.This:
		p.next()
		return &expr.This{Position: pos}
	case token.Function:
		p.next()
		generator := false
		if p.tok == token.Mul {
			generator = true
			p.next()
		}
		name := ""
		if p.tok == token.Ident {
			name = p.parseIdentName()
		}
		return p.parseFuncRest(pos, name, generator)
	case token.New:
		p.next()
		callee := p.parseNewCallee()
		n := &expr.New{Position: pos, Func: callee}
		if p.tok == token.LeftParen {
			n.Args = p.parseArgs()
		}
		return n
	case token.LeftParen:
		if fn, ok := p.tryParseArrowFunc(); ok {
			return fn
		}
		p.next()
		inner := p.parseExpr()
		p.expect(token.RightParen)
		return &expr.Paren{Position: pos, Expr: inner}
	case token.LeftBracket:
		p.next()
		a := &expr.ArrayLiteral{Position: pos}
		for p.tok != token.RightBracket && !p.atEOF() {
			a.Elems = append(a.Elems, p.parseExpr())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.RightBracket)
		return a
	case token.LeftBrace:
		return p.parseObjectLiteral()
	}
	err := p.errorf("unexpected token %q in expression", p.tok)
	if !p.atEOF() {
		p.next()
	}
	return &expr.Bad{Position: pos, Error: err}
}

// parseNewCallee parses the constructor reference of a new expression:
// selectors and element access but not calls, so `new Foo()` attributes
// the parens to the construct.
func (p *Parser) parseNewCallee() expr.Expr {
	pos := p.pos
	x := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case token.Period:
			p.next()
			x = &expr.Selector{Position: pos, Left: x, Name: p.parsePropertyName()}
		case token.LeftBracket:
			p.next()
			idx := p.parseExpr()
			p.expect(token.RightBracket)
			x = &expr.Index{Position: pos, Left: x, Index: idx}
		default:
			return x
		}
	}
}

func (p *Parser) parseObjectLiteral() expr.Expr {
	pos := p.pos
	p.expect(token.LeftBrace)
	o := &expr.ObjectLiteral{Position: pos}
	for p.tok != token.RightBrace && !p.atEOF() {
		f := &expr.ObjectField{Position: p.pos}
		switch p.tok {
		case token.Ident:
			f.Name = p.parseIdentName()
		case token.String:
			f.Name = p.lit.(string)
			p.next()
		case token.Number:
			f.Name = formatNumber(p.lit.(float64))
			p.next()
		default:
			p.errorf("expected property name, found %q", p.tok)
			p.next()
			continue
		}
		if p.tok == token.Colon {
			p.next()
			f.Value = p.parseExpr()
		} else {
			f.Shorthand = true
			f.Value = &expr.Ident{Position: f.Position, Name: f.Name}
		}
		o.Fields = append(o.Fields, f)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RightBrace)
	return o
}

// tryParseArrowFunc speculatively parses ( params ) [: T] => body.
func (p *Parser) tryParseArrowFunc() (expr.Expr, bool) {
	sv := p.save()
	pos := p.pos
	p.next() // (
	fn := &expr.FuncLiteral{Position: pos, Arrow: true}
	for p.tok != token.RightParen && !p.atEOF() {
		prm := &expr.Param{Position: p.pos}
		if p.tok == token.Ellipsis {
			prm.Rest = true
			p.next()
		}
		if p.tok != token.Ident {
			p.restore(sv)
			return nil, false
		}
		prm.Name = p.parseIdentName()
		if p.tok == token.Question {
			prm.Optional = true
			p.next()
		}
		if p.tok == token.Colon {
			p.next()
			prm.Type = p.parseType()
		}
		if p.tok == token.Assign {
			p.next()
			prm.Default = p.parseExpr()
		}
		fn.Params = append(fn.Params, prm)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	if p.tok != token.RightParen {
		p.restore(sv)
		return nil, false
	}
	p.next()
	if p.tok == token.Colon {
		p.next()
		fn.Result = p.parseType()
	}
	if p.tok != token.Arrow {
		p.restore(sv)
		return nil, false
	}
	p.next()
	p.parseArrowBody(fn)
	return fn, true
}

func (p *Parser) parseArrowBody(fn *expr.FuncLiteral) {
	if p.tok == token.LeftBrace {
		fn.Body = p.parseBlock()
		return
	}
	fn.Body = p.parseExpr()
}

// parseSubExpr parses a template substitution captured by the scanner.
func (p *Parser) parseSubExpr(source string, pos src.Pos) expr.Expr {
	sub := &Parser{
		filename: p.filename,
		s:        newScanner(p.filename, []byte(source)),
	}
	sub.s.Line = pos.Line
	sub.next()
	e := sub.parseExpr()
	p.errs = append(p.errs, sub.errs...)
	return e
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
