// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/syntax/typeexpr"
)

// keywordTypes are the predefined type names.
var keywordTypes = map[string]bool{
	"any": true, "unknown": true, "never": true, "void": true,
	"undefined": true, "null": true, "boolean": true, "number": true,
	"string": true, "bigint": true, "symbol": true, "object": true,
}

// parseTypeComment parses the payload of an inline /*: T */ binding
// annotation as a type. Errors in the payload surface like any other
// parse error.
func (p *Parser) parseTypeComment(text string) typeexpr.Type {
	sub := &Parser{filename: p.filename, s: newScanner(p.filename, []byte(text))}
	sub.next()
	t := sub.parseType()
	p.errs = append(p.errs, sub.errs...)
	return t
}

func (p *Parser) parseType() typeexpr.Type {
	pos := p.pos
	if p.tok == token.Pipe {
		p.next() // leading | in a multi-line union
	}
	first := p.parseIntersectionType()
	if p.tok != token.Pipe {
		return first
	}
	u := &typeexpr.Union{Position: pos, Members: []typeexpr.Type{first}}
	for p.tok == token.Pipe {
		p.next()
		u.Members = append(u.Members, p.parseIntersectionType())
	}
	return u
}

func (p *Parser) parseIntersectionType() typeexpr.Type {
	pos := p.pos
	first := p.parsePostfixType()
	if p.tok != token.Amp {
		return first
	}
	i := &typeexpr.Intersection{Position: pos, Members: []typeexpr.Type{first}}
	for p.tok == token.Amp {
		p.next()
		i.Members = append(i.Members, p.parsePostfixType())
	}
	return i
}

func (p *Parser) parsePostfixType() typeexpr.Type {
	pos := p.pos
	t := p.parsePrimaryType()
	for p.tok == token.LeftBracket && !p.nlBefore {
		p.next()
		if p.tok == token.RightBracket {
			p.next()
			t = &typeexpr.Array{Position: pos, Elem: t}
			continue
		}
		idx := p.parseType()
		p.expect(token.RightBracket)
		t = &typeexpr.IndexAccess{Position: pos, Object: t, Index: idx}
	}
	return t
}

func (p *Parser) parsePrimaryType() typeexpr.Type {
	pos := p.pos
	switch p.tok {
	case token.Ident:
		word := p.word()
		if keywordTypes[word] {
			p.next()
			return &typeexpr.Keyword{Position: pos, Name: word}
		}
		if word == "keyof" {
			p.next()
			return &typeexpr.KeyOf{Position: pos, Operand: p.parsePostfixType()}
		}
		return p.parseTypeRef()
	case token.Void:
		p.next()
		return &typeexpr.Keyword{Position: pos, Name: "void"}
	case token.Null:
		p.next()
		return &typeexpr.Keyword{Position: pos, Name: "null"}
	case token.Undefined:
		p.next()
		return &typeexpr.Keyword{Position: pos, Name: "undefined"}
	case token.String:
		v := p.lit.(string)
		p.next()
		return &typeexpr.Literal{Position: pos, Value: v}
	case token.Number:
		v := p.lit.(float64)
		p.next()
		return &typeexpr.Literal{Position: pos, Value: v}
	case token.Sub:
		p.next()
		if p.tok != token.Number {
			err := p.errorf("expected number after '-' in type")
			return &typeexpr.Bad{Position: pos, Error: err}
		}
		v := p.lit.(float64)
		p.next()
		return &typeexpr.Literal{Position: pos, Value: -v}
	case token.True:
		p.next()
		return &typeexpr.Literal{Position: pos, Value: true}
	case token.False:
		p.next()
		return &typeexpr.Literal{Position: pos, Value: false}
	case token.Template:
		parts := p.lit.(TemplateParts)
		p.next()
		t := &typeexpr.Template{Position: pos, Texts: parts.Texts}
		for _, sub := range parts.Subs {
			t.Types = append(t.Types, p.parseSubType(sub, pos))
		}
		return t
	case token.Typeof:
		p.next()
		q := &typeexpr.Query{Position: pos}
		q.Name = p.parseIdentName()
		for p.tok == token.Period {
			p.next()
			q.Qualifier = append(q.Qualifier, q.Name)
			q.Name = p.parseIdentName()
		}
		return q
	case token.LeftBrace:
		return p.parseObjectTypeBody()
	case token.LeftBracket:
		p.next()
		t := &typeexpr.Tuple{Position: pos}
		for p.tok != token.RightBracket && !p.atEOF() {
			t.Elems = append(t.Elems, p.parseType())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.RightBracket)
		return t
	case token.New:
		p.next()
		sig := p.parseFuncSig()
		return &typeexpr.Object{Position: pos, Constructs: []*typeexpr.FuncSig{sig}}
	case token.LeftParen:
		if fn, ok := p.tryParseFuncType(); ok {
			return fn
		}
		p.next()
		inner := p.parseType()
		p.expect(token.RightParen)
		return &typeexpr.Paren{Position: pos, Type: inner}
	}
	err := p.errorf("unexpected token %q in type", p.tok)
	if !p.atEOF() {
		p.next()
	}
	return &typeexpr.Bad{Position: pos, Error: err}
}

func (p *Parser) parseTypeRef() typeexpr.Type {
	pos := p.pos
	r := &typeexpr.Ref{Position: pos}
	r.Name = p.parseIdentName()
	for p.tok == token.Period {
		p.next()
		r.Qualifier = append(r.Qualifier, r.Name)
		r.Name = p.parseIdentName()
	}
	if p.tok == token.Less {
		p.next()
		for p.tok != token.Greater && !p.atEOF() {
			r.Args = append(r.Args, p.parseType())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.Greater)
	}
	return r
}

// tryParseFuncType speculatively parses ( params ) => T.
func (p *Parser) tryParseFuncType() (typeexpr.Type, bool) {
	sv := p.save()
	pos := p.pos
	sig, ok := p.parseFuncSigParams()
	if !ok || p.tok != token.Arrow {
		p.restore(sv)
		return nil, false
	}
	p.next()
	sig.Result = p.parseType()
	return &typeexpr.Func{Position: pos, Sig: sig}, true
}

// parseFuncSig parses ( params ) => T for construct signatures and
// object-type members, where the arrow (or a colon) is required next.
func (p *Parser) parseFuncSig() *typeexpr.FuncSig {
	sig, _ := p.parseFuncSigParams()
	if sig == nil {
		sig = &typeexpr.FuncSig{}
	}
	switch p.tok {
	case token.Arrow, token.Colon:
		p.next()
		sig.Result = p.parseType()
	}
	return sig
}

func (p *Parser) parseFuncSigParams() (*typeexpr.FuncSig, bool) {
	if p.tok != token.LeftParen {
		p.errorf("expected '(', found %q", p.tok)
		return nil, false
	}
	p.next()
	sig := &typeexpr.FuncSig{}
	for p.tok != token.RightParen && !p.atEOF() {
		prm := &typeexpr.Param{}
		if p.tok == token.Ellipsis {
			prm.Rest = true
			p.next()
		}
		if p.tok != token.Ident && p.tok != token.This {
			return nil, false
		}
		if p.tok == token.This {
			prm.Name = "this"
			p.next()
		} else {
			prm.Name = p.parseIdentName()
		}
		if p.tok == token.Question {
			prm.Optional = true
			p.next()
		}
		if p.tok == token.Colon {
			p.next()
			prm.Type = p.parseType()
		}
		sig.Params = append(sig.Params, prm)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	if p.tok != token.RightParen {
		return nil, false
	}
	p.next()
	return sig, true
}

// parseObjectTypeBody parses { members }, shared by inline object types
// and interface bodies.
func (p *Parser) parseObjectTypeBody() *typeexpr.Object {
	pos := p.pos
	o := &typeexpr.Object{Position: pos}
	p.expect(token.LeftBrace)
	for p.tok != token.RightBrace && !p.atEOF() {
		switch {
		case p.tok == token.Semicolon || p.tok == token.Comma:
			p.next()
			continue
		case p.tok == token.LeftParen:
			o.Calls = append(o.Calls, p.parseFuncSig())
		case p.tok == token.New:
			p.next()
			o.Constructs = append(o.Constructs, p.parseFuncSig())
		case p.tok == token.LeftBracket:
			p.parseIndexSig(o)
		default:
			p.parseObjectTypeProp(o)
		}
	}
	p.expect(token.RightBrace)
	return o
}

func (p *Parser) parseIndexSig(o *typeexpr.Object) {
	p.expect(token.LeftBracket)
	p.parseIdentName() // key name, unused
	p.expect(token.Colon)
	kind := p.word()
	p.next()
	p.expect(token.RightBracket)
	p.expect(token.Colon)
	t := p.parseType()
	switch kind {
	case "string":
		o.StrIndex = t
	case "number":
		o.NumIndex = t
	default:
		p.errorf("index signature key must be string or number")
	}
}

func (p *Parser) parseObjectTypeProp(o *typeexpr.Object) {
	prop := &typeexpr.Prop{Position: p.pos}
	if p.isWord("readonly") {
		sv := p.save()
		p.next()
		if p.tok == token.Ident || p.tok == token.String {
			prop.Readonly = true
		} else {
			p.restore(sv)
		}
	}
	switch p.tok {
	case token.Ident:
		prop.Name = p.parseIdentName()
	case token.String:
		prop.Name = p.lit.(string)
		p.next()
	case token.Number:
		prop.Name = formatNumber(p.lit.(float64))
		p.next()
	default:
		p.errorf("expected member name, found %q", p.tok)
		p.next()
		return
	}
	if p.tok == token.Question {
		prop.Optional = true
		p.next()
	}
	switch p.tok {
	case token.LeftParen:
		prop.Method = true
		prop.Sig = p.parseFuncSig()
	case token.Colon:
		p.next()
		prop.Type = p.parseType()
	default:
		p.errorf("expected ':' or '(' after member name, found %q", p.tok)
	}
	o.Props = append(o.Props, prop)
}

// parseSubType parses a template-type substitution captured by the
// scanner.
func (p *Parser) parseSubType(source string, pos src.Pos) typeexpr.Type {
	sub := &Parser{
		filename: p.filename,
		s:        newScanner(p.filename, []byte(source)),
	}
	sub.s.Line = pos.Line
	sub.next()
	t := sub.parseType()
	p.errs = append(p.errs, sub.errs...)
	return t
}
