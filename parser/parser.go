// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser parses tscheck source into the syntax tree.
//
// The parser recovers from errors by producing Bad nodes; it always
// returns a File for the checker to walk.
package parser

import (
	"fmt"

	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/token"
)

// ParseFile parses an entire source file. The returned File is usable
// even when errors are reported; unparsable regions appear as Bad
// nodes.
func ParseFile(filename string, source []byte) (*stmt.File, []error) {
	p := &Parser{
		filename: filename,
		s:        newScanner(filename, source),
	}
	p.next()
	f := &stmt.File{Filename: filename}
	for !p.atEOF() {
		s := p.parseStmt()
		if s != nil {
			f.Stmts = append(f.Stmts, s)
		}
	}
	return f, p.errs
}

type Parser struct {
	filename string
	s        *Scanner
	errs     []error

	tok      token.Token
	lit      interface{}
	pos      src.Pos
	nlBefore bool
}

// saved is a parser snapshot for speculative parses. The scanner is a
// value type, so copying it snapshots the scan state.
type saved struct {
	s    Scanner
	tok  token.Token
	lit  interface{}
	pos  src.Pos
	nl   bool
	nerr int
}

func (p *Parser) save() saved {
	return saved{s: *p.s, tok: p.tok, lit: p.lit, pos: p.pos, nl: p.nlBefore, nerr: len(p.errs)}
}

func (p *Parser) restore(sv saved) {
	*p.s = sv.s
	p.tok, p.lit, p.pos, p.nlBefore = sv.tok, sv.lit, sv.pos, sv.nl
	p.errs = p.errs[:sv.nerr]
}

func (p *Parser) next() {
	err := p.s.Next()
	if err != nil && (len(p.errs) == 0 || p.errs[len(p.errs)-1].Error() != err.Error()) {
		p.errs = append(p.errs, err)
	}
	p.tok = p.s.Token
	p.lit = p.s.Literal
	p.pos = p.s.Pos()
	p.nlBefore = p.s.NewlineBefore
}

func (p *Parser) atEOF() bool {
	return p.tok == token.Unknown && p.s.AtEOF()
}

func (p *Parser) errorf(format string, a ...interface{}) error {
	err := fmt.Errorf("%s: %s", p.pos, fmt.Sprintf(format, a...))
	p.errs = append(p.errs, err)
	return err
}

func (p *Parser) expect(t token.Token) bool {
	if p.tok != t {
		p.errorf("expected %q, found %q", t, p.tok)
		return false
	}
	p.next()
	return true
}

// word returns the identifier text of the current token, or "".
func (p *Parser) word() string {
	if p.tok != token.Ident {
		return ""
	}
	w, _ := p.lit.(string)
	return w
}

func (p *Parser) isWord(w string) bool { return p.word() == w }

func (p *Parser) parseIdentName() string {
	if p.tok != token.Ident {
		p.errorf("expected identifier, found %q", p.tok)
		return ""
	}
	name := p.word()
	p.next()
	return name
}

// expectSemi consumes a statement terminator: an explicit semicolon, or
// an inserted one before a closing brace, EOF, or line break.
func (p *Parser) expectSemi() {
	switch {
	case p.tok == token.Semicolon:
		p.next()
	case p.tok == token.RightBrace, p.atEOF(), p.nlBefore:
	default:
		p.errorf("expected ';', found %q", p.tok)
	}
}

func (p *Parser) parseStmt() stmt.Stmt {
	pos := p.pos
	switch p.tok {
	case token.Semicolon:
		p.next()
		return nil
	case token.Export:
		return p.parseExport()
	case token.Import:
		return p.parseImport()
	case token.Var:
		p.next()
		return p.parseVarRest(pos, token.Var, false)
	case token.Const:
		p.next()
		if p.tok == token.Enum {
			p.next()
			return p.parseEnumRest(pos, true, false)
		}
		return p.parseVarRest(pos, token.Const, false)
	case token.Function:
		return p.parseFuncDecl(false)
	case token.Class:
		return p.parseClass(false)
	case token.Enum:
		p.next()
		return p.parseEnumRest(pos, false, false)
	case token.Return:
		p.next()
		var e expr.Expr
		if p.tok != token.Semicolon && p.tok != token.RightBrace && !p.nlBefore && !p.atEOF() {
			e = p.parseExpr()
		}
		p.expectSemi()
		return &stmt.Return{Position: pos, Expr: e}
	case token.If:
		return p.parseIf()
	case token.LeftBrace:
		return p.parseBlock()
	case token.Ident:
		switch p.word() {
		case "let":
			sv := p.save()
			p.next()
			if p.tok == token.Ident {
				return p.parseVarRest(pos, token.Let, false)
			}
			p.restore(sv)
		case "interface":
			sv := p.save()
			p.next()
			if p.tok == token.Ident {
				return p.parseInterfaceRest(pos, false)
			}
			p.restore(sv)
		case "type":
			sv := p.save()
			p.next()
			if p.tok == token.Ident {
				return p.parseTypeAliasRest(pos, false)
			}
			p.restore(sv)
		case "namespace", "module":
			sv := p.save()
			p.next()
			if p.tok == token.Ident || p.tok == token.String {
				return p.parseNamespaceRest(pos, false)
			}
			p.restore(sv)
		case "declare":
			sv := p.save()
			p.next()
			if s := p.parseAmbient(); s != nil {
				return s
			}
			p.restore(sv)
		case "async":
			sv := p.save()
			p.next()
			if p.tok == token.Function {
				f := p.parseFuncDecl(false)
				if fd, ok := f.(*stmt.Func); ok {
					fd.Func.Async = true
				}
				return f
			}
			p.restore(sv)
		}
	}
	// Expression statement.
	e := p.parseExpr()
	p.expectSemi()
	return &stmt.Simple{Position: pos, Expr: e}
}

// parseAmbient handles a declaration after `declare`. Ambient markers
// carry no checking weight here; the declaration is parsed as written.
func (p *Parser) parseAmbient() stmt.Stmt {
	switch p.tok {
	case token.Var, token.Const, token.Function, token.Class, token.Enum:
		return p.parseStmt()
	case token.Ident:
		switch p.word() {
		case "let", "interface", "type", "namespace", "module":
			return p.parseStmt()
		}
	}
	return nil
}

func (p *Parser) parseExport() stmt.Stmt {
	pos := p.pos
	p.next()
	switch p.tok {
	case token.Default:
		p.next()
		e := p.parseExpr()
		p.expectSemi()
		return &stmt.ExportDefault{Position: pos, Expr: e}
	case token.LeftBrace:
		p.next()
		names := p.parseNameList()
		p.expect(token.RightBrace)
		p.expectSemi()
		return &stmt.ExportNames{Position: pos, Names: names}
	}
	s := p.parseStmt()
	switch s := s.(type) {
	case *stmt.Var:
		s.Export = true
	case *stmt.Func:
		s.Export = true
	case *stmt.Class:
		s.Export = true
	case *stmt.Interface:
		s.Export = true
	case *stmt.Enum:
		s.Export = true
	case *stmt.TypeAlias:
		s.Export = true
	case *stmt.Namespace:
		s.Export = true
	default:
		p.errorf("cannot export this statement")
	}
	return s
}

// parseNameList parses a { a, b as c } name list body.
func (p *Parser) parseNameList() []*stmt.ImportName {
	var names []*stmt.ImportName
	for p.tok == token.Ident || p.tok == token.Default {
		n := &stmt.ImportName{Position: p.pos}
		if p.tok == token.Default {
			n.Name = "default"
			p.next()
		} else {
			n.Name = p.parseIdentName()
		}
		if p.isWord("as") {
			p.next()
			n.Alias = p.parseIdentName()
		}
		names = append(names, n)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	return names
}

func (p *Parser) parseImport() stmt.Stmt {
	pos := p.pos
	p.next()
	imp := &stmt.Import{Position: pos}
	switch p.tok {
	case token.String:
		imp.Module = p.lit.(string)
		p.next()
		p.expectSemi()
		return imp
	case token.Mul:
		p.next()
		if !p.isWord("as") {
			p.errorf(`expected "as" in namespace import`)
			return &stmt.Bad{Position: pos, Error: p.errs[len(p.errs)-1]}
		}
		p.next()
		imp.Namespace = p.parseIdentName()
		p.expectFrom(imp)
		return imp
	case token.LeftBrace:
		p.next()
		imp.Named = p.parseNameList()
		p.expect(token.RightBrace)
		p.expectFrom(imp)
		return imp
	case token.Ident:
		name := p.parseIdentName()
		if p.tok == token.Assign {
			p.next()
			return p.parseImportEquals(pos, name)
		}
		imp.Default = name
		if p.tok == token.Comma {
			p.next()
			if p.tok == token.LeftBrace {
				p.next()
				imp.Named = p.parseNameList()
				p.expect(token.RightBrace)
			} else if p.tok == token.Mul {
				p.next()
				if p.isWord("as") {
					p.next()
					imp.Namespace = p.parseIdentName()
				}
			}
		}
		p.expectFrom(imp)
		return imp
	}
	err := p.errorf("malformed import")
	p.next()
	return &stmt.Bad{Position: pos, Error: err}
}

func (p *Parser) expectFrom(imp *stmt.Import) {
	if !p.isWord("from") {
		p.errorf(`expected "from"`)
		return
	}
	p.next()
	if p.tok != token.String {
		p.errorf("expected module specifier string")
		return
	}
	imp.Module = p.lit.(string)
	p.next()
	p.expectSemi()
}

func (p *Parser) parseImportEquals(pos src.Pos, name string) stmt.Stmt {
	imp := &stmt.Import{Position: pos, Equals: &stmt.ImportEquals{Name: name}}
	if p.isWord("require") {
		p.next()
		p.expect(token.LeftParen)
		if p.tok == token.String {
			imp.Equals.Require = p.lit.(string)
			p.next()
		} else {
			p.errorf("expected module specifier string")
		}
		p.expect(token.RightParen)
		p.expectSemi()
		return imp
	}
	imp.Equals.Qualified = append(imp.Equals.Qualified, p.parseIdentName())
	for p.tok == token.Period {
		p.next()
		imp.Equals.Qualified = append(imp.Equals.Qualified, p.parseIdentName())
	}
	p.expectSemi()
	return imp
}

func (p *Parser) parseVarRest(pos src.Pos, kw token.Token, export bool) stmt.Stmt {
	v := &stmt.Var{Position: pos, Kw: kw, Export: export}
	for {
		d := &stmt.VarDecl{Position: p.pos}
		d.Name = p.parseIdentName()
		if p.tok == token.Colon {
			p.next()
			d.Type = p.parseType()
		} else if tc := p.s.TypeComment; tc != "" {
			d.Type = p.parseTypeComment(tc)
			p.s.TypeComment = ""
		}
		if p.tok == token.Assign {
			p.next()
			d.Init = p.parseExpr()
		}
		v.Decls = append(v.Decls, d)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expectSemi()
	return v
}

func (p *Parser) parseFuncDecl(export bool) stmt.Stmt {
	pos := p.pos
	p.expect(token.Function)
	generator := false
	if p.tok == token.Mul {
		generator = true
		p.next()
	}
	name := p.parseIdentName()
	fn := p.parseFuncRest(pos, name, generator)
	p.expectSemi()
	return &stmt.Func{Position: pos, Export: export, Name: name, Func: fn}
}

// parseFuncRest parses params, result annotation, and an optional body.
// A missing body marks an overload signature.
func (p *Parser) parseFuncRest(pos src.Pos, name string, generator bool) *expr.FuncLiteral {
	fn := &expr.FuncLiteral{Position: pos, Name: name, Generator: generator}
	p.expect(token.LeftParen)
	fn.Params = p.parseParams()
	p.expect(token.RightParen)
	if p.tok == token.Colon {
		p.next()
		fn.Result = p.parseType()
	}
	if p.tok == token.LeftBrace {
		fn.Body = p.parseBlock()
	}
	return fn
}

func (p *Parser) parseParams() []*expr.Param {
	var params []*expr.Param
	for p.tok != token.RightParen && !p.atEOF() {
		prm := &expr.Param{Position: p.pos}
		if p.tok == token.Ellipsis {
			prm.Rest = true
			p.next()
		}
		if p.tok == token.This {
			// A this-parameter annotates the receiver type; it takes
			// no argument slot.
			p.next()
			prm.Name = "this"
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
		if p.tok == token.Assign {
			p.next()
			prm.Default = p.parseExpr()
		}
		params = append(params, prm)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	return params
}

func (p *Parser) parseBlock() *stmt.Block {
	pos := p.pos
	p.expect(token.LeftBrace)
	b := &stmt.Block{Position: pos}
	for p.tok != token.RightBrace && !p.atEOF() {
		s := p.parseStmt()
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	p.expect(token.RightBrace)
	return b
}

func (p *Parser) parseIf() stmt.Stmt {
	pos := p.pos
	p.expect(token.If)
	p.expect(token.LeftParen)
	cond := p.parseExpr()
	p.expect(token.RightParen)
	body := p.parseStmt()
	var els stmt.Stmt
	if p.tok == token.Else {
		p.next()
		els = p.parseStmt()
	}
	return &stmt.If{Position: pos, Cond: cond, Body: body, Else: els}
}

func (p *Parser) parseClass(export bool) stmt.Stmt {
	pos := p.pos
	p.expect(token.Class)
	c := &stmt.Class{Position: pos, Export: export}
	c.Name = p.parseIdentName()
	if p.tok == token.Extends {
		p.next()
		c.Extends = p.parseLeftHandSide()
	}
	if p.isWord("implements") {
		p.next()
		for {
			c.Implements = append(c.Implements, p.parseType())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
	}
	p.expect(token.LeftBrace)
	for p.tok != token.RightBrace && !p.atEOF() {
		if p.tok == token.Semicolon {
			p.next()
			continue
		}
		m := p.parseClassMember()
		if m != nil {
			c.Members = append(c.Members, m)
		}
	}
	p.expect(token.RightBrace)
	return c
}

// parseLeftHandSide parses a possibly-qualified reference expression,
// as used in extends clauses.
func (p *Parser) parseLeftHandSide() expr.Expr {
	pos := p.pos
	var e expr.Expr = &expr.Ident{Position: pos, Name: p.parseIdentName()}
	for p.tok == token.Period {
		p.next()
		e = &expr.Selector{Position: pos, Left: e, Name: p.parseIdentName()}
	}
	return e
}

func (p *Parser) parseClassMember() *stmt.ClassMember {
	m := &stmt.ClassMember{Position: p.pos, Modifier: token.Unknown}
	// Modifiers, in any order.
	for {
		switch p.word() {
		case "public":
			m.Modifier = token.Public
		case "private":
			m.Modifier = token.Private
		case "protected":
			m.Modifier = token.Protected
		case "static":
			m.Static = true
		case "readonly":
			m.Readonly = true
		case "abstract", "async", "override":
			// parsed, no checking weight here
		default:
			goto mods
		}
		// A modifier word followed by '(' or '=' is really a member
		// name ("readonly = 1", "static()").
		sv := p.save()
		w := p.word()
		p.next()
		if p.tok == token.LeftParen || p.tok == token.Assign || p.tok == token.Colon ||
			p.tok == token.Semicolon || p.tok == token.Question {
			p.restore(sv)
			m.Modifier = token.Unknown
			m.Static = false
			m.Readonly = false
			_ = w
			goto mods
		}
	}
mods:
	// Accessors.
	if p.isWord("get") || p.isWord("set") {
		sv := p.save()
		isGet := p.isWord("get")
		p.next()
		if p.tok == token.Ident || p.tok == token.Hash {
			if isGet {
				m.Kind = stmt.MemberGetter
			} else {
				m.Kind = stmt.MemberSetter
			}
			p.parseMemberName(m)
			m.Func = p.parseFuncRest(m.Position, m.Name, false)
			p.expectSemi()
			return m
		}
		p.restore(sv)
	}
	generator := false
	if p.tok == token.Mul {
		generator = true
		p.next()
	}
	p.parseMemberName(m)
	if m.Name == "constructor" && !m.Private {
		m.Kind = stmt.MemberConstructor
		m.Func = p.parseFuncRest(m.Position, m.Name, false)
		p.expectSemi()
		return m
	}
	if p.tok == token.Question {
		m.Optional = true
		p.next()
	}
	switch p.tok {
	case token.LeftParen:
		m.Kind = stmt.MemberMethod
		m.Func = p.parseFuncRest(m.Position, m.Name, generator)
		p.expectSemi()
		return m
	case token.Colon:
		p.next()
		m.Kind = stmt.MemberField
		m.Type = p.parseType()
		if p.tok == token.Assign {
			p.next()
			m.Init = p.parseExpr()
		}
		p.expectSemi()
		return m
	case token.Assign:
		p.next()
		m.Kind = stmt.MemberField
		m.Init = p.parseExpr()
		p.expectSemi()
		return m
	default:
		m.Kind = stmt.MemberField
		p.expectSemi()
		return m
	}
}

func (p *Parser) parseMemberName(m *stmt.ClassMember) {
	if p.tok == token.Hash {
		m.Private = true
		p.next()
	}
	if p.tok == token.Ident {
		m.Name = p.word()
		p.next()
		return
	}
	// Keyword member names (get, set, type, …) arrive as contextual
	// words already; reserved words as member names are uncommon
	// enough to reject.
	p.errorf("expected member name, found %q", p.tok)
	p.next()
}

func (p *Parser) parseInterfaceRest(pos src.Pos, export bool) stmt.Stmt {
	it := &stmt.Interface{Position: pos, Export: export}
	it.Name = p.parseIdentName()
	if p.tok == token.Extends {
		p.next()
		for {
			it.Extends = append(it.Extends, p.parseType())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
	}
	it.Body = p.parseObjectTypeBody()
	p.expectSemi()
	return it
}

func (p *Parser) parseEnumRest(pos src.Pos, isConst, export bool) stmt.Stmt {
	e := &stmt.Enum{Position: pos, Const: isConst, Export: export}
	e.Name = p.parseIdentName()
	p.expect(token.LeftBrace)
	for p.tok != token.RightBrace && !p.atEOF() {
		m := &stmt.EnumMember{Position: p.pos}
		if p.tok == token.String {
			m.Name = p.lit.(string)
			p.next()
		} else {
			m.Name = p.parseIdentName()
		}
		if p.tok == token.Assign {
			p.next()
			m.Init = p.parseExpr()
		}
		e.Members = append(e.Members, m)
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RightBrace)
	p.expectSemi()
	return e
}

func (p *Parser) parseTypeAliasRest(pos src.Pos, export bool) stmt.Stmt {
	a := &stmt.TypeAlias{Position: pos, Export: export}
	a.Name = p.parseIdentName()
	if p.tok == token.Less {
		p.next()
		for p.tok == token.Ident {
			a.TypeParams = append(a.TypeParams, p.parseIdentName())
			if p.tok != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.Greater)
	}
	p.expect(token.Assign)
	a.Type = p.parseType()
	p.expectSemi()
	return a
}

func (p *Parser) parseNamespaceRest(pos src.Pos, export bool) stmt.Stmt {
	ns := &stmt.Namespace{Position: pos, Export: export}
	if p.tok == token.String {
		ns.Name = p.lit.(string)
		p.next()
	} else {
		ns.Name = p.parseIdentName()
	}
	if p.tok == token.Period {
		// namespace A.B {} is namespace A { export namespace B {} }
		p.next()
		inner := p.parseNamespaceRest(p.pos, true).(*stmt.Namespace)
		ns.Body = &stmt.Block{Position: pos, Stmts: []stmt.Stmt{inner}}
		return ns
	}
	ns.Body = p.parseBlock()
	p.expectSemi()
	return ns
}
