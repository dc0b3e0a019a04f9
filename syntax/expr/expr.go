// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr defines data structures representing tscheck expressions.
package expr

import (
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/syntax/typeexpr"
)

type Expr interface {
	expr()
	Pos() src.Pos // implements syntax.Node
}

type Ident struct {
	Position src.Pos
	Name     string
}

// BasicLiteral is a number, bigint, string, boolean, or null literal.
type BasicLiteral struct {
	Position src.Pos
	Token    token.Token // Number, Bigint, String, True, False, Null
	Value    interface{} // float64, string (bigint digits or string text), bool, nil
}

// TemplateLiteral is `text ${expr} text`.
type TemplateLiteral struct {
	Position src.Pos
	Texts    []string // len(Texts) == len(Subs)+1
	Subs     []Expr
}

type ArrayLiteral struct {
	Position src.Pos
	Elems    []Expr
}

type ObjectLiteral struct {
	Position src.Pos
	Fields   []*ObjectField
}

type ObjectField struct {
	Position  src.Pos
	Name      string
	Value     Expr
	Shorthand bool
}

type Binary struct {
	Position src.Pos
	Op       token.Token
	Left     Expr
	Right    Expr
}

type Unary struct {
	Position src.Pos
	Op       token.Token // Not, Sub, Add, Tilde, Typeof, Void, Delete, Inc, Dec
	Expr     Expr
}

type Assign struct {
	Position src.Pos
	Op       token.Token // Assign, AddAssign, …
	Left     Expr
	Right    Expr
}

// Selector is property access: Left.Name.
type Selector struct {
	Position src.Pos
	Left     Expr
	Name     string
	Optional bool // ?.
}

// PrivateSelector is private-field access: Left.#Name.
type PrivateSelector struct {
	Position src.Pos
	Left     Expr
	Name     string // without the leading '#'
}

// Index is element access: Left[Index].
type Index struct {
	Position src.Pos
	Left     Expr
	Index    Expr
}

type Call struct {
	Position src.Pos
	Func     Expr
	Args     []Expr
}

type New struct {
	Position src.Pos
	Func     Expr
	Args     []Expr
}

type This struct {
	Position src.Pos
}

type Paren struct {
	Position src.Pos
	Expr     Expr
}

// AssertKind distinguishes the type-assertion forms.
type AssertKind int

const (
	AssertAs        AssertKind = iota // x as T
	AssertAngle                       // <T>x
	AssertSatisfies                   // x satisfies T
	AssertConst                       // x as const
)

// Assert is a type assertion.
type Assert struct {
	Position src.Pos
	Kind     AssertKind
	Expr     Expr
	Type     typeexpr.Type // nil for AssertConst
}

// Yield is yield or yield* inside a generator.
type Yield struct {
	Position src.Pos
	Star     bool
	Expr     Expr // nil for a bare yield
}

type Param struct {
	Position src.Pos
	Name     string
	Type     typeexpr.Type // nil when unannotated
	Optional bool
	Rest     bool
	Default  Expr
}

// FuncLiteral is a function expression, arrow function, or the
// header+body of a function declaration (the declaration statement
// wraps one).
type FuncLiteral struct {
	Position  src.Pos
	Name      string // may be empty
	Params    []*Param
	Result    typeexpr.Type // nil when unannotated
	Generator bool
	Async     bool
	Arrow     bool
	Body      interface{} // *stmt.Block or Expr (arrow body), breaking the package import cycle
}

type Bad struct {
	Position src.Pos
	Error    error
}

var (
	_ = Expr((*Ident)(nil))
	_ = Expr((*BasicLiteral)(nil))
	_ = Expr((*TemplateLiteral)(nil))
	_ = Expr((*ArrayLiteral)(nil))
	_ = Expr((*ObjectLiteral)(nil))
	_ = Expr((*Binary)(nil))
	_ = Expr((*Unary)(nil))
	_ = Expr((*Assign)(nil))
	_ = Expr((*Selector)(nil))
	_ = Expr((*PrivateSelector)(nil))
	_ = Expr((*Index)(nil))
	_ = Expr((*Call)(nil))
	_ = Expr((*New)(nil))
	_ = Expr((*This)(nil))
	_ = Expr((*Paren)(nil))
	_ = Expr((*Assert)(nil))
	_ = Expr((*Yield)(nil))
	_ = Expr((*FuncLiteral)(nil))
	_ = Expr((*Bad)(nil))
)

func (e *Ident) expr()           {}
func (e *BasicLiteral) expr()    {}
func (e *TemplateLiteral) expr() {}
func (e *ArrayLiteral) expr()    {}
func (e *ObjectLiteral) expr()   {}
func (e *Binary) expr()          {}
func (e *Unary) expr()           {}
func (e *Assign) expr()          {}
func (e *Selector) expr()        {}
func (e *PrivateSelector) expr() {}
func (e *Index) expr()           {}
func (e *Call) expr()            {}
func (e *New) expr()             {}
func (e *This) expr()            {}
func (e *Paren) expr()           {}
func (e *Assert) expr()          {}
func (e *Yield) expr()           {}
func (e *FuncLiteral) expr()     {}
func (e *Bad) expr()             {}

func (e *Ident) Pos() src.Pos           { return e.Position }
func (e *BasicLiteral) Pos() src.Pos    { return e.Position }
func (e *TemplateLiteral) Pos() src.Pos { return e.Position }
func (e *ArrayLiteral) Pos() src.Pos    { return e.Position }
func (e *ObjectLiteral) Pos() src.Pos   { return e.Position }
func (e *Binary) Pos() src.Pos          { return e.Position }
func (e *Unary) Pos() src.Pos           { return e.Position }
func (e *Assign) Pos() src.Pos          { return e.Position }
func (e *Selector) Pos() src.Pos        { return e.Position }
func (e *PrivateSelector) Pos() src.Pos { return e.Position }
func (e *Index) Pos() src.Pos           { return e.Position }
func (e *Call) Pos() src.Pos            { return e.Position }
func (e *New) Pos() src.Pos             { return e.Position }
func (e *This) Pos() src.Pos            { return e.Position }
func (e *Paren) Pos() src.Pos           { return e.Position }
func (e *Assert) Pos() src.Pos          { return e.Position }
func (e *Yield) Pos() src.Pos           { return e.Position }
func (e *FuncLiteral) Pos() src.Pos     { return e.Position }
func (e *Bad) Pos() src.Pos             { return e.Position }

func (e *Param) Pos() src.Pos { return e.Position }
