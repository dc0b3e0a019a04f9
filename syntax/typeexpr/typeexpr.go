// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typeexpr defines data structures representing tscheck type
// annotations as written in source. The semantic types they lower to
// live in the types package.
package typeexpr

import (
	"tscheck.io/tsc/syntax/src"
)

type Type interface {
	typeexpr()
	Pos() src.Pos // implements syntax.Node
}

// Keyword is a predefined type name: any, unknown, never, void,
// undefined, null, boolean, number, string, bigint, symbol, object.
type Keyword struct {
	Position src.Pos
	Name     string
}

// Ref is a reference to a named type, optionally with type arguments:
// Foo, ns.Foo, Generator<number, void, string>.
type Ref struct {
	Position  src.Pos
	Name      string
	Qualifier []string // leading namespace path, outermost first
	Args      []Type
}

// Literal is a literal type: "div", 42, true.
type Literal struct {
	Position src.Pos
	Value    interface{} // string, float64, bool
}

type Union struct {
	Position src.Pos
	Members  []Type
}

type Intersection struct {
	Position src.Pos
	Members  []Type
}

// Array is the T[] suffix form.
type Array struct {
	Position src.Pos
	Elem     Type
}

// Tuple is [T1, T2, …].
type Tuple struct {
	Position src.Pos
	Elems    []Type
}

// Object is an inline object type literal.
type Object struct {
	Position   src.Pos
	Props      []*Prop
	Calls      []*FuncSig
	Constructs []*FuncSig
	StrIndex   Type // [key: string]: T
	NumIndex   Type // [key: number]: T
}

type Prop struct {
	Position src.Pos
	Name     string
	Type     Type
	Optional bool
	Readonly bool
	Method   bool
	Sig      *FuncSig // set when Method
}

// Func is a function type: (a: T) => U.
type Func struct {
	Position src.Pos
	Sig      *FuncSig
}

type FuncSig struct {
	Params []*Param
	Result Type
}

type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Paren preserves written grouping.
type Paren struct {
	Position src.Pos
	Type     Type
}

// KeyOf is the keyof operator.
type KeyOf struct {
	Position src.Pos
	Operand  Type
}

// IndexAccess is T[K].
type IndexAccess struct {
	Position src.Pos
	Object   Type
	Index    Type
}

// Template is a template literal type: `id-${string}`.
type Template struct {
	Position src.Pos
	Texts    []string // len(Texts) == len(Types)+1
	Types    []Type
}

// Query is a typeof query in type position: typeof x.
type Query struct {
	Position  src.Pos
	Name      string
	Qualifier []string
}

// Bad is a placeholder produced by parser error recovery.
type Bad struct {
	Position src.Pos
	Error    error
}

var (
	_ = Type((*Keyword)(nil))
	_ = Type((*Ref)(nil))
	_ = Type((*Literal)(nil))
	_ = Type((*Union)(nil))
	_ = Type((*Intersection)(nil))
	_ = Type((*Array)(nil))
	_ = Type((*Tuple)(nil))
	_ = Type((*Object)(nil))
	_ = Type((*Func)(nil))
	_ = Type((*Paren)(nil))
	_ = Type((*KeyOf)(nil))
	_ = Type((*IndexAccess)(nil))
	_ = Type((*Template)(nil))
	_ = Type((*Query)(nil))
	_ = Type((*Bad)(nil))
)

func (t *Keyword) typeexpr()      {}
func (t *Ref) typeexpr()          {}
func (t *Literal) typeexpr()      {}
func (t *Union) typeexpr()        {}
func (t *Intersection) typeexpr() {}
func (t *Array) typeexpr()        {}
func (t *Tuple) typeexpr()        {}
func (t *Object) typeexpr()       {}
func (t *Func) typeexpr()         {}
func (t *Paren) typeexpr()        {}
func (t *KeyOf) typeexpr()        {}
func (t *IndexAccess) typeexpr()  {}
func (t *Template) typeexpr()     {}
func (t *Query) typeexpr()        {}
func (t *Bad) typeexpr()          {}

func (t *Keyword) Pos() src.Pos      { return t.Position }
func (t *Ref) Pos() src.Pos          { return t.Position }
func (t *Literal) Pos() src.Pos      { return t.Position }
func (t *Union) Pos() src.Pos        { return t.Position }
func (t *Intersection) Pos() src.Pos { return t.Position }
func (t *Array) Pos() src.Pos        { return t.Position }
func (t *Tuple) Pos() src.Pos        { return t.Position }
func (t *Object) Pos() src.Pos       { return t.Position }
func (t *Func) Pos() src.Pos         { return t.Position }
func (t *Paren) Pos() src.Pos        { return t.Position }
func (t *KeyOf) Pos() src.Pos        { return t.Position }
func (t *IndexAccess) Pos() src.Pos  { return t.Position }
func (t *Template) Pos() src.Pos     { return t.Position }
func (t *Query) Pos() src.Pos        { return t.Position }
func (t *Bad) Pos() src.Pos          { return t.Position }
