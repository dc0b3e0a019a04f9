// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stmt defines data structures representing tscheck statements
// and declarations.
package stmt

import (
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/syntax/typeexpr"
)

type Stmt interface {
	stmt()
	Pos() src.Pos // implements syntax.Node
}

// File is a parsed source file.
type File struct {
	Filename string
	Stmts    []Stmt
}

type Block struct {
	Position src.Pos
	Stmts    []Stmt
}

// Simple is an expression statement.
type Simple struct {
	Position src.Pos
	Expr     expr.Expr
}

type Return struct {
	Position src.Pos
	Expr     expr.Expr // may be nil
}

type If struct {
	Position src.Pos
	Cond     expr.Expr
	Body     Stmt
	Else     Stmt // may be nil
}

// Var is a var/let/const statement, possibly with several declarators.
type Var struct {
	Position src.Pos
	Kw       token.Token // Var, Let, Const
	Export   bool
	Decls    []*VarDecl
}

type VarDecl struct {
	Position src.Pos
	Name     string
	Type     typeexpr.Type // nil when unannotated
	Init     expr.Expr     // nil when uninitialized
}

// Func is a function declaration. Overload signatures carry a nil body
// on their FuncLiteral.
type Func struct {
	Position src.Pos
	Export   bool
	Name     string
	Func     *expr.FuncLiteral
}

type Class struct {
	Position   src.Pos
	Export     bool
	Name       string
	Extends    expr.Expr // reference to the base class, may be nil
	Implements []typeexpr.Type
	Members    []*ClassMember
}

type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberGetter
	MemberSetter
	MemberConstructor
)

type ClassMember struct {
	Position src.Pos
	Kind     MemberKind
	Name     string // without the '#' for private members
	Private  bool   // #name private identifier
	Static   bool
	Readonly bool
	Optional bool
	Modifier token.Token       // Public, Private, Protected, or Unknown
	Type     typeexpr.Type     // field annotation, may be nil
	Init     expr.Expr         // field initializer, may be nil
	Func     *expr.FuncLiteral // methods, accessors, constructor
}

type Interface struct {
	Position src.Pos
	Export   bool
	Name     string
	Extends  []typeexpr.Type
	Body     *typeexpr.Object
}

type Enum struct {
	Position src.Pos
	Export   bool
	Const    bool
	Name     string
	Members  []*EnumMember
}

type EnumMember struct {
	Position src.Pos
	Name     string
	Init     expr.Expr // may be nil (auto-increment)
}

type TypeAlias struct {
	Position   src.Pos
	Export     bool
	Name       string
	TypeParams []string
	Type       typeexpr.Type
}

// Namespace is a namespace/module block.
type Namespace struct {
	Position src.Pos
	Export   bool
	Name     string
	Body     *Block
}

// Import covers the ES-module and import-equals forms. Exactly one of
// the shapes is populated.
type Import struct {
	Position  src.Pos
	Module    string        // specifier, "" for import-equals of a namespace path
	Default   string        // import d from "m"
	Namespace string        // import * as ns from "m"
	Named     []*ImportName // import { a as b } from "m"
	Equals    *ImportEquals // import X = require("m") / import X = A.B
}

type ImportName struct {
	Position src.Pos
	Name     string
	Alias    string // "" when not renamed
}

type ImportEquals struct {
	Name      string
	Require   string   // module specifier, "" for a namespace path
	Qualified []string // A.B path, outermost first
}

// ExportNames is export { a as b }.
type ExportNames struct {
	Position src.Pos
	Names    []*ImportName
}

// ExportDefault is export default <expr>.
type ExportDefault struct {
	Position src.Pos
	Expr     expr.Expr
}

type Bad struct {
	Position src.Pos
	Error    error
}

var (
	_ = Stmt((*Block)(nil))
	_ = Stmt((*Simple)(nil))
	_ = Stmt((*Return)(nil))
	_ = Stmt((*If)(nil))
	_ = Stmt((*Var)(nil))
	_ = Stmt((*Func)(nil))
	_ = Stmt((*Class)(nil))
	_ = Stmt((*Interface)(nil))
	_ = Stmt((*Enum)(nil))
	_ = Stmt((*TypeAlias)(nil))
	_ = Stmt((*Namespace)(nil))
	_ = Stmt((*Import)(nil))
	_ = Stmt((*ExportNames)(nil))
	_ = Stmt((*ExportDefault)(nil))
	_ = Stmt((*Bad)(nil))
)

func (s *Block) stmt()         {}
func (s *Simple) stmt()        {}
func (s *Return) stmt()        {}
func (s *If) stmt()            {}
func (s *Var) stmt()           {}
func (s *Func) stmt()          {}
func (s *Class) stmt()         {}
func (s *Interface) stmt()     {}
func (s *Enum) stmt()          {}
func (s *TypeAlias) stmt()     {}
func (s *Namespace) stmt()     {}
func (s *Import) stmt()        {}
func (s *ExportNames) stmt()   {}
func (s *ExportDefault) stmt() {}
func (s *Bad) stmt()           {}

func (s *Block) Pos() src.Pos         { return s.Position }
func (s *Simple) Pos() src.Pos        { return s.Position }
func (s *Return) Pos() src.Pos        { return s.Position }
func (s *If) Pos() src.Pos            { return s.Position }
func (s *Var) Pos() src.Pos           { return s.Position }
func (s *Func) Pos() src.Pos          { return s.Position }
func (s *Class) Pos() src.Pos         { return s.Position }
func (s *Interface) Pos() src.Pos     { return s.Position }
func (s *Enum) Pos() src.Pos          { return s.Position }
func (s *TypeAlias) Pos() src.Pos     { return s.Position }
func (s *Namespace) Pos() src.Pos     { return s.Position }
func (s *Import) Pos() src.Pos        { return s.Position }
func (s *ExportNames) Pos() src.Pos   { return s.Position }
func (s *ExportDefault) Pos() src.Pos { return s.Position }
func (s *Bad) Pos() src.Pos           { return s.Position }

func (s *VarDecl) Pos() src.Pos    { return s.Position }
func (s *EnumMember) Pos() src.Pos { return s.Position }
