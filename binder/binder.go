// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/syntax"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/syntax/typeexpr"
)

// Table is the binding result for one file.
type Table struct {
	// ModuleExports maps exported names to their export wrappers.
	ModuleExports map[string]*Symbol

	// Uses maps identifier expressions to the symbol they resolved
	// to. An identifier with no entry failed to resolve and was
	// already reported.
	Uses map[*expr.Ident]*Symbol

	// TypeUses maps type references and typeof queries to the symbol
	// their root name resolved to. Qualified paths are walked by the
	// checker through Exports.
	TypeUses map[syntax.Node]*Symbol

	// Decls maps declaration nodes back to their symbol.
	Decls map[syntax.Node]*Symbol

	// Imports maps each import statement to every alias symbol it
	// declares, so the checker can resolve all of them eagerly.
	Imports map[*stmt.Import][]*Symbol

	// FileScope is the module scope, under the universe scope.
	FileScope *Scope
}

// Bind builds the symbol table for file, reporting unresolved names to
// sink.
func Bind(file *stmt.File, sink diag.Sink) *Table {
	b := &binder{
		table: &Table{
			ModuleExports: make(map[string]*Symbol),
			Uses:          make(map[*expr.Ident]*Symbol),
			TypeUses:      make(map[syntax.Node]*Symbol),
			Decls:         make(map[syntax.Node]*Symbol),
			Imports:       make(map[*stmt.Import][]*Symbol),
		},
		sink:     sink,
		nsScopes: make(map[*stmt.Namespace]*Scope),
	}
	sc := NewScope(Universe())
	b.table.FileScope = sc
	b.declareStmts(sc, b.table.ModuleExports, nil, file.Stmts)
	b.resolveStmts(sc, b.table.ModuleExports, file.Stmts)
	return b.table
}

type binder struct {
	table    *Table
	sink     diag.Sink
	nsScopes map[*stmt.Namespace]*Scope
}

// mergeable reports whether a new declaration with flags may merge into
// an existing symbol.
func mergeable(old, new Flags) bool {
	switch {
	case old.Has(Function) && new.Has(Function|Namespace):
		return true
	case old.Has(Interface) && new.Has(Interface|Class):
		return true
	case old.Has(Class) && new.Has(Interface|Namespace):
		return true
	case old.Has(Enum|ConstEnum) && new.Has(Enum|ConstEnum|Namespace):
		return true
	case old.Has(Namespace) && new.Has(Namespace|Class|Function|Enum|ConstEnum):
		return true
	}
	return false
}

// declare adds a declaration of name to sc, merging where the language
// allows. When export is set, an export wrapper is also placed in
// exports. Later conflicting declarations shadow earlier ones.
func (b *binder) declare(sc *Scope, exports map[string]*Symbol, parent *Symbol, name string, flags Flags, decl syntax.Node, export bool) *Symbol {
	sym := sc.Names[name]
	if sym != nil && mergeable(sym.Flags, flags) {
		sym.Flags |= flags
		sym.Decls = append(sym.Decls, decl)
	} else {
		sym = &Symbol{
			Name:   name,
			Flags:  flags,
			Decl:   decl,
			Decls:  []syntax.Node{decl},
			Parent: parent,
		}
		sc.Insert(sym)
	}
	b.table.Decls[decl] = sym
	if export && exports != nil {
		if w := exports[name]; w == nil || w.Origin != sym {
			exports[name] = &Symbol{Name: name, Flags: Export, Origin: sym}
		}
	}
	return sym
}

// declareStmts is the hoisting pass: every statement-level declaration
// becomes visible before any initializer or body is resolved.
func (b *binder) declareStmts(sc *Scope, exports map[string]*Symbol, parent *Symbol, stmts []stmt.Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *stmt.Var:
			flags := Variable
			if s.Kw == token.Const {
				flags |= Const
			}
			for _, d := range s.Decls {
				b.declare(sc, exports, parent, d.Name, flags, d, s.Export)
			}
		case *stmt.Func:
			b.declare(sc, exports, parent, s.Name, Function, s, s.Export)
		case *stmt.Class:
			b.declare(sc, exports, parent, s.Name, Class, s, s.Export)
		case *stmt.Interface:
			b.declare(sc, exports, parent, s.Name, Interface, s, s.Export)
		case *stmt.Enum:
			flags := Enum
			if s.Const {
				flags = ConstEnum
			}
			sym := b.declare(sc, exports, parent, s.Name, flags, s, s.Export)
			if sym.Exports == nil {
				sym.Exports = make(map[string]*Symbol)
			}
			for _, m := range s.Members {
				msym := &Symbol{
					Name:   m.Name,
					Flags:  EnumMember,
					Decl:   m,
					Decls:  []syntax.Node{m},
					Parent: sym,
				}
				sym.Exports[m.Name] = msym
				b.table.Decls[m] = msym
			}
		case *stmt.TypeAlias:
			b.declare(sc, exports, parent, s.Name, TypeAlias, s, s.Export)
		case *stmt.Namespace:
			sym := b.declare(sc, exports, parent, s.Name, Namespace, s, s.Export)
			if sym.Exports == nil {
				sym.Exports = make(map[string]*Symbol)
			}
			inner := NewScope(sc)
			b.nsScopes[s] = inner
			b.declareStmts(inner, sym.Exports, sym, s.Body.Stmts)
		case *stmt.Import:
			b.declareImport(sc, s)
		}
	}
}

func (b *binder) declareImport(sc *Scope, s *stmt.Import) {
	alias := func(name, member string) {
		sym := &Symbol{
			Name:   name,
			Flags:  Alias,
			Decl:   s,
			Decls:  []syntax.Node{s},
			Import: &ImportRef{Module: s.Module, Member: member},
		}
		sc.Insert(sym)
		b.table.Decls[s] = sym
		b.table.Imports[s] = append(b.table.Imports[s], sym)
	}
	switch {
	case s.Equals != nil:
		if s.Equals.Require != "" {
			sym := &Symbol{
				Name:   s.Equals.Name,
				Flags:  Alias,
				Decl:   s,
				Decls:  []syntax.Node{s},
				Import: &ImportRef{Module: s.Equals.Require, Member: "*"},
			}
			sc.Insert(sym)
			b.table.Decls[s] = sym
			b.table.Imports[s] = append(b.table.Imports[s], sym)
		} else {
			// import X = A.B resolves after all names are declared.
			sym := &Symbol{Name: s.Equals.Name, Flags: Alias, Decl: s, Decls: []syntax.Node{s}}
			sc.Insert(sym)
			b.table.Decls[s] = sym
			b.table.Imports[s] = append(b.table.Imports[s], sym)
		}
	default:
		if s.Default != "" {
			alias(s.Default, "default")
		}
		if s.Namespace != "" {
			alias(s.Namespace, "*")
		}
		for _, n := range s.Named {
			name := n.Name
			if n.Alias != "" {
				name = n.Alias
			}
			alias(name, n.Name)
		}
	}
}

// resolveStmts is the second pass: identifier and type-reference uses
// are resolved against the scope built by declareStmts.
func (b *binder) resolveStmts(sc *Scope, exports map[string]*Symbol, stmts []stmt.Stmt) {
	for _, s := range stmts {
		b.resolveStmt(sc, exports, s)
	}
}

func (b *binder) resolveStmt(sc *Scope, exports map[string]*Symbol, s stmt.Stmt) {
	switch s := s.(type) {
	case *stmt.Block:
		inner := NewScope(sc)
		b.declareStmts(inner, nil, nil, s.Stmts)
		b.resolveStmts(inner, nil, s.Stmts)
	case *stmt.Simple:
		b.resolveExpr(sc, s.Expr)
	case *stmt.Return:
		if s.Expr != nil {
			b.resolveExpr(sc, s.Expr)
		}
	case *stmt.If:
		b.resolveExpr(sc, s.Cond)
		b.resolveStmt(NewScope(sc), nil, s.Body)
		if s.Else != nil {
			b.resolveStmt(NewScope(sc), nil, s.Else)
		}
	case *stmt.Var:
		for _, d := range s.Decls {
			if d.Type != nil {
				b.resolveType(sc, d.Type)
			}
			if d.Init != nil {
				b.resolveExpr(sc, d.Init)
			}
		}
	case *stmt.Func:
		b.resolveFuncLiteral(sc, s.Func)
	case *stmt.Class:
		b.resolveClass(sc, s)
	case *stmt.Interface:
		for _, t := range s.Extends {
			b.resolveType(sc, t)
		}
		b.resolveObjectType(sc, s.Body)
	case *stmt.Enum:
		sym := b.table.Decls[s]
		inner := NewScope(sc)
		if sym != nil {
			for _, m := range sym.Exports {
				inner.Insert(m)
			}
		}
		for _, m := range s.Members {
			if m.Init != nil {
				b.resolveExpr(inner, m.Init)
			}
		}
	case *stmt.TypeAlias:
		inner := sc
		if len(s.TypeParams) > 0 {
			inner = NewScope(sc)
			for _, name := range s.TypeParams {
				inner.Insert(&Symbol{Name: name, Flags: TypeParam, Decl: s})
			}
		}
		b.resolveType(inner, s.Type)
	case *stmt.Namespace:
		inner := b.nsScopes[s]
		sym := b.table.Decls[s]
		var exp map[string]*Symbol
		if sym != nil {
			exp = sym.Exports
		}
		b.resolveStmts(inner, exp, s.Body.Stmts)
	case *stmt.Import:
		if s.Equals != nil && len(s.Equals.Qualified) > 0 {
			b.resolveImportEquals(sc, s)
		}
	case *stmt.ExportNames:
		for _, n := range s.Names {
			local := sc.Lookup(n.Name)
			if local == nil {
				diag.Errorf(b.sink, n.Position, diag.CannotFindName,
					"Cannot find name '%s'.", n.Name)
				continue
			}
			name := n.Name
			if n.Alias != "" {
				name = n.Alias
			}
			if exports != nil {
				exports[name] = &Symbol{Name: name, Flags: Export, Origin: local}
			}
		}
	case *stmt.ExportDefault:
		b.resolveExpr(sc, s.Expr)
		if exports != nil {
			local := &Symbol{Name: "default", Flags: Variable | Const, Decl: s, Decls: []syntax.Node{s}}
			b.table.Decls[s] = local
			exports["default"] = &Symbol{Name: "default", Flags: Export, Origin: local}
		}
	}
}

// resolveImportEquals resolves import X = A.B by walking namespace
// exports.
func (b *binder) resolveImportEquals(sc *Scope, s *stmt.Import) {
	sym := b.table.Decls[s]
	path := s.Equals.Qualified
	cur := sc.Lookup(path[0])
	if cur == nil {
		diag.Errorf(b.sink, s.Position, diag.CannotFindName,
			"Cannot find name '%s'.", path[0])
		return
	}
	for _, name := range path[1:] {
		cur = cur.Local()
		if cur.Exports == nil || cur.Exports[name] == nil {
			diag.Errorf(b.sink, s.Position, diag.ModuleHasNoExport,
				"Namespace '%s' has no exported member '%s'.", cur.Name, name)
			return
		}
		cur = cur.Exports[name]
	}
	if sym != nil {
		sym.Target = cur.Local()
	}
}

func (b *binder) resolveClass(sc *Scope, s *stmt.Class) {
	if s.Extends != nil {
		b.resolveExpr(sc, s.Extends)
	}
	for _, t := range s.Implements {
		b.resolveType(sc, t)
	}
	for _, m := range s.Members {
		if m.Type != nil {
			b.resolveType(sc, m.Type)
		}
		if m.Init != nil {
			b.resolveExpr(sc, m.Init)
		}
		if m.Func != nil {
			b.resolveFuncLiteral(sc, m.Func)
		}
	}
}

func (b *binder) resolveFuncLiteral(sc *Scope, fn *expr.FuncLiteral) {
	inner := NewScope(sc)
	if fn.Name != "" && !fn.Arrow {
		inner.Insert(&Symbol{Name: fn.Name, Flags: Function, Decl: fn, Decls: []syntax.Node{fn}})
	}
	for _, p := range fn.Params {
		if p.Type != nil {
			b.resolveType(sc, p.Type)
		}
		if p.Default != nil {
			b.resolveExpr(inner, p.Default)
		}
		psym := &Symbol{Name: p.Name, Flags: Parameter, Decl: p, Decls: []syntax.Node{p}}
		inner.Insert(psym)
		b.table.Decls[p] = psym
	}
	if fn.Result != nil {
		b.resolveType(sc, fn.Result)
	}
	switch body := fn.Body.(type) {
	case *stmt.Block:
		b.declareStmts(inner, nil, nil, body.Stmts)
		b.resolveStmts(inner, nil, body.Stmts)
	case expr.Expr:
		b.resolveExpr(inner, body)
	}
}

func (b *binder) resolveExpr(sc *Scope, e expr.Expr) {
	switch e := e.(type) {
	case *expr.Ident:
		sym := sc.Lookup(e.Name)
		if sym == nil {
			diag.Errorf(b.sink, e.Position, diag.CannotFindName,
				"Cannot find name '%s'.", e.Name)
			return
		}
		b.table.Uses[e] = sym
	case *expr.TemplateLiteral:
		for _, sub := range e.Subs {
			b.resolveExpr(sc, sub)
		}
	case *expr.ArrayLiteral:
		for _, el := range e.Elems {
			b.resolveExpr(sc, el)
		}
	case *expr.ObjectLiteral:
		for _, f := range e.Fields {
			if f.Shorthand {
				// The value of { x } is the binding of x.
				if id, ok := f.Value.(*expr.Ident); ok {
					b.resolveExpr(sc, id)
					continue
				}
			}
			b.resolveExpr(sc, f.Value)
		}
	case *expr.Binary:
		b.resolveExpr(sc, e.Left)
		b.resolveExpr(sc, e.Right)
	case *expr.Unary:
		b.resolveExpr(sc, e.Expr)
	case *expr.Assign:
		b.resolveExpr(sc, e.Left)
		b.resolveExpr(sc, e.Right)
	case *expr.Selector:
		b.resolveExpr(sc, e.Left)
	case *expr.PrivateSelector:
		b.resolveExpr(sc, e.Left)
	case *expr.Index:
		b.resolveExpr(sc, e.Left)
		b.resolveExpr(sc, e.Index)
	case *expr.Call:
		b.resolveExpr(sc, e.Func)
		for _, a := range e.Args {
			b.resolveExpr(sc, a)
		}
	case *expr.New:
		b.resolveExpr(sc, e.Func)
		for _, a := range e.Args {
			b.resolveExpr(sc, a)
		}
	case *expr.Paren:
		b.resolveExpr(sc, e.Expr)
	case *expr.Assert:
		b.resolveExpr(sc, e.Expr)
		if e.Type != nil {
			b.resolveType(sc, e.Type)
		}
	case *expr.Yield:
		if e.Expr != nil {
			b.resolveExpr(sc, e.Expr)
		}
	case *expr.FuncLiteral:
		b.resolveFuncLiteral(sc, e)
	}
}

func (b *binder) resolveType(sc *Scope, t typeexpr.Type) {
	switch t := t.(type) {
	case *typeexpr.Ref:
		root := t.Name
		if len(t.Qualifier) > 0 {
			root = t.Qualifier[0]
		}
		sym := sc.Lookup(root)
		if sym == nil {
			diag.Errorf(b.sink, t.Position, diag.CannotFindName,
				"Cannot find name '%s'.", root)
		} else {
			b.table.TypeUses[t] = sym
		}
		for _, a := range t.Args {
			b.resolveType(sc, a)
		}
	case *typeexpr.Union:
		for _, m := range t.Members {
			b.resolveType(sc, m)
		}
	case *typeexpr.Intersection:
		for _, m := range t.Members {
			b.resolveType(sc, m)
		}
	case *typeexpr.Array:
		b.resolveType(sc, t.Elem)
	case *typeexpr.Tuple:
		for _, el := range t.Elems {
			b.resolveType(sc, el)
		}
	case *typeexpr.Object:
		b.resolveObjectType(sc, t)
	case *typeexpr.Func:
		b.resolveFuncSig(sc, t.Sig)
	case *typeexpr.Paren:
		b.resolveType(sc, t.Type)
	case *typeexpr.KeyOf:
		b.resolveType(sc, t.Operand)
	case *typeexpr.IndexAccess:
		b.resolveType(sc, t.Object)
		b.resolveType(sc, t.Index)
	case *typeexpr.Template:
		for _, sub := range t.Types {
			b.resolveType(sc, sub)
		}
	case *typeexpr.Query:
		root := t.Name
		if len(t.Qualifier) > 0 {
			root = t.Qualifier[0]
		}
		sym := sc.Lookup(root)
		if sym == nil {
			diag.Errorf(b.sink, t.Position, diag.CannotFindName,
				"Cannot find name '%s'.", root)
		} else {
			b.table.TypeUses[t] = sym
		}
	}
}

func (b *binder) resolveObjectType(sc *Scope, o *typeexpr.Object) {
	for _, p := range o.Props {
		if p.Type != nil {
			b.resolveType(sc, p.Type)
		}
		if p.Sig != nil {
			b.resolveFuncSig(sc, p.Sig)
		}
	}
	for _, sig := range o.Calls {
		b.resolveFuncSig(sc, sig)
	}
	for _, sig := range o.Constructs {
		b.resolveFuncSig(sc, sig)
	}
	if o.StrIndex != nil {
		b.resolveType(sc, o.StrIndex)
	}
	if o.NumIndex != nil {
		b.resolveType(sc, o.NumIndex)
	}
}

func (b *binder) resolveFuncSig(sc *Scope, sig *typeexpr.FuncSig) {
	for _, p := range sig.Params {
		if p.Type != nil {
			b.resolveType(sc, p.Type)
		}
	}
	if sig.Result != nil {
		b.resolveType(sc, sig.Result)
	}
}
