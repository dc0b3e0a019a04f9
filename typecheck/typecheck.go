// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typecheck implements the demand-driven type checker. The
// entry points are Check for whole files and TypeOf/TypeOfSymbol for
// single nodes and symbols; both are memoized per session and total.
// Nothing here panics on malformed input, and no diagnostic ever
// aborts checking.
package typecheck

import (
	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/syntax"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/types"
)

// Options configure one checking session.
type Options struct {
	// StrictNullChecks keeps null and undefined out of other types.
	// When off, bindings inferred as null or undefined become any and
	// both are assignable everywhere.
	StrictNullChecks bool

	// NoImplicitThis reports this-expressions whose type cannot be
	// determined.
	NoImplicitThis bool

	// Script marks the file as a script rather than a module, which
	// permits top-level this.
	Script bool

	// Debug dumps unrecognized nodes on the dispatcher fallback path.
	Debug bool
}

// genInfo is the session's view of the enclosing generator function.
type genInfo struct {
	yield types.ID // expected type of yielded values
	ret   types.ID // declared return (second type argument)
	next  types.ID // type of a yield expression's value, None when unwritten
}

// classInfo tracks the class declaration stack for this-typing and
// private-member brand checks.
type classInfo struct {
	sym      *binder.Symbol
	decl     *stmt.Class
	instance types.ID
	privates map[string]types.Prop
}

type relKey struct {
	src, tgt types.ID
	kind     relKind
}

type relKind int

const (
	relAssignable relKind = iota
	relComparable
)

// Checker is one checking session. All caches live for the session and
// are never invalidated; declarations must not change once checking
// starts. Not safe for concurrent use.
type Checker struct {
	Store *types.Store
	Opts  Options

	// Modules maps import specifiers to the export tables of already
	// bound files. Specifiers not present degrade to any without a
	// diagnostic; a present module missing the requested member is an
	// error.
	Modules map[string]*binder.Table

	sink   diag.Sink
	table  *binder.Table
	narrow Narrower

	symTypes     map[*binder.Symbol]types.ID
	instTypes    map[*binder.Symbol]types.ID
	instBuilding map[*binder.Symbol]bool
	nodeTypes    map[syntax.Node]types.ID
	defs         map[*binder.Symbol]types.DefID
	defSyms      map[types.DefID]*binder.Symbol
	builtinDefs  map[string]types.DefID
	resolving    map[*binder.Symbol]bool

	rel map[relKey]bool

	ctx        []types.ID
	constDepth int
	thisTypes  []types.ID
	classes    []*classInfo
	results    []types.ID
	gens       []*genInfo

	thisReported map[syntax.Node]bool
}

// New returns a checker session over store, reporting to sink.
func New(store *types.Store, sink diag.Sink, opts Options) *Checker {
	return &Checker{
		Store:        store,
		Opts:         opts,
		Modules:      make(map[string]*binder.Table),
		sink:         sink,
		narrow:       nopNarrower{},
		symTypes:     make(map[*binder.Symbol]types.ID),
		instTypes:    make(map[*binder.Symbol]types.ID),
		nodeTypes:    make(map[syntax.Node]types.ID),
		defs:         make(map[*binder.Symbol]types.DefID),
		defSyms:      make(map[types.DefID]*binder.Symbol),
		resolving:    make(map[*binder.Symbol]bool),
		rel:          make(map[relKey]bool),
		thisReported: make(map[syntax.Node]bool),
	}
}

// Check type-checks every statement of file against its binding table.
func (c *Checker) Check(file *stmt.File, table *binder.Table) {
	c.table = table
	for _, s := range file.Stmts {
		c.checkStmt(s)
	}
}

// Table returns the binding table of the file being checked.
func (c *Checker) Table() *binder.Table { return c.table }

func (c *Checker) errorf(pos src.Pos, code int, format string, args ...interface{}) {
	diag.Errorf(c.sink, pos, code, format, args...)
}

func (c *Checker) checkStmt(s stmt.Stmt) {
	switch s := s.(type) {
	case *stmt.Block:
		for _, inner := range s.Stmts {
			c.checkStmt(inner)
		}
	case *stmt.Simple:
		c.TypeOf(s.Expr)
	case *stmt.Return:
		c.checkReturn(s)
	case *stmt.If:
		c.TypeOf(s.Cond)
		c.checkStmt(s.Body)
		if s.Else != nil {
			c.checkStmt(s.Else)
		}
	case *stmt.Var:
		for _, d := range s.Decls {
			if sym := c.table.Decls[d]; sym != nil {
				c.TypeOfSymbol(sym)
			}
		}
	case *stmt.Func:
		if sym := c.table.Decls[s]; sym != nil {
			c.TypeOfSymbol(sym)
		}
		if s.Func.Body != nil {
			c.checkFuncBody(s.Func)
		}
	case *stmt.Class:
		c.checkClass(s)
	case *stmt.Interface, *stmt.TypeAlias, *stmt.Enum:
		if sym := c.table.Decls[s]; sym != nil {
			c.TypeOfSymbol(sym)
		}
	case *stmt.Namespace:
		if sym := c.table.Decls[s]; sym != nil {
			c.TypeOfSymbol(sym)
		}
		for _, inner := range s.Body.Stmts {
			c.checkStmt(inner)
		}
	case *stmt.Import:
		for _, sym := range c.table.Imports[s] {
			c.TypeOfSymbol(sym)
		}
	case *stmt.ExportDefault:
		c.TypeOf(s.Expr)
	}
}

func (c *Checker) checkReturn(s *stmt.Return) {
	expected := types.None
	if len(c.gens) > 0 {
		expected = c.gens[len(c.gens)-1].ret
	} else if len(c.results) > 0 {
		expected = c.results[len(c.results)-1]
	}
	if s.Expr == nil {
		return
	}
	var got types.ID
	if expected != types.None {
		restore := c.pushContext(expected)
		got = c.TypeOf(s.Expr)
		restore()
		if !c.isAssignable(got, expected) {
			c.errorf(s.Expr.Pos(), diag.NotAssignable,
				"Type '%s' is not assignable to type '%s'.",
				c.typeString(got), c.typeString(expected))
		}
		return
	}
	c.TypeOf(s.Expr)
}

// checkFuncBody checks a function's statements under its declared
// result and, for generators, its yield triple.
func (c *Checker) checkFuncBody(fn *expr.FuncLiteral) {
	result := types.None
	if fn.Result != nil {
		result = c.lowerType(fn.Result)
	}
	if fn.Generator {
		gi := c.generatorInfo(fn)
		c.gens = append(c.gens, gi)
		defer func() { c.gens = c.gens[:len(c.gens)-1] }()
	} else {
		c.results = append(c.results, result)
		defer func() { c.results = c.results[:len(c.results)-1] }()
	}
	for _, p := range fn.Params {
		if sym := c.table.Decls[p]; sym != nil {
			c.TypeOfSymbol(sym)
		}
	}
	switch body := fn.Body.(type) {
	case *stmt.Block:
		for _, s := range body.Stmts {
			c.checkStmt(s)
		}
	case expr.Expr:
		if result != types.None {
			restore := c.pushContext(result)
			got := c.TypeOf(body)
			restore()
			if !c.isAssignable(got, result) {
				c.errorf(body.Pos(), diag.NotAssignable,
					"Type '%s' is not assignable to type '%s'.",
					c.typeString(got), c.typeString(result))
			}
		} else {
			c.TypeOf(body)
		}
	}
}

func (c *Checker) checkClass(s *stmt.Class) {
	sym := c.table.Decls[s]
	if sym == nil {
		return
	}
	c.TypeOfSymbol(sym)
	instance := c.instanceType(sym)
	info := &classInfo{
		sym:      sym,
		decl:     s,
		instance: instance,
		privates: make(map[string]types.Prop),
	}
	props, _, _ := c.Store.ObjectInfo(c.resolveLazy(instance))
	for _, p := range props {
		if p.Private {
			info.privates[p.Name] = p
		}
	}
	c.classes = append(c.classes, info)
	restoreThis := c.pushThis(instance)
	defer func() {
		restoreThis()
		c.classes = c.classes[:len(c.classes)-1]
	}()

	for _, m := range s.Members {
		switch m.Kind {
		case stmt.MemberField:
			c.checkFieldInit(m)
		case stmt.MemberMethod, stmt.MemberGetter, stmt.MemberSetter, stmt.MemberConstructor:
			if m.Func != nil && m.Func.Body != nil {
				c.checkFuncBody(m.Func)
			}
		}
	}
}

func (c *Checker) checkFieldInit(m *stmt.ClassMember) {
	if m.Init == nil {
		return
	}
	if m.Type == nil {
		c.TypeOf(m.Init)
		return
	}
	declared := c.lowerType(m.Type)
	restore := c.pushContext(declared)
	got := c.TypeOf(m.Init)
	restore()
	if !c.isAssignable(got, declared) {
		c.errorf(m.Init.Pos(), diag.NotAssignable,
			"Type '%s' is not assignable to type '%s'.",
			c.typeString(got), c.typeString(declared))
	}
}

// defFor returns the definition id for sym, allocating on first use.
func (c *Checker) defFor(sym *binder.Symbol) types.DefID {
	if def, ok := c.defs[sym]; ok {
		return def
	}
	def := c.Store.NewDef(sym.Name)
	c.defs[sym] = def
	c.defSyms[def] = sym
	return def
}

// resolveLazy unwraps lazy references, building the definition's
// structural type on demand when the owning symbol is known but not
// yet resolved.
func (c *Checker) resolveLazy(t types.ID) types.ID {
	for i := 0; i < 64; i++ {
		if c.Store.Kind(t) != types.KindLazy {
			return t
		}
		def := c.Store.LazyDef(t)
		if r, ok := c.Store.ResolveDef(def); ok && r != t {
			t = r
			continue
		}
		sym := c.defSyms[def]
		if sym == nil || c.resolving[sym] {
			return t
		}
		if sym.Flags.Has(binder.Namespace) && !sym.Flags.Has(binder.Function) {
			c.Store.SetDef(def, c.namespaceObject(sym))
		} else {
			c.TypeOfSymbol(sym)
		}
		r, ok := c.Store.ResolveDef(def)
		if !ok || r == t {
			return t
		}
		t = r
	}
	return t
}

// namespaceObject synthesizes the object type exposing a namespace's
// exported values.
func (c *Checker) namespaceObject(sym *binder.Symbol) types.ID {
	var props []types.Prop
	for name, exp := range sym.Exports {
		local := exp.Local()
		if !local.Flags.Has(binder.ValueFlags) {
			continue
		}
		props = append(props, types.Prop{Name: name, Type: c.TypeOfSymbol(local)})
	}
	sortProps(props)
	return c.Store.Object(props, types.None, types.None)
}

func sortProps(props []types.Prop) {
	for i := 1; i < len(props); i++ {
		for j := i; j > 0 && props[j].Name < props[j-1].Name; j-- {
			props[j], props[j-1] = props[j-1], props[j]
		}
	}
}

// isBigintOp reports whether a binary arithmetic operand forces bigint
// arithmetic.
func (c *Checker) isBigintOp(t types.ID) bool {
	return c.Store.Widen(t) == types.Bigint
}
