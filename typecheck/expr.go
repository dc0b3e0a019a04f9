// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"log"

	"github.com/davecgh/go-spew/spew"

	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/types"
)

// TypeOf computes the type of an expression, memoized per node. Total:
// every expression kind, including parser error recovery nodes,
// produces a handle.
func (c *Checker) TypeOf(e expr.Expr) types.ID {
	if e == nil {
		return types.Error
	}
	if t, ok := c.nodeTypes[e]; ok {
		return t
	}
	t := c.typeOfExpr(e)
	c.nodeTypes[e] = t
	return t
}

func (c *Checker) typeOfExpr(e expr.Expr) types.ID {
	switch e := e.(type) {
	case *expr.Ident:
		return c.identType(e)
	case *expr.BasicLiteral:
		return c.literalType(e)
	case *expr.TemplateLiteral:
		for _, sub := range e.Subs {
			c.TypeOf(sub)
		}
		return types.String
	case *expr.ArrayLiteral:
		return c.arrayLiteralType(e)
	case *expr.ObjectLiteral:
		return c.objectLiteralType(e)
	case *expr.Binary:
		return c.binaryType(e)
	case *expr.Unary:
		return c.unaryType(e)
	case *expr.Assign:
		return c.assignType(e)
	case *expr.Selector:
		return c.selectorType(e)
	case *expr.PrivateSelector:
		return c.privateSelectorType(e)
	case *expr.Index:
		return c.indexType(e)
	case *expr.Call:
		return c.callType(e)
	case *expr.New:
		return c.newType(e)
	case *expr.This:
		return c.thisExprType(e)
	case *expr.Paren:
		return c.TypeOf(e.Expr)
	case *expr.Assert:
		return c.assertType(e)
	case *expr.Yield:
		return c.yieldType(e)
	case *expr.FuncLiteral:
		return c.funcLiteralType(e)
	case *expr.Bad:
		return types.Error
	}
	log.Printf("tscheck: unhandled expression kind %T", e)
	if c.Opts.Debug {
		spew.Dump(e)
	}
	return types.Error
}

func (c *Checker) identType(e *expr.Ident) types.ID {
	sym := c.table.Uses[e]
	if sym == nil {
		// The binder reported the unresolved name already.
		return types.Error
	}
	if sym.Flags.Has(binder.KeywordType | binder.BuiltinType) {
		c.errorf(e.Position, diag.TypeUsedAsValue,
			"'%s' only refers to a type, but is being used as a value here.", e.Name)
		return types.Error
	}
	return c.narrow.Narrow(e, c.TypeOfSymbol(sym))
}

func (c *Checker) literalType(e *expr.BasicLiteral) types.ID {
	var lit types.ID
	switch e.Token {
	case token.Number:
		v, _ := e.Value.(float64)
		lit = c.Store.NumberLiteral(v)
	case token.String:
		v, _ := e.Value.(string)
		lit = c.Store.StringLiteral(v)
	case token.Bigint:
		v, _ := e.Value.(string)
		lit = c.Store.BigintLiteral(v)
	case token.True:
		lit = types.True
	case token.False:
		lit = types.False
	case token.Null:
		return types.Null
	default:
		return types.Error
	}
	if c.preserveLiteral(lit) {
		return lit
	}
	return c.Store.Widen(lit)
}

func (c *Checker) arrayLiteralType(e *expr.ArrayLiteral) types.ID {
	ctx := c.resolveLazy(c.contextual())
	ctxElem := types.None
	if c.Store.Kind(ctx) == types.KindArray {
		ctxElem = c.Store.ArrayElem(ctx)
	}
	ctxTuple := c.Store.TupleElems(ctx)
	elems := make([]types.ID, len(e.Elems))
	for i, el := range e.Elems {
		expected := ctxElem
		if i < len(ctxTuple) {
			expected = ctxTuple[i]
		}
		if expected != types.None {
			restore := c.pushContext(expected)
			elems[i] = c.TypeOf(el)
			restore()
		} else {
			elems[i] = c.TypeOf(el)
		}
	}
	if c.inConstAssertion() || len(ctxTuple) > 0 {
		return c.Store.Tuple(elems)
	}
	if len(elems) == 0 {
		return c.Store.Array(types.Any)
	}
	return c.Store.Array(c.Store.Union(elems...))
}

func (c *Checker) objectLiteralType(e *expr.ObjectLiteral) types.ID {
	ctx := c.resolveLazy(c.contextual())
	ctxProps, _, _ := c.Store.ObjectInfo(ctx)
	expectedFor := func(name string) types.ID {
		for _, p := range ctxProps {
			if p.Name == name {
				return p.ReadType()
			}
		}
		return types.None
	}
	var props []types.Prop
	for _, f := range e.Fields {
		expected := expectedFor(f.Name)
		var ft types.ID
		if expected != types.None {
			restore := c.pushContext(expected)
			ft = c.TypeOf(f.Value)
			restore()
		} else {
			ft = c.TypeOf(f.Value)
		}
		props = append(props, types.Prop{
			Name:     f.Name,
			Type:     ft,
			Readonly: c.inConstAssertion(),
		})
	}
	return c.Store.Object(props, types.None, types.None)
}

func (c *Checker) binaryType(e *expr.Binary) types.ID {
	lt := c.TypeOf(e.Left)
	rt := c.TypeOf(e.Right)
	switch e.Op {
	case token.LogicalAnd, token.LogicalOr, token.Nullish:
		return c.Store.Union(lt, rt)
	case token.Equal, token.NotEqual, token.StrictEqual, token.StrictNotEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.In, token.Instanceof:
		return types.Boolean
	case token.Add:
		lw := c.Store.Widen(c.resolveLazy(lt))
		rw := c.Store.Widen(c.resolveLazy(rt))
		if lw == types.String || rw == types.String {
			return types.String
		}
		if lw == types.Bigint && rw == types.Bigint {
			return types.Bigint
		}
		return types.Number
	default:
		if c.isBigintOp(c.resolveLazy(lt)) && c.isBigintOp(c.resolveLazy(rt)) {
			return types.Bigint
		}
		return types.Number
	}
}

func (c *Checker) unaryType(e *expr.Unary) types.ID {
	ot := c.TypeOf(e.Expr)
	switch e.Op {
	case token.Not:
		return types.Boolean
	case token.Typeof:
		return types.String
	case token.Void:
		return types.Undefined
	case token.Delete:
		return types.Boolean
	default: // -, +, ~, ++, --
		if c.isBigintOp(c.resolveLazy(ot)) {
			return types.Bigint
		}
		return types.Number
	}
}

func (c *Checker) assignType(e *expr.Assign) types.ID {
	lt := c.TypeOf(e.Left)
	c.checkAssignTarget(e.Left)
	restore := c.pushContext(lt)
	rt := c.TypeOf(e.Right)
	restore()
	if e.Op == token.Assign && !c.isAssignable(rt, lt) {
		c.errorf(e.Right.Pos(), diag.NotAssignable,
			"Type '%s' is not assignable to type '%s'.",
			c.typeString(rt), c.typeString(lt))
	}
	return rt
}

// checkAssignTarget reports writes to read-only properties: readonly
// object members and enum members.
func (c *Checker) checkAssignTarget(lhs expr.Expr) {
	sel, ok := lhs.(*expr.Selector)
	if !ok {
		return
	}
	if base := c.symbolForExpr(sel.Left); base != nil && base.Flags.Has(binder.Enum|binder.ConstEnum) {
		c.errorf(sel.Position, diag.ReadonlyAssign,
			"Cannot assign to '%s' because it is a read-only property.", sel.Name)
		return
	}
	baseT := c.resolveLazy(c.TypeOf(sel.Left))
	props, _, _ := c.Store.ObjectInfo(baseT)
	for _, p := range props {
		if p.Name == sel.Name && p.Readonly {
			c.errorf(sel.Position, diag.ReadonlyAssign,
				"Cannot assign to '%s' because it is a read-only property.", sel.Name)
			return
		}
	}
}

func (c *Checker) selectorType(e *expr.Selector) types.ID {
	// Names of namespaces and enums resolve through their export
	// tables, in symbol space rather than type space.
	if base := c.symbolForExpr(e.Left); base != nil && base.Exports != nil &&
		base.Flags.Has(binder.Namespace|binder.Enum|binder.ConstEnum) {
		member := base.Exports[e.Name]
		if member == nil {
			c.errorf(e.Position, diag.PropertyMissing,
				"Property '%s' does not exist on type 'typeof %s'.", e.Name, base.Name)
			return types.Error
		}
		return c.narrow.Narrow(e, c.TypeOfSymbol(followAlias(member)))
	}
	baseT := c.TypeOf(e.Left)
	t := c.propType(baseT, e.Name, e.Position)
	if e.Optional && c.Opts.StrictNullChecks && t != types.Error {
		t = c.Store.Union(t, types.Undefined)
	}
	return c.narrow.Narrow(e, t)
}

// propType looks a property up on a structural type, reporting TS2339
// when it cannot exist.
func (c *Checker) propType(base types.ID, name string, pos src.Pos) types.ID {
	t := c.resolveLazy(base)
	switch {
	case t == types.Any || t == types.Error || t == types.Unknown:
		return t
	case t == types.Undefined || t == types.Null || t == types.Void:
		c.errorf(pos, diag.PropertyMissing,
			"Property '%s' does not exist on type '%s'.", name, c.typeString(t))
		return types.Error
	}
	if pt, ok := c.propTypeCore(t, name); ok {
		return pt
	}
	c.errorf(pos, diag.PropertyMissing,
		"Property '%s' does not exist on type '%s'.", name, c.typeString(t))
	return types.Error
}

func (c *Checker) propTypeCore(t types.ID, name string) (types.ID, bool) {
	store := c.Store
	t = c.resolveLazy(t)
	switch store.Kind(t) {
	case types.KindUnion:
		var parts []types.ID
		for _, m := range store.Members(t) {
			pt, ok := c.propTypeCore(m, name)
			if !ok {
				return types.None, false
			}
			parts = append(parts, pt)
		}
		return store.Union(parts...), true
	case types.KindIntersection:
		for _, m := range store.Members(t) {
			if pt, ok := c.propTypeCore(m, name); ok {
				return pt, true
			}
		}
		return types.None, false
	case types.KindObject, types.KindCallable:
		props, strIdx, _ := store.ObjectInfo(t)
		for _, p := range props {
			if p.Name == name && !p.Private {
				return p.ReadType(), true
			}
		}
		if strIdx != types.None {
			return strIdx, true
		}
		return types.None, false
	case types.KindArray:
		if name == "length" {
			return types.Number, true
		}
		// Array methods are not modeled; keep access permissive.
		return types.Any, true
	case types.KindTuple:
		if name == "length" {
			return store.NumberLiteral(float64(len(store.TupleElems(t)))), true
		}
		return types.Any, true
	case types.KindEnum:
		_, structural := store.EnumInfo(t)
		return c.propTypeCore(structural, name)
	case types.KindLiteral:
		return c.propTypeCore(store.Widen(t), name)
	case types.KindTemplate:
		return c.propTypeCore(types.String, name)
	}
	switch t {
	case types.String, types.Number, types.Boolean, types.Bigint, types.Symbol, types.Object:
		if t == types.String && name == "length" {
			return types.Number, true
		}
		// Primitive wrapper members are not modeled.
		return types.Any, true
	}
	return types.None, false
}

// privateSelectorType implements private-identifier access: nominal
// when a declaring class is in scope, structural fallback otherwise.
func (c *Checker) privateSelectorType(e *expr.PrivateSelector) types.ID {
	name := "#" + e.Name
	objT := c.resolveLazy(c.TypeOf(e.Left))
	if objT == types.Any || objT == types.Error {
		return objT
	}

	var declaring *classInfo
	for i := len(c.classes) - 1; i >= 0; i-- {
		if _, ok := c.classes[i].privates[name]; ok {
			declaring = c.classes[i]
			break
		}
	}
	if declaring == nil {
		// Outside every declaring class. If the shape carries the
		// member it exists but is out of reach.
		if _, ok := c.privateProp(objT, name); ok {
			c.errorf(e.Position, diag.PrivateNotAccessible,
				"Property '%s' is not accessible outside class '%s' because it has a private identifier.",
				name, c.typeString(objT))
			return types.Error
		}
		c.errorf(e.Position, diag.PropertyMissing,
			"Property '%s' does not exist on type '%s'.", name, c.typeString(objT))
		return types.Error
	}

	if c.isAssignable(objT, declaring.instance) {
		p := declaring.privates[name]
		return c.narrow.Narrow(e, p.ReadType())
	}
	if _, ok := c.privateProp(objT, name); ok {
		c.errorf(e.Position, diag.PrivateShadowed,
			"The property '%s' cannot be accessed on type '%s' within this class because it is shadowed by another private identifier with the same spelling.",
			name, c.typeString(objT))
		return types.Error
	}
	c.errorf(e.Position, diag.PropertyMissing,
		"Property '%s' does not exist on type '%s'.", name, c.typeString(objT))
	return types.Error
}

func (c *Checker) privateProp(t types.ID, name string) (types.Prop, bool) {
	props, _, _ := c.Store.ObjectInfo(c.resolveLazy(t))
	for _, p := range props {
		if p.Private && p.Name == name {
			return p, true
		}
	}
	return types.Prop{}, false
}

func (c *Checker) indexType(e *expr.Index) types.ID {
	baseT := c.resolveLazy(c.TypeOf(e.Left))
	idxT := c.TypeOf(e.Index)
	if baseT == types.Any || baseT == types.Error {
		return baseT
	}
	sym := c.Store.IndexAccess(baseT, idxT)
	t := c.evalIndexAccess(sym)
	if t == sym {
		return types.Any
	}
	return c.narrow.Narrow(e, t)
}

func (c *Checker) callType(e *expr.Call) types.ID {
	ft := c.resolveLazy(c.TypeOf(e.Func))
	if ft == types.Any || ft == types.Error {
		for _, a := range e.Args {
			c.TypeOf(a)
		}
		return ft
	}
	calls, _, _ := c.Store.CallableInfo(ft)
	if len(calls) == 0 {
		for _, a := range e.Args {
			c.TypeOf(a)
		}
		return types.Error
	}
	sig := pickSignature(calls, len(e.Args))
	c.checkArgs(e.Args, sig)
	if sig.Result == types.None {
		return types.Any
	}
	return sig.Result
}

func (c *Checker) newType(e *expr.New) types.ID {
	ft := c.resolveLazy(c.TypeOf(e.Func))
	if ft == types.Any || ft == types.Error {
		for _, a := range e.Args {
			c.TypeOf(a)
		}
		return ft
	}
	_, constructs, _ := c.Store.CallableInfo(ft)
	if len(constructs) == 0 {
		for _, a := range e.Args {
			c.TypeOf(a)
		}
		return types.Error
	}
	sig := pickSignature(constructs, len(e.Args))
	c.checkArgs(e.Args, sig)
	if sig.Result == types.None {
		return types.Any
	}
	return sig.Result
}

// pickSignature selects the first overload whose arity admits the call,
// falling back to the last.
func pickSignature(sigs []types.Sig, argc int) types.Sig {
	for _, sig := range sigs {
		if argc >= requiredParams(sig) && (argc <= len(sig.Params) || hasRest(sig)) {
			return sig
		}
	}
	return sigs[len(sigs)-1]
}

func (c *Checker) checkArgs(args []expr.Expr, sig types.Sig) {
	for i, arg := range args {
		expected := types.None
		switch {
		case i < len(sig.Params) && !sig.Params[i].Rest:
			expected = sig.Params[i].Type
		case hasRest(sig):
			rest := sig.Params[len(sig.Params)-1].Type
			if elem := c.Store.ArrayElem(rest); elem != types.None {
				expected = elem
			} else {
				expected = rest
			}
		}
		var at types.ID
		if expected != types.None {
			restore := c.pushContext(expected)
			at = c.TypeOf(arg)
			restore()
			if !c.isAssignable(at, expected) {
				c.errorf(arg.Pos(), diag.NotAssignable,
					"Type '%s' is not assignable to type '%s'.",
					c.typeString(at), c.typeString(expected))
			}
		} else {
			c.TypeOf(arg)
		}
	}
}

func (c *Checker) thisExprType(e *expr.This) types.ID {
	if t := c.currentThis(); t != types.None {
		return t
	}
	if c.contextual() != types.None {
		// Contextually typed positions suppress the implicit-any
		// diagnostic.
		return types.Any
	}
	if c.Opts.NoImplicitThis && !c.Opts.Script && !c.thisReported[e] {
		c.thisReported[e] = true
		c.errorf(e.Position, diag.ThisImplicitAny,
			"'this' implicitly has type 'any' because it does not have a type annotation.")
	}
	return types.Any
}

func (c *Checker) assertType(e *expr.Assert) types.ID {
	switch e.Kind {
	case expr.AssertConst:
		restore := c.pushConstAssertion()
		t := c.TypeOf(e.Expr)
		restore()
		return t
	case expr.AssertSatisfies:
		target := c.lowerType(e.Type)
		restore := c.pushContext(target)
		ot := c.TypeOf(e.Expr)
		restore()
		if !c.isAssignable(ot, target) {
			c.errorf(e.Expr.Pos(), diag.NotAssignable,
				"Type '%s' is not assignable to type '%s'.",
				c.typeString(ot), c.typeString(target))
		}
		return ot
	}
	// as / <T>x: the operand is checked unconditionally for its own
	// diagnostics even though the assertion replaces its type.
	ot := c.TypeOf(e.Expr)
	target := c.lowerType(e.Type)
	c.checkAssertionOverlap(ot, target, e.Position)
	return target
}

// checkAssertionOverlap validates a plain assertion's "sufficient
// overlap": comparable in some direction, or a structural property
// overlap as the last resort. Skipped for the short-circuit sentinels
// and for types still carrying unresolved type parameters.
func (c *Checker) checkAssertionOverlap(srcT, tgt types.ID, pos src.Pos) {
	for _, t := range []types.ID{srcT, tgt} {
		r := c.resolveLazy(t)
		if r == types.Any || r == types.Unknown || r == types.Never || r == types.Error {
			return
		}
	}
	if c.containsTypeParam(c.resolveLazy(srcT), 0) || c.containsTypeParam(c.resolveLazy(tgt), 0) {
		return
	}
	if c.isComparable(srcT, tgt) {
		return
	}
	if c.sharesProperty(srcT, tgt) {
		return
	}
	c.errorf(pos, diag.AssertionNonOverlap,
		"Conversion of type '%s' to type '%s' may be a mistake because neither type sufficiently overlaps with the other. If this was intentional, convert the expression to 'unknown' first.",
		c.typeString(srcT), c.typeString(tgt))
}

func (c *Checker) sharesProperty(a, b types.ID) bool {
	ap, _, _ := c.Store.ObjectInfo(c.resolveLazy(a))
	bp, _, _ := c.Store.ObjectInfo(c.resolveLazy(b))
	if len(ap) == 0 || len(bp) == 0 {
		return false
	}
	names := make(map[string]bool, len(ap))
	for _, p := range ap {
		names[p.Name] = true
	}
	for _, p := range bp {
		if names[p.Name] {
			return true
		}
	}
	return false
}

// funcLiteralType types a function expression or arrow function and
// checks its body.
func (c *Checker) funcLiteralType(fn *expr.FuncLiteral) types.ID {
	t := c.Store.Callable([]types.Sig{c.lowerFuncSig(fn)}, nil, nil)
	if fn.Body != nil {
		c.checkFuncBody(fn)
	}
	return t
}

// lowerFuncSig builds the signature of a function literal, inferring
// the result from the body when unannotated.
func (c *Checker) lowerFuncSig(fn *expr.FuncLiteral) types.Sig {
	sig := types.Sig{Params: c.lowerParams(fn.Params)}
	switch {
	case fn.Result != nil:
		sig.Result = c.lowerType(fn.Result)
	case fn.Generator:
		sig.Result = c.builtinRef("Generator", []types.ID{types.Any, types.Any, types.Any})
	default:
		switch body := fn.Body.(type) {
		case expr.Expr:
			sig.Result = c.widenBinding(c.Store.Widen(c.TypeOf(body)))
		case *stmt.Block:
			sig.Result = c.inferReturns(body)
		default:
			// Bodiless overload declarations carry no inference source.
			sig.Result = types.Any
		}
	}
	return sig
}

func (c *Checker) lowerParams(params []*expr.Param) []types.Param {
	var out []types.Param
	for _, p := range params {
		t := types.Any
		switch {
		case p.Type != nil:
			t = c.lowerType(p.Type)
		case p.Default != nil:
			t = c.widenBinding(c.Store.Widen(c.TypeOf(p.Default)))
		}
		if p.Optional && c.Opts.StrictNullChecks {
			t = c.Store.Union(t, types.Undefined)
		}
		out = append(out, types.Param{
			Name:     p.Name,
			Type:     t,
			Optional: p.Optional,
			Rest:     p.Rest,
		})
	}
	return out
}

// inferReturns unions the widened types of a body's return statements.
// Nested function literals keep their own returns.
func (c *Checker) inferReturns(b *stmt.Block) types.ID {
	var parts []types.ID
	bare := false
	var walk func(s stmt.Stmt)
	walk = func(s stmt.Stmt) {
		switch s := s.(type) {
		case *stmt.Block:
			for _, inner := range s.Stmts {
				walk(inner)
			}
		case *stmt.If:
			walk(s.Body)
			if s.Else != nil {
				walk(s.Else)
			}
		case *stmt.Return:
			if s.Expr == nil {
				bare = true
			} else {
				parts = append(parts, c.widenBinding(c.Store.Widen(c.TypeOf(s.Expr))))
			}
		}
	}
	for _, s := range b.Stmts {
		walk(s)
	}
	if len(parts) == 0 {
		return types.Void
	}
	if bare {
		parts = append(parts, types.Undefined)
	}
	return c.Store.Union(parts...)
}
