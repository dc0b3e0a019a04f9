// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/types"
)

// TypeOfSymbol computes the type of sym's value binding, memoized per
// session. Resolution follows a fixed rule order because merged
// declarations overlap in flags; see resolveSymbol.
func (c *Checker) TypeOfSymbol(sym *binder.Symbol) types.ID {
	if sym == nil {
		return types.Error
	}
	if t, ok := c.symTypes[sym]; ok {
		return t
	}
	if c.resolving[sym] {
		// In-progress resolution. Named types break the cycle with a
		// lazy reference; anything else is genuinely circular.
		if sym.Flags.Has(binder.Class | binder.Interface | binder.Enum |
			binder.ConstEnum | binder.Namespace | binder.TypeAlias) {
			return c.Store.Lazy(c.defFor(sym))
		}
		return types.Error
	}
	c.resolving[sym] = true
	t := c.resolveSymbol(sym)
	delete(c.resolving, sym)
	c.symTypes[sym] = t
	return t
}

// resolveSymbol is the ordered flag dispatch. The order matters:
// class before function (class+function merges fold into the
// constructor), enum before namespace (enum+namespace keeps the enum's
// nominal type), namespace before enum member, and the alias fallback
// after everything a local declaration could explain.
func (c *Checker) resolveSymbol(sym *binder.Symbol) types.ID {
	f := sym.Flags
	switch {
	case f.Has(binder.Export) && sym.Origin != nil:
		return c.TypeOfSymbol(sym.Origin)
	case f.Has(binder.Class) && !f.Has(binder.Interface):
		return c.classType(sym)
	case f.Has(binder.Enum | binder.ConstEnum):
		return c.enumType(sym)
	case f.Has(binder.Namespace) && !f.Has(binder.Function):
		return c.Store.Lazy(c.defFor(sym))
	case f.Has(binder.EnumMember):
		return c.enumMemberType(sym)
	case f.Has(binder.Function) && !f.Has(binder.Interface):
		return c.functionType(sym)
	case f.Has(binder.Interface):
		return c.interfaceType(sym)
	case f.Has(binder.TypeAlias):
		return c.typeAliasType(sym)
	case f.Has(binder.Variable | binder.Parameter):
		return c.variableType(sym)
	case f.Has(binder.Alias):
		return c.importAliasType(sym)
	case f.Has(binder.TypeParam):
		return c.Store.TypeParam(sym.Name)
	case f.Has(binder.KeywordType | binder.BuiltinType):
		// Using a type name as a value is reported at the use site.
		return types.Error
	}
	// Unexplained symbols resolve to any; whatever went wrong was
	// reported when the name failed to bind.
	return types.Any
}

// classType builds a class symbol's constructor type: construct
// signatures returning the instance, static members as properties,
// merged function call signatures, and merged namespace exports.
func (c *Checker) classType(sym *binder.Symbol) types.ID {
	def := c.defFor(sym)
	c.instanceType(sym) // records the instance def
	var constructs []types.Sig
	var calls []types.Sig
	var props []types.Prop
	for _, d := range sym.Decls {
		switch d := d.(type) {
		case *stmt.Class:
			for _, m := range d.Members {
				if m.Kind == stmt.MemberConstructor && m.Func != nil {
					constructs = append(constructs, types.Sig{
						Params: c.lowerParams(m.Func.Params),
						Result: c.Store.Lazy(def),
					})
					continue
				}
				if !m.Static {
					continue
				}
				props = append(props, c.classMemberProp(m))
			}
		case *stmt.Func:
			if d.Func.Body == nil || len(calls) == 0 {
				calls = append(calls, c.lowerFuncSig(d.Func))
			}
		}
	}
	if len(constructs) == 0 {
		constructs = []types.Sig{{Result: c.Store.Lazy(def)}}
	}
	if sym.Flags.Has(binder.Namespace) {
		props = append(props, c.exportProps(sym)...)
	}
	sortProps(props)
	return c.Store.Callable(calls, constructs, props)
}

// instanceType builds (and caches) the structural type of a class
// instance, used at type positions and for this. Classes with private
// members carry a hidden brand property keyed by their definition id,
// which makes them nominal.
func (c *Checker) instanceType(sym *binder.Symbol) types.ID {
	if t, ok := c.instTypes[sym]; ok {
		return t
	}
	def := c.defFor(sym)
	if c.instBuilding == nil {
		c.instBuilding = make(map[*binder.Symbol]bool)
	}
	if c.instBuilding[sym] {
		return c.Store.Lazy(def)
	}
	c.instBuilding[sym] = true
	defer delete(c.instBuilding, sym)

	byName := make(map[string]int)
	var props []types.Prop
	put := func(p types.Prop) {
		i, ok := byName[p.Name]
		if !ok {
			byName[p.Name] = len(props)
			props = append(props, p)
			return
		}
		q := &props[i]
		// Getter/setter pairs fold into one read/write property; a
		// pair with both accessors is not readonly.
		switch {
		case p.Write != types.None && q.Type != types.None && q.Write == types.None:
			q.Write = p.Write
			q.Readonly = false
		case p.Type != types.None && q.Type == types.None && q.Write != types.None:
			w := q.Write
			*q = p
			q.Write = w
			q.Readonly = false
		default:
			*q = p
		}
	}

	hasPrivate := false
	for _, d := range sym.Decls {
		switch d := d.(type) {
		case *stmt.Class:
			if base := c.baseClass(d); base != nil {
				baseProps, _, _ := c.Store.ObjectInfo(c.resolveLazy(c.instanceType(base)))
				for _, p := range baseProps {
					if !p.Private {
						put(p)
					}
				}
			}
			for _, m := range d.Members {
				if m.Static || m.Kind == stmt.MemberConstructor {
					continue
				}
				p := c.classMemberProp(m)
				if p.Private {
					hasPrivate = true
				}
				put(p)
			}
		case *stmt.Interface:
			ip, _, _ := c.Store.ObjectInfo(c.lowerObjectBody(d.Body))
			for _, p := range ip {
				put(p)
			}
		}
	}
	if hasPrivate {
		put(types.Prop{Name: brandName(def), Type: types.Never, Private: true})
	}
	t := c.Store.Object(props, types.None, types.None)
	c.Store.SetDef(def, t)
	c.instTypes[sym] = t
	return t
}

func brandName(def types.DefID) string {
	return "\x00brand\x00" + itoa(uint64(def))
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// baseClass resolves the extends clause to a class symbol, or nil.
func (c *Checker) baseClass(d *stmt.Class) *binder.Symbol {
	if d.Extends == nil {
		return nil
	}
	base := c.symbolForExpr(d.Extends)
	if base == nil || !base.Flags.Has(binder.Class) {
		return nil
	}
	return base
}

// classMemberProp lowers one class member to a property.
func (c *Checker) classMemberProp(m *stmt.ClassMember) types.Prop {
	p := types.Prop{
		Name:     m.Name,
		Optional: m.Optional,
		Readonly: m.Readonly,
		Private:  m.Private,
	}
	if m.Private {
		p.Name = "#" + m.Name
	}
	switch m.Kind {
	case stmt.MemberField:
		switch {
		case m.Type != nil:
			p.Type = c.lowerType(m.Type)
		case m.Init != nil:
			p.Type = c.widenBinding(c.Store.Widen(c.TypeOf(m.Init)))
		default:
			p.Type = types.Any
		}
	case stmt.MemberMethod:
		p.Method = true
		p.Type = c.Store.Callable([]types.Sig{c.lowerFuncSig(m.Func)}, nil, nil)
	case stmt.MemberGetter:
		sig := c.lowerFuncSig(m.Func)
		p.Type = sig.Result
		p.Readonly = true
	case stmt.MemberSetter:
		sig := c.lowerFuncSig(m.Func)
		if len(sig.Params) > 0 {
			p.Write = sig.Params[0].Type
			p.Type = types.None
		}
	}
	if p.Type == types.None && p.Write == types.None {
		p.Type = types.Any
	}
	return p
}

// enumType builds the nominal enum type: each member's literal type,
// unioned into the structural type, wrapped with the enum's definition
// id. Never a bare lazy reference, never the bare structural union.
func (c *Checker) enumType(sym *binder.Symbol) types.ID {
	def := c.defFor(sym)
	var lits []types.ID
	next := 0.0
	haveNext := true
	for _, d := range sym.Decls {
		ed, ok := d.(*stmt.Enum)
		if !ok {
			continue
		}
		for _, m := range ed.Members {
			var lit types.ID
			switch {
			case m.Init == nil && haveNext:
				lit = c.Store.NumberLiteral(next)
				next++
			case m.Init == nil:
				lit = types.Number
			default:
				if v, ok := constNumber(m.Init); ok {
					lit = c.Store.NumberLiteral(v)
					next, haveNext = v+1, true
				} else if s, ok := constString(m.Init); ok {
					lit = c.Store.StringLiteral(s)
					haveNext = false
				} else {
					c.TypeOf(m.Init)
					lit = types.Number
					haveNext = false
				}
			}
			lits = append(lits, lit)
			if msym := sym.Exports[m.Name]; msym != nil {
				mdef := c.defFor(msym)
				c.Store.RegisterEnumMember(mdef, def)
				mt := c.Store.Enum(mdef, lit)
				c.symTypes[msym] = mt
				c.Store.SetDef(mdef, mt)
			}
		}
	}
	structural := types.Number
	if len(lits) > 0 {
		structural = c.Store.Union(lits...)
	}
	t := c.Store.Enum(def, structural)
	c.Store.SetDef(def, t)
	return t
}

// enumMemberType resolves a member reached before its parent enum: the
// parent's resolution populates the member cache.
func (c *Checker) enumMemberType(sym *binder.Symbol) types.ID {
	if sym.Parent != nil {
		c.TypeOfSymbol(sym.Parent)
		if t, ok := c.symTypes[sym]; ok {
			return t
		}
	}
	return types.Error
}

// functionType collects overload signatures into a callable. Overloads
// are the bodiless declarations; with none, the implementation's own
// signature is the type. Function+namespace merges fold the exports in
// as properties.
func (c *Checker) functionType(sym *binder.Symbol) types.ID {
	var overloads []types.Sig
	var impl *expr.FuncLiteral
	for _, d := range sym.Decls {
		var fn *expr.FuncLiteral
		switch d := d.(type) {
		case *stmt.Func:
			fn = d.Func
		case *expr.FuncLiteral:
			fn = d
		}
		if fn == nil {
			continue
		}
		if fn.Body == nil {
			overloads = append(overloads, c.lowerFuncSig(fn))
		} else {
			impl = fn
		}
	}
	calls := overloads
	if len(calls) == 0 && impl != nil {
		calls = []types.Sig{c.lowerFuncSig(impl)}
	}
	var props []types.Prop
	if sym.Flags.Has(binder.Namespace) {
		props = c.exportProps(sym)
		sortProps(props)
	}
	return c.Store.Callable(calls, nil, props)
}

// exportProps lowers a symbol's exported values to properties.
func (c *Checker) exportProps(sym *binder.Symbol) []types.Prop {
	var props []types.Prop
	for name, exp := range sym.Exports {
		local := exp.Local()
		if !local.Flags.Has(binder.ValueFlags) {
			continue
		}
		props = append(props, types.Prop{Name: name, Type: c.TypeOfSymbol(local)})
	}
	return props
}

// interfaceType lowers every merged declaration's members into one
// object shape, base interfaces first so derived members override.
func (c *Checker) interfaceType(sym *binder.Symbol) types.ID {
	def := c.defFor(sym)
	byName := make(map[string]int)
	var props []types.Prop
	var calls, constructs []types.Sig
	strIndex, numIndex := types.None, types.None
	put := func(p types.Prop) {
		if i, ok := byName[p.Name]; ok {
			props[i] = p
			return
		}
		byName[p.Name] = len(props)
		props = append(props, p)
	}
	for _, d := range sym.Decls {
		id, ok := d.(*stmt.Interface)
		if !ok {
			continue
		}
		for _, ext := range id.Extends {
			base := c.resolveLazy(c.lowerType(ext))
			bp, bs, bn := c.Store.ObjectInfo(base)
			for _, p := range bp {
				put(p)
			}
			if bs != types.None {
				strIndex = bs
			}
			if bn != types.None {
				numIndex = bn
			}
		}
		body := c.lowerObjectBody(id.Body)
		bp, bs, bn := c.Store.ObjectInfo(body)
		for _, p := range bp {
			put(p)
		}
		bc, bcon, _ := c.Store.CallableInfo(body)
		calls = append(calls, bc...)
		constructs = append(constructs, bcon...)
		if bs != types.None {
			strIndex = bs
		}
		if bn != types.None {
			numIndex = bn
		}
	}
	var t types.ID
	if len(calls) > 0 || len(constructs) > 0 {
		t = c.Store.Callable(calls, constructs, props)
	} else {
		t = c.Store.Object(props, strIndex, numIndex)
	}
	c.Store.SetDef(def, t)
	return t
}

// typeAliasType lowers an alias's right-hand side. A direct circular
// self-reference (the alias resolves to its own lazy handle with no
// structural wrapping) is an error, not a loop.
func (c *Checker) typeAliasType(sym *binder.Symbol) types.ID {
	def := c.defFor(sym)
	var decl *stmt.TypeAlias
	for _, d := range sym.Decls {
		if ta, ok := d.(*stmt.TypeAlias); ok && ta.Name == sym.Name {
			decl = ta
		}
	}
	if decl == nil {
		return types.Error
	}
	t := c.lowerType(decl.Type)
	if c.aliasTargets(t, def) {
		c.errorf(decl.Pos(), diag.CircularAlias,
			"Type alias '%s' circularly references itself.", sym.Name)
		t = types.Error
	}
	c.Store.SetDef(def, t)
	return t
}

// aliasTargets reports whether a lazy chain starting at t reaches def.
func (c *Checker) aliasTargets(t types.ID, def types.DefID) bool {
	for i := 0; i < 64 && c.Store.Kind(t) == types.KindLazy; i++ {
		if c.Store.LazyDef(t) == def {
			return true
		}
		next, ok := c.Store.ResolveDef(c.Store.LazyDef(t))
		if !ok {
			return false
		}
		t = next
	}
	return false
}

// variableType implements the binding inference ladder: explicit
// annotation, then const literal preservation, then initializer
// inference with fresh-literal widening.
func (c *Checker) variableType(sym *binder.Symbol) types.ID {
	switch d := sym.Decl.(type) {
	case *stmt.VarDecl:
		return c.varDeclType(sym, d)
	case *expr.Param:
		return c.paramType(d)
	case nil:
		return c.universeValueType(sym)
	}
	return types.Any
}

func (c *Checker) varDeclType(sym *binder.Symbol, d *stmt.VarDecl) types.ID {
	if d.Type != nil {
		declared := c.lowerType(d.Type)
		if d.Init != nil {
			restore := c.pushContext(declared)
			got := c.TypeOf(d.Init)
			restore()
			if !c.isAssignable(got, declared) {
				c.errorf(d.Init.Pos(), diag.NotAssignable,
					"Type '%s' is not assignable to type '%s'.",
					c.typeString(got), c.typeString(declared))
			}
		}
		return declared
	}
	if d.Init == nil {
		return types.Any
	}
	if sym.Flags.Has(binder.Const) {
		restore := c.pushConstAssertion()
		t := c.TypeOf(d.Init)
		restore()
		return c.relaxNull(t)
	}
	t := c.widenBinding(c.TypeOf(d.Init))
	return c.relaxNull(t)
}

func (c *Checker) paramType(p *expr.Param) types.ID {
	var t types.ID
	switch {
	case p.Type != nil:
		t = c.lowerType(p.Type)
	case p.Default != nil:
		t = c.widenBinding(c.TypeOf(p.Default))
	default:
		t = types.Any
	}
	if p.Optional && c.Opts.StrictNullChecks {
		t = c.Store.Union(t, types.Undefined)
	}
	return t
}

// universeValueType types the predefined values, which carry no
// declaration node.
func (c *Checker) universeValueType(sym *binder.Symbol) types.ID {
	switch sym.Name {
	case "undefined":
		return c.relaxNull(types.Undefined)
	case "NaN", "Infinity":
		return types.Number
	}
	return types.Any
}

// widenBinding widens for a mutable binding: enum members widen to
// their parent enum. Fresh literals were already widened by the
// dispatcher; surviving literal types came from as-const or a
// reference and stay narrow.
func (c *Checker) widenBinding(t types.ID) types.ID {
	if c.Store.Kind(t) == types.KindEnum {
		def, _ := c.Store.EnumInfo(t)
		if parent := c.Store.EnumParent(def); parent != types.NoDef {
			if pt, ok := c.Store.ResolveDef(parent); ok {
				return pt
			}
		}
	}
	return t
}

// relaxNull maps null/undefined inferences to any when strict null
// checking is off.
func (c *Checker) relaxNull(t types.ID) types.ID {
	if !c.Opts.StrictNullChecks && (t == types.Undefined || t == types.Null) {
		return types.Any
	}
	return t
}

// importAliasType resolves import bindings through the session's
// module tables. A missing module degrades to any with no diagnostic
// so one bad specifier does not cascade; a missing member of a present
// module is a reported error.
func (c *Checker) importAliasType(sym *binder.Symbol) types.ID {
	if sym.Target != nil {
		return c.TypeOfSymbol(sym.Target)
	}
	if sym.Import == nil {
		return types.Any
	}
	mod, ok := c.Modules[sym.Import.Module]
	if !ok {
		return types.Any
	}
	if sym.Import.Member == "*" {
		var props []types.Prop
		for name, exp := range mod.ModuleExports {
			local := exp.Local()
			if !local.Flags.Has(binder.ValueFlags) {
				continue
			}
			props = append(props, types.Prop{Name: name, Type: c.TypeOfSymbol(local)})
		}
		sortProps(props)
		return c.Store.Object(props, types.None, types.None)
	}
	exp := mod.ModuleExports[sym.Import.Member]
	if exp == nil {
		c.errorf(sym.Decl.Pos(), diag.ModuleHasNoExport,
			"Module '%s' has no exported member '%s'.",
			sym.Import.Module, sym.Import.Member)
		return types.Error
	}
	return c.TypeOfSymbol(exp)
}

// symbolForExpr returns the symbol an expression statically denotes
// when it names a class, enum, or namespace, following import aliases.
func (c *Checker) symbolForExpr(e expr.Expr) *binder.Symbol {
	switch e := e.(type) {
	case *expr.Ident:
		sym := c.table.Uses[e]
		return followAlias(sym)
	case *expr.Paren:
		return c.symbolForExpr(e.Expr)
	case *expr.Selector:
		base := c.symbolForExpr(e.Left)
		if base == nil || base.Exports == nil {
			return nil
		}
		return followAlias(base.Exports[e.Name])
	}
	return nil
}

func followAlias(sym *binder.Symbol) *binder.Symbol {
	for i := 0; i < 16 && sym != nil; i++ {
		switch {
		case sym.Flags.Has(binder.Export) && sym.Origin != nil:
			sym = sym.Origin
		case sym.Flags.Has(binder.Alias) && sym.Target != nil:
			sym = sym.Target
		default:
			return sym
		}
	}
	return sym
}

// constNumber evaluates constant numeric initializer expressions used
// by enum members.
func constNumber(e expr.Expr) (float64, bool) {
	switch e := e.(type) {
	case *expr.BasicLiteral:
		v, ok := e.Value.(float64)
		return v, ok
	case *expr.Paren:
		return constNumber(e.Expr)
	case *expr.Unary:
		if v, ok := constNumber(e.Expr); ok {
			switch e.Op {
			case token.Sub:
				return -v, true
			case token.Add:
				return v, true
			}
		}
	}
	return 0, false
}

func constString(e expr.Expr) (string, bool) {
	switch e := e.(type) {
	case *expr.BasicLiteral:
		if e.Token != token.String {
			return "", false
		}
		v, ok := e.Value.(string)
		return v, ok
	case *expr.Paren:
		return constString(e.Expr)
	}
	return "", false
}
