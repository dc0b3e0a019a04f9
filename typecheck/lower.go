// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"go/constant"

	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/format"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/typeexpr"
	"tscheck.io/tsc/types"
)

func (c *Checker) typeString(t types.ID) string {
	return format.Type(c.Store, t)
}

var keywordIDs = map[string]types.ID{
	"any":       types.Any,
	"unknown":   types.Unknown,
	"never":     types.Never,
	"void":      types.Void,
	"undefined": types.Undefined,
	"null":      types.Null,
	"boolean":   types.Boolean,
	"number":    types.Number,
	"string":    types.String,
	"bigint":    types.Bigint,
	"symbol":    types.Symbol,
	"object":    types.Object,
}

// lowerType converts written type syntax to a type handle. Total:
// malformed annotations lower to ERROR.
func (c *Checker) lowerType(t typeexpr.Type) types.ID {
	switch t := t.(type) {
	case nil:
		return types.Error
	case *typeexpr.Keyword:
		if id, ok := keywordIDs[t.Name]; ok {
			return id
		}
		return types.Error
	case *typeexpr.Literal:
		switch v := t.Value.(type) {
		case string:
			return c.Store.StringLiteral(v)
		case float64:
			return c.Store.NumberLiteral(v)
		case bool:
			if v {
				return types.True
			}
			return types.False
		}
		return types.Error
	case *typeexpr.Union:
		members := make([]types.ID, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.lowerType(m)
		}
		return c.Store.Union(members...)
	case *typeexpr.Intersection:
		members := make([]types.ID, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.lowerType(m)
		}
		return c.Store.Intersection(members...)
	case *typeexpr.Array:
		return c.Store.Array(c.lowerType(t.Elem))
	case *typeexpr.Tuple:
		elems := make([]types.ID, len(t.Elems))
		for i, el := range t.Elems {
			elems[i] = c.lowerType(el)
		}
		return c.Store.Tuple(elems)
	case *typeexpr.Object:
		return c.lowerObjectBody(t)
	case *typeexpr.Func:
		return c.Store.Callable([]types.Sig{c.lowerTypeSig(t.Sig)}, nil, nil)
	case *typeexpr.Paren:
		return c.lowerType(t.Type)
	case *typeexpr.KeyOf:
		return c.Store.KeyOf(c.lowerType(t.Operand))
	case *typeexpr.IndexAccess:
		return c.Store.IndexAccess(c.lowerType(t.Object), c.lowerType(t.Index))
	case *typeexpr.Template:
		subs := make([]types.ID, len(t.Types))
		for i, sub := range t.Types {
			subs[i] = c.lowerType(sub)
		}
		return c.Store.Template(t.Texts, subs)
	case *typeexpr.Query:
		return c.lowerQuery(t)
	case *typeexpr.Ref:
		return c.lowerRef(t)
	}
	return types.Error
}

// lowerRef resolves a type reference, walking qualified names through
// namespace exports and applying type arguments.
func (c *Checker) lowerRef(t *typeexpr.Ref) types.ID {
	sym := c.table.TypeUses[t]
	if sym == nil {
		return types.Error
	}
	sym = followAlias(sym)
	var path []string
	if len(t.Qualifier) > 0 {
		path = append(path, t.Qualifier[1:]...)
		path = append(path, t.Name)
	}
	for _, step := range path {
		if sym.Exports == nil || sym.Exports[step] == nil {
			c.errorf(t.Position, diag.ModuleHasNoExport,
				"Namespace '%s' has no exported member '%s'.", sym.Name, step)
			return types.Error
		}
		sym = followAlias(sym.Exports[step])
	}
	var args []types.ID
	for _, a := range t.Args {
		args = append(args, c.lowerType(a))
	}
	return c.typeRefSymbol(sym, args)
}

// typeRefSymbol produces the type a symbol denotes at a type position.
func (c *Checker) typeRefSymbol(sym *binder.Symbol, args []types.ID) types.ID {
	f := sym.Flags
	switch {
	case f.Has(binder.TypeParam):
		return c.Store.TypeParam(sym.Name)
	case f.Has(binder.BuiltinType):
		return c.builtinRef(sym.Name, args)
	case f.Has(binder.Class) && !f.Has(binder.Interface):
		return c.instanceType(sym)
	case f.Has(binder.TypeAlias) && len(args) > 0:
		return c.instantiateAlias(sym, args)
	case f.Has(binder.TypeFlags):
		return c.TypeOfSymbol(sym)
	}
	// A value symbol in type position; its failure mode was reported
	// at the use site or by the binder.
	return types.Error
}

// builtinRef lowers references to the builtin generic type names.
// Array-shaped builtins become array types; the iterator family stays
// a symbolic application so generator checking can read the written
// arguments back.
func (c *Checker) builtinRef(name string, args []types.ID) types.ID {
	switch name {
	case "Array", "ReadonlyArray":
		elem := types.Any
		if len(args) > 0 {
			elem = args[0]
		}
		return c.Store.Array(elem)
	}
	return c.Store.Application(c.Store.Lazy(c.builtinDef(name)), args)
}

func (c *Checker) builtinDef(name string) types.DefID {
	if c.builtinDefs == nil {
		c.builtinDefs = make(map[string]types.DefID)
	}
	if def, ok := c.builtinDefs[name]; ok {
		return def
	}
	def := c.Store.NewDef(name)
	c.builtinDefs[name] = def
	return def
}

// instantiateAlias expands a generic alias application by substituting
// the written arguments for the alias's type parameters.
func (c *Checker) instantiateAlias(sym *binder.Symbol, args []types.ID) types.ID {
	body := c.TypeOfSymbol(sym)
	params := aliasParams(sym)
	if len(params) == 0 {
		return body
	}
	bind := make(map[string]types.ID, len(params))
	for i, name := range params {
		if i < len(args) {
			bind[name] = args[i]
		} else {
			bind[name] = types.Any
		}
	}
	return c.substitute(body, bind, 0)
}

func aliasParams(sym *binder.Symbol) []string {
	for _, d := range sym.Decls {
		if ta, ok := d.(*stmt.TypeAlias); ok && len(ta.TypeParams) > 0 {
			return ta.TypeParams
		}
	}
	return nil
}

func literalString(v constant.Value) string {
	if v.Kind() == constant.String {
		return constant.StringVal(v)
	}
	return v.ExactString()
}

func literalIndex(v constant.Value) (int, bool) {
	if v.Kind() != constant.Int {
		return 0, false
	}
	i, ok := constant.Int64Val(v)
	return int(i), ok
}

// substitute rewrites type parameters by name throughout a type.
func (c *Checker) substitute(t types.ID, bind map[string]types.ID, depth int) types.ID {
	if depth > 32 || len(bind) == 0 {
		return t
	}
	s := c.Store
	switch s.Kind(t) {
	case types.KindTypeParam:
		if r, ok := bind[s.TypeParamName(t)]; ok {
			return r
		}
		return t
	case types.KindUnion:
		return s.Union(c.substituteAll(s.Members(t), bind, depth)...)
	case types.KindIntersection:
		return s.Intersection(c.substituteAll(s.Members(t), bind, depth)...)
	case types.KindArray:
		return s.Array(c.substitute(s.ArrayElem(t), bind, depth+1))
	case types.KindTuple:
		return s.Tuple(c.substituteAll(s.TupleElems(t), bind, depth))
	case types.KindKeyOf:
		return s.KeyOf(c.substitute(s.KeyOfOperand(t), bind, depth+1))
	case types.KindIndexAccess:
		obj, idx := s.IndexAccessInfo(t)
		return s.IndexAccess(c.substitute(obj, bind, depth+1), c.substitute(idx, bind, depth+1))
	case types.KindApplication:
		base, args := s.ApplicationInfo(t)
		return s.Application(c.substitute(base, bind, depth+1), c.substituteAll(args, bind, depth))
	case types.KindTemplate:
		texts, subs := s.TemplateInfo(t)
		return s.Template(texts, c.substituteAll(subs, bind, depth))
	case types.KindObject:
		props, strIdx, numIdx := s.ObjectInfo(t)
		out := make([]types.Prop, len(props))
		for i, p := range props {
			p.Type = c.substitute(p.Type, bind, depth+1)
			if p.Write != types.None {
				p.Write = c.substitute(p.Write, bind, depth+1)
			}
			out[i] = p
		}
		return s.Object(out, c.substitute(strIdx, bind, depth+1), c.substitute(numIdx, bind, depth+1))
	case types.KindCallable:
		calls, constructs, props := s.CallableInfo(t)
		outProps := make([]types.Prop, len(props))
		for i, p := range props {
			p.Type = c.substitute(p.Type, bind, depth+1)
			outProps[i] = p
		}
		return s.Callable(c.substituteSigs(calls, bind, depth), c.substituteSigs(constructs, bind, depth), outProps)
	}
	return t
}

func (c *Checker) substituteAll(ts []types.ID, bind map[string]types.ID, depth int) []types.ID {
	out := make([]types.ID, len(ts))
	for i, t := range ts {
		out[i] = c.substitute(t, bind, depth+1)
	}
	return out
}

func (c *Checker) substituteSigs(sigs []types.Sig, bind map[string]types.ID, depth int) []types.Sig {
	out := make([]types.Sig, len(sigs))
	for i, sig := range sigs {
		params := make([]types.Param, len(sig.Params))
		for j, p := range sig.Params {
			p.Type = c.substitute(p.Type, bind, depth+1)
			params[j] = p
		}
		out[i] = types.Sig{Params: params, Result: c.substitute(sig.Result, bind, depth+1)}
	}
	return out
}

// lowerQuery types a typeof query from the queried symbol.
func (c *Checker) lowerQuery(t *typeexpr.Query) types.ID {
	sym := c.table.TypeUses[t]
	if sym == nil {
		return types.Error
	}
	sym = followAlias(sym)
	var path []string
	if len(t.Qualifier) > 0 {
		path = append(path, t.Qualifier[1:]...)
		path = append(path, t.Name)
	}
	for _, step := range path {
		if sym.Exports == nil || sym.Exports[step] == nil {
			c.errorf(t.Position, diag.ModuleHasNoExport,
				"Namespace '%s' has no exported member '%s'.", sym.Name, step)
			return types.Error
		}
		sym = followAlias(sym.Exports[step])
	}
	return c.TypeOfSymbol(sym)
}

// lowerObjectBody lowers an object type literal or interface body.
// Bodies with call or construct signatures become callables.
func (c *Checker) lowerObjectBody(o *typeexpr.Object) types.ID {
	var props []types.Prop
	for _, p := range o.Props {
		prop := types.Prop{
			Name:     p.Name,
			Optional: p.Optional,
			Readonly: p.Readonly,
			Method:   p.Method,
		}
		if p.Method {
			prop.Type = c.Store.Callable([]types.Sig{c.lowerTypeSig(p.Sig)}, nil, nil)
		} else if p.Type != nil {
			prop.Type = c.lowerType(p.Type)
		} else {
			prop.Type = types.Any
		}
		props = append(props, prop)
	}
	strIndex, numIndex := types.None, types.None
	if o.StrIndex != nil {
		strIndex = c.lowerType(o.StrIndex)
	}
	if o.NumIndex != nil {
		numIndex = c.lowerType(o.NumIndex)
	}
	if len(o.Calls) > 0 || len(o.Constructs) > 0 {
		var calls, constructs []types.Sig
		for _, sig := range o.Calls {
			calls = append(calls, c.lowerTypeSig(sig))
		}
		for _, sig := range o.Constructs {
			constructs = append(constructs, c.lowerTypeSig(sig))
		}
		return c.Store.Callable(calls, constructs, props)
	}
	return c.Store.Object(props, strIndex, numIndex)
}

// lowerTypeSig lowers a written function signature.
func (c *Checker) lowerTypeSig(sig *typeexpr.FuncSig) types.Sig {
	if sig == nil {
		return types.Sig{Result: types.Any}
	}
	out := types.Sig{Result: types.Any}
	if sig.Result != nil {
		out.Result = c.lowerType(sig.Result)
	}
	for _, p := range sig.Params {
		pt := types.Any
		if p.Type != nil {
			pt = c.lowerType(p.Type)
		}
		out.Params = append(out.Params, types.Param{
			Name:     p.Name,
			Type:     pt,
			Optional: p.Optional,
			Rest:     p.Rest,
		})
	}
	return out
}

// evalKeyOf evaluates keyof against a structural operand: the union of
// the operand's property-name literals. Non-structural operands stay
// symbolic.
func (c *Checker) evalKeyOf(t types.ID) types.ID {
	operand := c.resolveLazy(c.Store.KeyOfOperand(t))
	switch c.Store.Kind(operand) {
	case types.KindObject, types.KindCallable:
		props, strIdx, _ := c.Store.ObjectInfo(operand)
		if strIdx != types.None {
			return types.String
		}
		var keys []types.ID
		for _, p := range props {
			if p.Private || len(p.Name) > 0 && p.Name[0] == 0 {
				continue
			}
			keys = append(keys, c.Store.StringLiteral(p.Name))
		}
		return c.Store.Union(keys...)
	}
	return t
}

// evalIndexAccess evaluates T[K] when the parts are concrete enough.
func (c *Checker) evalIndexAccess(t types.ID) types.ID {
	obj, idx := c.Store.IndexAccessInfo(t)
	obj = c.resolveLazy(obj)
	idx = c.resolveLazy(idx)
	if c.Store.Kind(idx) == types.KindUnion {
		var parts []types.ID
		for _, m := range c.Store.Members(idx) {
			parts = append(parts, c.evalIndexAccess(c.Store.IndexAccess(obj, m)))
		}
		return c.Store.Union(parts...)
	}
	switch c.Store.Kind(obj) {
	case types.KindObject, types.KindCallable:
		props, strIdx, numIdx := c.Store.ObjectInfo(obj)
		if lv := c.Store.LiteralValue(idx); lv != nil && c.Store.Widen(idx) == types.String {
			name := literalString(lv)
			for _, p := range props {
				if p.Name == name {
					return p.ReadType()
				}
			}
		}
		if c.Store.Widen(idx) == types.String && strIdx != types.None {
			return strIdx
		}
		if c.Store.Widen(idx) == types.Number && numIdx != types.None {
			return numIdx
		}
	case types.KindArray:
		if c.Store.Widen(idx) == types.Number {
			return c.Store.ArrayElem(obj)
		}
	case types.KindTuple:
		elems := c.Store.TupleElems(obj)
		if lv := c.Store.LiteralValue(idx); lv != nil && c.Store.Widen(idx) == types.Number {
			if i, ok := literalIndex(lv); ok && i >= 0 && i < len(elems) {
				return elems[i]
			}
		}
		if c.Store.Widen(idx) == types.Number {
			return c.Store.Union(elems...)
		}
	}
	return t
}
