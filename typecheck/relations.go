// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"tscheck.io/tsc/types"
)

// isAssignable reports whether src may be assigned to tgt. Total and
// memoized; recursive types are handled coinductively by assuming an
// in-flight pair holds.
func (c *Checker) isAssignable(src, tgt types.ID) bool {
	return c.related(src, tgt, relAssignable)
}

// isComparable is the weaker relation used by type assertions:
// assignable in either direction, or overlapping through union
// members.
func (c *Checker) isComparable(a, b types.ID) bool {
	return c.related(a, b, relComparable)
}

func (c *Checker) related(src, tgt types.ID, kind relKind) bool {
	if src == tgt {
		return true
	}
	// ERROR and ANY are already-explained recovery types; they relate
	// to everything so one diagnostic does not cascade.
	if src == types.Error || tgt == types.Error || src == types.Any || tgt == types.Any {
		return true
	}
	key := relKey{src: src, tgt: tgt, kind: kind}
	if v, ok := c.rel[key]; ok {
		return v
	}
	c.rel[key] = true
	var v bool
	if kind == relComparable {
		v = c.computeComparable(src, tgt)
	} else {
		v = c.computeAssignable(src, tgt)
	}
	c.rel[key] = v
	return v
}

func (c *Checker) computeComparable(a, b types.ID) bool {
	if c.related(a, b, relAssignable) || c.related(b, a, relAssignable) {
		return true
	}
	a2, b2 := c.resolveLazy(a), c.resolveLazy(b)
	if c.Store.Kind(a2) == types.KindUnion {
		for _, m := range c.Store.Members(a2) {
			if c.related(m, b, relComparable) {
				return true
			}
		}
	}
	if c.Store.Kind(b2) == types.KindUnion {
		for _, m := range c.Store.Members(b2) {
			if c.related(a, m, relComparable) {
				return true
			}
		}
	}
	return false
}

func (c *Checker) computeAssignable(src, tgt types.ID) bool {
	s := c.resolveLazy(src)
	t := c.resolveLazy(tgt)
	if s == t || s == types.Error || t == types.Error || s == types.Any || t == types.Any {
		return true
	}
	if t == types.Unknown || s == types.Never {
		return true
	}
	if !c.Opts.StrictNullChecks && (s == types.Undefined || s == types.Null) {
		return true
	}
	if s == types.Undefined && t == types.Void {
		return true
	}

	store := c.Store
	sk, tk := store.Kind(s), store.Kind(t)

	// Literal sources widen to their primitive.
	if sk == types.KindLiteral && store.Widen(s) == t {
		return true
	}

	// Normalize symbolic operators before structural rules.
	if sk == types.KindKeyOf {
		if e := c.evalKeyOf(s); e != s {
			return c.related(e, t, relAssignable)
		}
	}
	if tk == types.KindKeyOf {
		if e := c.evalKeyOf(t); e != t {
			return c.related(s, e, relAssignable)
		}
	}
	if sk == types.KindIndexAccess {
		if e := c.evalIndexAccess(s); e != s {
			return c.related(e, t, relAssignable)
		}
	}
	if tk == types.KindIndexAccess {
		if e := c.evalIndexAccess(t); e != t {
			return c.related(s, e, relAssignable)
		}
	}

	// Union and intersection decomposition. Source unions need every
	// member to fit; target unions need one member to admit.
	if sk == types.KindUnion {
		for _, m := range store.Members(s) {
			if !c.related(m, t, relAssignable) {
				return false
			}
		}
		return true
	}
	if tk == types.KindUnion {
		if s == types.Boolean && c.unionHasBools(t) {
			return true
		}
		for _, m := range store.Members(t) {
			if c.related(s, m, relAssignable) {
				return true
			}
		}
		return false
	}
	if sk == types.KindIntersection {
		for _, m := range store.Members(s) {
			if c.related(m, t, relAssignable) {
				return true
			}
		}
		return false
	}
	if tk == types.KindIntersection {
		for _, m := range store.Members(t) {
			if !c.related(s, m, relAssignable) {
				return false
			}
		}
		return true
	}

	// Enums are nominal: identity of the definition (or membership in
	// the same enum) first, then the structural side. Numeric enums
	// additionally admit plain numbers; string enums admit nothing.
	if sk == types.KindEnum && tk == types.KindEnum {
		sd, ss := store.EnumInfo(s)
		td, _ := store.EnumInfo(t)
		if c.enumRoot(sd) != c.enumRoot(td) {
			return false
		}
		if sd == td {
			return true
		}
		_, ts := store.EnumInfo(t)
		return c.related(ss, ts, relAssignable)
	}
	if sk == types.KindEnum {
		_, ss := store.EnumInfo(s)
		return c.related(ss, t, relAssignable)
	}
	if tk == types.KindEnum {
		_, ts := store.EnumInfo(t)
		if c.enumIsNumeric(ts) && store.Widen(s) == types.Number {
			return true
		}
		return false
	}

	if tk == types.KindTemplate {
		return c.matchesTemplate(s, t)
	}
	if sk == types.KindTemplate && t == types.String {
		return true
	}

	switch {
	case sk == types.KindArray && tk == types.KindArray:
		return c.related(store.ArrayElem(s), store.ArrayElem(t), relAssignable)
	case sk == types.KindTuple && tk == types.KindArray:
		elem := store.ArrayElem(t)
		for _, e := range store.TupleElems(s) {
			if !c.related(e, elem, relAssignable) {
				return false
			}
		}
		return true
	case sk == types.KindTuple && tk == types.KindTuple:
		se, te := store.TupleElems(s), store.TupleElems(t)
		if len(se) != len(te) {
			return false
		}
		for i := range se {
			if !c.related(se[i], te[i], relAssignable) {
				return false
			}
		}
		return true
	case sk == types.KindApplication && tk == types.KindApplication:
		sb, sa := store.ApplicationInfo(s)
		tb, ta := store.ApplicationInfo(t)
		if sb != tb || len(sa) != len(ta) {
			return false
		}
		for i := range sa {
			if !c.related(sa[i], ta[i], relAssignable) {
				return false
			}
		}
		return true
	}

	if tk == types.KindObject || tk == types.KindCallable {
		if sk == types.KindObject || sk == types.KindCallable {
			return c.structuralAssignable(s, t)
		}
		// Primitives are assignable to the empty object shape.
		if c.isEmptyShape(t) && s != types.Undefined && s != types.Null && s != types.Void {
			return true
		}
	}
	return false
}

func (c *Checker) unionHasBools(t types.ID) bool {
	hasTrue, hasFalse := false, false
	for _, m := range c.Store.Members(t) {
		if m == types.True {
			hasTrue = true
		}
		if m == types.False {
			hasFalse = true
		}
	}
	return hasTrue && hasFalse
}

func (c *Checker) enumRoot(def types.DefID) types.DefID {
	if parent := c.Store.EnumParent(def); parent != types.NoDef {
		return parent
	}
	return def
}

// enumIsNumeric reports whether an enum's structural type is made of
// numbers, which makes the enum open to NUMBER sources.
func (c *Checker) enumIsNumeric(structural types.ID) bool {
	if structural == types.Number {
		return true
	}
	if c.Store.Kind(structural) == types.KindUnion {
		for _, m := range c.Store.Members(structural) {
			if c.Store.Widen(m) != types.Number {
				return false
			}
		}
		return true
	}
	return c.Store.Widen(structural) == types.Number
}

func (c *Checker) isEmptyShape(t types.ID) bool {
	props, strIdx, numIdx := c.Store.ObjectInfo(t)
	calls, constructs, _ := c.Store.CallableInfo(t)
	return len(props) == 0 && len(calls) == 0 && len(constructs) == 0 &&
		strIdx == types.None && numIdx == types.None
}

// structuralAssignable checks object/callable shapes: every required
// target property present with a compatible read type, index
// signatures covered, and every target signature matched by a source
// signature.
func (c *Checker) structuralAssignable(s, t types.ID) bool {
	store := c.Store
	sprops, sstr, snum := store.ObjectInfo(s)
	tprops, tstr, tnum := store.ObjectInfo(t)
	byName := make(map[string]types.Prop, len(sprops))
	for _, p := range sprops {
		byName[p.Name] = p
	}
	for _, tp := range tprops {
		sp, ok := byName[tp.Name]
		if !ok {
			if tp.Optional {
				continue
			}
			return false
		}
		if tp.Private || sp.Private {
			// Private members are nominal; interning made identical
			// brands equal already, so a name match with differing
			// types is a mismatch.
			if sp.Private != tp.Private {
				return false
			}
		}
		if sp.Optional && !tp.Optional {
			return false
		}
		if !c.propCompatible(sp, tp) {
			return false
		}
	}
	if tstr != types.None {
		if sstr != types.None {
			if !c.related(sstr, tstr, relAssignable) {
				return false
			}
		} else {
			for _, sp := range sprops {
				if !c.related(sp.ReadType(), tstr, relAssignable) {
					return false
				}
			}
		}
	}
	if tnum != types.None {
		src := snum
		if src == types.None {
			src = sstr
		}
		if src != types.None && !c.related(src, tnum, relAssignable) {
			return false
		}
	}
	scalls, scons, _ := store.CallableInfo(s)
	tcalls, tcons, _ := store.CallableInfo(t)
	for _, tsig := range tcalls {
		if !c.someSigMatches(scalls, tsig) {
			return false
		}
	}
	for _, tsig := range tcons {
		if !c.someSigMatches(scons, tsig) {
			return false
		}
	}
	return true
}

func (c *Checker) propCompatible(sp, tp types.Prop) bool {
	if sp.Method || tp.Method {
		// Method positions are bivariant, matching the reference
		// compiler's relation for class and interface methods.
		return c.related(sp.ReadType(), tp.ReadType(), relAssignable) ||
			c.related(tp.ReadType(), sp.ReadType(), relAssignable)
	}
	return c.related(sp.ReadType(), tp.ReadType(), relAssignable)
}

func (c *Checker) someSigMatches(sigs []types.Sig, tsig types.Sig) bool {
	for _, ssig := range sigs {
		if c.sigAssignable(ssig, tsig) {
			return true
		}
	}
	return false
}

// sigAssignable checks one source signature against a target
// signature: bivariant parameters, covariant result, and a source may
// not require more parameters than the target provides.
func (c *Checker) sigAssignable(ssig, tsig types.Sig) bool {
	if requiredParams(ssig) > len(tsig.Params) && !hasRest(tsig) {
		return false
	}
	n := len(ssig.Params)
	if len(tsig.Params) < n {
		n = len(tsig.Params)
	}
	for i := 0; i < n; i++ {
		sp, tp := ssig.Params[i].Type, tsig.Params[i].Type
		if !c.related(tp, sp, relAssignable) && !c.related(sp, tp, relAssignable) {
			return false
		}
	}
	if tsig.Result == types.Void || tsig.Result == types.Any || tsig.Result == types.None {
		return true
	}
	return c.related(ssig.Result, tsig.Result, relAssignable)
}

func requiredParams(sig types.Sig) int {
	n := 0
	for _, p := range sig.Params {
		if p.Optional || p.Rest {
			continue
		}
		n++
	}
	return n
}

func hasRest(sig types.Sig) bool {
	return len(sig.Params) > 0 && sig.Params[len(sig.Params)-1].Rest
}

// matchesTemplate checks a source against a template literal type: a
// string literal must fit the pattern; strings and other templates do
// not.
func (c *Checker) matchesTemplate(s, t types.ID) bool {
	lv := c.Store.LiteralValue(s)
	if lv == nil || c.Store.Widen(s) != types.String {
		return false
	}
	text := literalString(lv)
	texts, _ := c.Store.TemplateInfo(t)
	if len(texts) == 0 {
		return text == ""
	}
	if len(texts[0]) > len(text) || text[:len(texts[0])] != texts[0] {
		return false
	}
	text = text[len(texts[0]):]
	tail := texts[len(texts)-1]
	if len(tail) > len(text) {
		return false
	}
	if text[len(text)-len(tail):] != tail {
		return false
	}
	text = text[:len(text)-len(tail)]
	// The middle has to contain the interior texts in order; the
	// substitution types are not re-validated beyond being stringy.
	for _, mid := range texts[1 : len(texts)-1] {
		i := indexOf(text, mid)
		if i < 0 {
			return false
		}
		text = text[i+len(mid):]
	}
	return true
}

func indexOf(s, sub string) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// containsTypeParam reports whether a type mentions an unresolved type
// parameter; assertion overlap checks skip such types.
func (c *Checker) containsTypeParam(t types.ID, depth int) bool {
	if depth > 16 {
		return false
	}
	store := c.Store
	switch store.Kind(t) {
	case types.KindTypeParam:
		name := store.TypeParamName(t)
		return len(name) == 0 || name[0] != 0
	case types.KindUnion, types.KindIntersection, types.KindTuple:
		for _, m := range store.Members(t) {
			if c.containsTypeParam(m, depth+1) {
				return true
			}
		}
		for _, m := range store.TupleElems(t) {
			if c.containsTypeParam(m, depth+1) {
				return true
			}
		}
	case types.KindArray:
		return c.containsTypeParam(store.ArrayElem(t), depth+1)
	case types.KindKeyOf:
		return c.containsTypeParam(store.KeyOfOperand(t), depth+1)
	case types.KindIndexAccess:
		obj, idx := store.IndexAccessInfo(t)
		return c.containsTypeParam(obj, depth+1) || c.containsTypeParam(idx, depth+1)
	case types.KindApplication:
		base, args := store.ApplicationInfo(t)
		if c.containsTypeParam(base, depth+1) {
			return true
		}
		for _, a := range args {
			if c.containsTypeParam(a, depth+1) {
				return true
			}
		}
	case types.KindObject, types.KindCallable:
		props, strIdx, numIdx := store.ObjectInfo(t)
		for _, p := range props {
			if c.containsTypeParam(p.ReadType(), depth+1) {
				return true
			}
		}
		if c.containsTypeParam(strIdx, depth+1) || c.containsTypeParam(numIdx, depth+1) {
			return true
		}
		calls, constructs, _ := store.CallableInfo(t)
		for _, sigs := range [][]types.Sig{calls, constructs} {
			for _, sig := range sigs {
				for _, p := range sig.Params {
					if c.containsTypeParam(p.Type, depth+1) {
						return true
					}
				}
				if c.containsTypeParam(sig.Result, depth+1) {
					return true
				}
			}
		}
	}
	return false
}
