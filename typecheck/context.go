// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"tscheck.io/tsc/types"
)

// Ambient context is stack-shaped: every push returns the restore
// function, and callers defer it so no exit path leaks context into a
// sibling expression.

// pushContext makes expected the ambient contextual type.
func (c *Checker) pushContext(expected types.ID) func() {
	c.ctx = append(c.ctx, expected)
	return func() { c.ctx = c.ctx[:len(c.ctx)-1] }
}

// contextual returns the current contextual type, or None.
func (c *Checker) contextual() types.ID {
	if len(c.ctx) == 0 {
		return types.None
	}
	return c.ctx[len(c.ctx)-1]
}

// pushConstAssertion enters an as-const context: literal types are
// preserved and compound literals become readonly shapes.
func (c *Checker) pushConstAssertion() func() {
	c.constDepth++
	return func() { c.constDepth-- }
}

func (c *Checker) inConstAssertion() bool { return c.constDepth > 0 }

// pushThis makes t the type of this for the duration.
func (c *Checker) pushThis(t types.ID) func() {
	c.thisTypes = append(c.thisTypes, t)
	return func() { c.thisTypes = c.thisTypes[:len(c.thisTypes)-1] }
}

func (c *Checker) currentThis() types.ID {
	if len(c.thisTypes) == 0 {
		return types.None
	}
	return c.thisTypes[len(c.thisTypes)-1]
}

// preserveLiteral decides whether a freshly computed literal type keeps
// its exact value or widens to its primitive. Preservation applies
// inside as-const contexts and when the contextual type admits the
// literal.
func (c *Checker) preserveLiteral(lit types.ID) bool {
	if c.inConstAssertion() {
		return true
	}
	return c.contextAdmitsLiteral(c.contextual(), lit, 0)
}

// contextAdmitsLiteral reports whether expected can absorb the exact
// literal type lit. Lazy references and aliases resolve first, then
// unions, keyof, indexed accesses and generic applications decompose
// structurally. Type parameters and template literal types always
// admit; their constraints are the business of generic instantiation.
func (c *Checker) contextAdmitsLiteral(expected, lit types.ID, depth int) bool {
	if expected == types.None || depth > 16 {
		return false
	}
	expected = c.resolveLazy(expected)
	if expected == lit {
		return true
	}
	switch c.Store.Kind(expected) {
	case types.KindUnion, types.KindIntersection:
		for _, m := range c.Store.Members(expected) {
			if c.contextAdmitsLiteral(m, lit, depth+1) {
				return true
			}
		}
	case types.KindTypeParam, types.KindTemplate:
		return true
	case types.KindKeyOf:
		return c.contextAdmitsLiteral(c.evalKeyOf(expected), lit, depth+1)
	case types.KindIndexAccess:
		return c.contextAdmitsLiteral(c.evalIndexAccess(expected), lit, depth+1)
	case types.KindApplication:
		base, args := c.Store.ApplicationInfo(expected)
		if c.contextAdmitsLiteral(base, lit, depth+1) {
			return true
		}
		for _, a := range args {
			if c.contextAdmitsLiteral(a, lit, depth+1) {
				return true
			}
		}
	case types.KindEnum:
		_, structural := c.Store.EnumInfo(expected)
		return c.contextAdmitsLiteral(structural, lit, depth+1)
	}
	return false
}
