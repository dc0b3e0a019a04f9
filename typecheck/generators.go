// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/typeexpr"
	"tscheck.io/tsc/types"
)

// generatorNames are the return annotations carrying a yield triple.
var generatorNames = map[string]bool{
	"Generator":        true,
	"Iterator":         true,
	"IterableIterator": true,
	"Iterable":         true,
}

// generatorInfo extracts the Y/R/N triple from a generator's return
// annotation. The written Generator<Y, R, N> reference is read
// syntactically so the triple survives even when the builtin stays an
// opaque application.
func (c *Checker) generatorInfo(fn *expr.FuncLiteral) *genInfo {
	gi := &genInfo{yield: types.Any, ret: types.None, next: types.None}
	if fn.Result == nil {
		return gi
	}
	if ref, ok := fn.Result.(*typeexpr.Ref); ok && generatorNames[ref.Name] && ref.Qualifier == nil {
		if len(ref.Args) > 0 {
			gi.yield = c.lowerType(ref.Args[0])
		}
		if len(ref.Args) > 1 {
			gi.ret = c.lowerType(ref.Args[1])
		}
		if len(ref.Args) > 2 {
			gi.next = c.lowerType(ref.Args[2])
		}
		return gi
	}
	t := c.resolveLazy(c.lowerType(fn.Result))
	if c.Store.Kind(t) == types.KindApplication {
		base, args := c.Store.ApplicationInfo(t)
		base = c.resolveLazy(base)
		if c.Store.Kind(base) == types.KindLazy && generatorNames[c.Store.DefName(c.Store.LazyDef(base))] {
			if len(args) > 0 {
				gi.yield = args[0]
			}
			if len(args) > 1 {
				gi.ret = args[1]
			}
			if len(args) > 2 {
				gi.next = args[2]
			}
		}
	}
	return gi
}

// yieldType checks a yield expression against the enclosing generator's
// triple. Delegated yields (yield*) are typed but deliberately not
// checked against the expected yield type.
func (c *Checker) yieldType(e *expr.Yield) types.ID {
	if len(c.gens) == 0 {
		if e.Expr != nil {
			c.TypeOf(e.Expr)
		}
		return types.Any
	}
	gi := c.gens[len(c.gens)-1]
	if e.Star {
		restore := c.pushContext(c.Store.Array(gi.yield))
		c.TypeOf(e.Expr)
		restore()
		return types.Any
	}
	if e.Expr == nil {
		if !c.isAssignable(types.Undefined, gi.yield) {
			c.errorf(e.Position, diag.YieldNotAssignable,
				"Type 'undefined' is not assignable to type '%s'.", c.typeString(gi.yield))
		}
	} else {
		restore := c.pushContext(gi.yield)
		got := c.TypeOf(e.Expr)
		restore()
		if !c.isAssignable(got, gi.yield) {
			c.errorf(e.Expr.Pos(), diag.YieldNotAssignable,
				"Type '%s' is not assignable to type '%s'.",
				c.typeString(got), c.typeString(gi.yield))
		}
	}
	if gi.next != types.None {
		return gi.next
	}
	return types.Any
}
