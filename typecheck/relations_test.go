// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/types"
)

func newTestChecker(opts Options) *Checker {
	return New(types.NewStore(), &diag.List{}, opts)
}

func TestAssignabilityBasics(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	lit := s.StringLiteral("x")
	tests := []struct {
		src, tgt types.ID
		want     bool
	}{
		{types.Number, types.Number, true},
		{types.Number, types.String, false},
		{lit, types.String, true},
		{types.String, lit, false},
		{types.Number, types.Any, true},
		{types.Any, types.Number, true},
		{types.Error, types.Never, true},
		{types.Never, types.String, true},
		{types.String, types.Unknown, true},
		{types.Unknown, types.String, false},
		{types.Undefined, types.Void, true},
		{types.Void, types.Undefined, false},
		{types.Undefined, types.String, false},
		{types.Null, types.String, false},
	}
	for _, test := range tests {
		require.Equal(t, test.want, c.isAssignable(test.src, test.tgt),
			"%d -> %d", test.src, test.tgt)
	}
}

func TestRelaxedNullAssignability(t *testing.T) {
	c := newTestChecker(Options{StrictNullChecks: false})
	require.True(t, c.isAssignable(types.Undefined, types.String))
	require.True(t, c.isAssignable(types.Null, types.Number))
}

func TestUnionAssignability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	sn := s.Union(types.String, types.Number)
	snb := s.Union(types.String, types.Number, types.Boolean)
	require.True(t, c.isAssignable(types.String, sn))
	require.True(t, c.isAssignable(sn, snb))
	require.False(t, c.isAssignable(snb, sn))

	// boolean splits into its literal members against a union target.
	tf := s.Union(types.True, types.False)
	require.True(t, c.isAssignable(types.Boolean, tf))
}

func TestObjectAssignability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	ab := s.Object([]types.Prop{
		{Name: "a", Type: types.Number},
		{Name: "b", Type: types.String},
	}, types.None, types.None)
	a := s.Object([]types.Prop{{Name: "a", Type: types.Number}}, types.None, types.None)
	aOpt := s.Object([]types.Prop{{Name: "a", Type: types.Number, Optional: true}}, types.None, types.None)

	require.True(t, c.isAssignable(ab, a), "width subtyping")
	require.False(t, c.isAssignable(a, ab), "missing required prop")
	require.True(t, c.isAssignable(a, aOpt))
	require.False(t, c.isAssignable(aOpt, a), "optional source to required target")

	empty := s.Object(nil, types.None, types.None)
	require.True(t, c.isAssignable(ab, empty))
	require.True(t, c.isAssignable(types.Number, empty), "primitives fit the empty shape")
}

func TestTupleAndArrayAssignability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	tup := s.Tuple([]types.ID{types.Number, types.Number})
	arr := s.Array(types.Number)
	wide := s.Array(s.Union(types.String, types.Number))
	require.True(t, c.isAssignable(tup, arr))
	require.False(t, c.isAssignable(arr, tup))
	require.True(t, c.isAssignable(arr, wide))
	require.False(t, c.isAssignable(wide, arr))
}

func TestSignatureAssignability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	unary := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "x", Type: types.Number}},
		Result: types.String,
	}}, nil, nil)
	nullary := s.Callable([]types.Sig{{Result: types.String}}, nil, nil)
	voidResult := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "x", Type: types.Number}},
		Result: types.Void,
	}}, nil, nil)

	// Fewer parameters are fine, extra required parameters are not.
	require.True(t, c.isAssignable(nullary, unary))
	require.False(t, c.isAssignable(unary, nullary))

	// Any result is accepted by a void-returning target.
	require.True(t, c.isAssignable(unary, voidResult))
	require.False(t, c.isAssignable(voidResult, unary))
}

func TestComparability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	lit := s.StringLiteral("a")
	require.True(t, c.isComparable(lit, types.String))
	require.True(t, c.isComparable(types.String, lit))
	require.False(t, c.isComparable(types.Number, types.String))

	u := s.Union(types.String, types.Number)
	require.True(t, c.isComparable(u, types.String))
	require.True(t, c.isComparable(types.Number, u))
}

func TestTemplateMatching(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	onX := s.Template([]string{"on", ""}, []types.ID{types.String})
	require.True(t, c.isAssignable(s.StringLiteral("onClick"), onX))
	require.True(t, c.isAssignable(s.StringLiteral("on"), onX))
	require.False(t, c.isAssignable(s.StringLiteral("Click"), onX))
	require.False(t, c.isAssignable(types.String, onX))
	require.True(t, c.isAssignable(onX, types.String))
}

func TestRecursiveTypeCoinduction(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	// type L1 = { next: L1 }, type L2 = { next: L2 }: relating them
	// must terminate and succeed via the in-flight assumption.
	d1 := s.NewDef("L1")
	d2 := s.NewDef("L2")
	l1 := s.Object([]types.Prop{{Name: "next", Type: s.Lazy(d1)}}, types.None, types.None)
	l2 := s.Object([]types.Prop{{Name: "next", Type: s.Lazy(d2)}}, types.None, types.None)
	s.SetDef(d1, l1)
	s.SetDef(d2, l2)
	require.True(t, c.isAssignable(l1, l2))
	require.True(t, c.isAssignable(s.Lazy(d1), s.Lazy(d2)))
}

func TestIntersectionAssignability(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	a := s.Object([]types.Prop{{Name: "a", Type: types.Number}}, types.None, types.None)
	b := s.Object([]types.Prop{{Name: "b", Type: types.String}}, types.None, types.None)
	both := s.Intersection(a, b)
	require.True(t, c.isAssignable(both, a))
	require.True(t, c.isAssignable(both, b))
	require.False(t, c.isAssignable(a, both))
}

func TestBivariantMethodParams(t *testing.T) {
	c := newTestChecker(strictOpts())
	s := c.Store

	animal := s.Object([]types.Prop{{Name: "name", Type: types.String}}, types.None, types.None)
	dog := s.Object([]types.Prop{
		{Name: "name", Type: types.String},
		{Name: "bark", Type: types.Boolean},
	}, types.None, types.None)

	takesAnimal := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "a", Type: animal}},
		Result: types.Void,
	}}, nil, nil)
	takesDog := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "d", Type: dog}},
		Result: types.Void,
	}}, nil, nil)

	require.True(t, c.isAssignable(takesAnimal, takesDog))
	require.True(t, c.isAssignable(takesDog, takesAnimal), "parameters relate bivariantly")
}
