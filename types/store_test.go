// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralInterning(t *testing.T) {
	s := NewStore()
	a := s.StringLiteral("div")
	b := s.StringLiteral("div")
	require.Equal(t, a, b)
	require.NotEqual(t, a, s.StringLiteral("span"))

	n1 := s.NumberLiteral(3)
	n2 := s.NumberLiteral(3)
	require.Equal(t, n1, n2)
	require.NotEqual(t, n1, s.NumberLiteral(3.5))

	big1 := s.BigintLiteral("42")
	big2 := s.BigintLiteral("42")
	require.Equal(t, big1, big2)

	// Number 42 and bigint 42 are distinct types.
	require.NotEqual(t, s.NumberLiteral(42), big1)
}

func TestBooleanLiteralSentinels(t *testing.T) {
	s := NewStore()
	require.Equal(t, True, s.Literal(s.LiteralValue(True)))
	require.Equal(t, Boolean, s.Widen(True))
	require.Equal(t, Boolean, s.Widen(False))
}

func TestWiden(t *testing.T) {
	s := NewStore()
	require.Equal(t, String, s.Widen(s.StringLiteral("a")))
	require.Equal(t, Number, s.Widen(s.NumberLiteral(1)))
	require.Equal(t, Bigint, s.Widen(s.BigintLiteral("1")))
	// Non-literals widen to themselves.
	require.Equal(t, String, s.Widen(String))
	u := s.Union(String, Number)
	require.Equal(t, u, s.Widen(u))
}

func TestUnionCanonicalization(t *testing.T) {
	s := NewStore()

	ab := s.Union(String, Number)
	ba := s.Union(Number, String)
	require.Equal(t, ab, ba, "order insensitive")

	require.Equal(t, ab, s.Union(String, Number, String), "duplicates collapse")
	require.Equal(t, ab, s.Union(s.Union(String, Number)), "nested unions flatten")
	require.Equal(t, ab, s.Union(String, s.Union(Number, String)))

	require.Equal(t, String, s.Union(String), "single member collapses")
	require.Equal(t, String, s.Union(String, Never), "never drops")
	require.Equal(t, Never, s.Union(), "empty union is never")

	require.Equal(t, Any, s.Union(String, Any), "any absorbs")
	require.Equal(t, Any, s.Union(String, Error), "error degrades to any")
}

func TestIntersectionCanonicalization(t *testing.T) {
	s := NewStore()
	a := s.Object([]Prop{{Name: "a", Type: Number}}, None, None)
	b := s.Object([]Prop{{Name: "b", Type: String}}, None, None)

	require.Equal(t, s.Intersection(a, b), s.Intersection(b, a))
	require.Equal(t, Never, s.Intersection(a, Never))
	require.Equal(t, Any, s.Intersection(a, Any))
	require.Equal(t, a, s.Intersection(a, Unknown), "unknown drops")
	require.Equal(t, Unknown, s.Intersection(), "empty intersection is unknown")
	require.Equal(t, a, s.Intersection(a))
}

func TestObjectInterning(t *testing.T) {
	s := NewStore()
	mk := func() ID {
		return s.Object([]Prop{
			{Name: "x", Type: Number},
			{Name: "y", Type: String, Optional: true},
		}, None, None)
	}
	require.Equal(t, mk(), mk())

	readonly := s.Object([]Prop{{Name: "x", Type: Number, Readonly: true}}, None, None)
	plain := s.Object([]Prop{{Name: "x", Type: Number}}, None, None)
	require.NotEqual(t, readonly, plain, "flags are part of identity")
}

func TestCallableInterning(t *testing.T) {
	s := NewStore()
	sig := Sig{Params: []Param{{Name: "x", Type: Number}}, Result: String}
	a := s.Callable([]Sig{sig}, nil, nil)
	b := s.Callable([]Sig{sig}, nil, nil)
	require.Equal(t, a, b)

	other := Sig{Params: []Param{{Name: "x", Type: String}}, Result: String}
	require.NotEqual(t, a, s.Callable([]Sig{other}, nil, nil))
}

func TestArrayTupleDistinct(t *testing.T) {
	s := NewStore()
	arr := s.Array(Number)
	tup := s.Tuple([]ID{Number})
	require.NotEqual(t, arr, tup)
	require.Equal(t, arr, s.Array(Number))
	require.Equal(t, tup, s.Tuple([]ID{Number}))
	require.Equal(t, Number, s.ArrayElem(arr))
	require.Equal(t, []ID{Number}, s.TupleElems(tup))
}

func TestDefTable(t *testing.T) {
	s := NewStore()
	d := s.NewDef("T")
	require.Equal(t, "T", s.DefName(d))

	lazy := s.Lazy(d)
	require.Equal(t, lazy, s.Lazy(d), "lazy handles intern")
	_, ok := s.ResolveDef(d)
	require.False(t, ok, "unresolved until SetDef")

	obj := s.Object([]Prop{{Name: "v", Type: Number}}, None, None)
	s.SetDef(d, obj)
	got, ok := s.ResolveDef(d)
	require.True(t, ok)
	require.Equal(t, obj, got)

	// First resolution wins.
	s.SetDef(d, String)
	got, _ = s.ResolveDef(d)
	require.Equal(t, obj, got)
}

func TestResolveLazyBounded(t *testing.T) {
	s := NewStore()
	d1 := s.NewDef("A")
	d2 := s.NewDef("B")
	s.SetDef(d1, s.Lazy(d2))
	s.SetDef(d2, s.Lazy(d1))
	// A lazy cycle terminates rather than spinning.
	got := s.ResolveLazy(s.Lazy(d1))
	require.Equal(t, KindLazy, s.Kind(got))
}

func TestEnumRegistry(t *testing.T) {
	s := NewStore()
	parent := s.NewDef("E")
	member := s.NewDef("A")
	s.RegisterEnumMember(member, parent)
	require.Equal(t, parent, s.EnumParent(member))
	require.Equal(t, NoDef, s.EnumParent(parent))

	lit := s.NumberLiteral(0)
	e1 := s.Enum(member, lit)
	e2 := s.Enum(member, lit)
	require.Equal(t, e1, e2)

	def, structural := s.EnumInfo(e1)
	require.Equal(t, member, def)
	require.Equal(t, lit, structural)

	// Same shape under a different definition is a different type.
	other := s.NewDef("F")
	require.NotEqual(t, e1, s.Enum(other, lit))
}

func TestTemplateInterning(t *testing.T) {
	s := NewStore()
	a := s.Template([]string{"on", ""}, []ID{String})
	b := s.Template([]string{"on", ""}, []ID{String})
	require.Equal(t, a, b)
	require.NotEqual(t, a, s.Template([]string{"off", ""}, []ID{String}))

	texts, subs := s.TemplateInfo(a)
	require.Equal(t, []string{"on", ""}, texts)
	require.Equal(t, []ID{String}, subs)
}

func TestKindIsTotal(t *testing.T) {
	s := NewStore()
	// Out-of-range handles answer like intrinsics instead of panicking
	// consumers that probe kinds.
	require.Equal(t, KindIntrinsic, s.Kind(ID(1<<30)))
	require.Nil(t, s.Members(String))
	require.Equal(t, None, s.ArrayElem(String))
}
