// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/types"
)

func TestIntrinsics(t *testing.T) {
	s := types.NewStore()
	tests := map[types.ID]string{
		types.Any:       "any",
		types.Unknown:   "unknown",
		types.Never:     "never",
		types.Void:      "void",
		types.Undefined: "undefined",
		types.Null:      "null",
		types.Boolean:   "boolean",
		types.Number:    "number",
		types.String:    "string",
		types.Bigint:    "bigint",
		types.True:      "true",
		types.False:     "false",
	}
	for id, want := range tests {
		require.Equal(t, want, Type(s, id))
	}
}

func TestLiterals(t *testing.T) {
	s := types.NewStore()
	require.Equal(t, `"div"`, Type(s, s.StringLiteral("div")))
	require.Equal(t, "4", Type(s, s.NumberLiteral(4)))
	require.Equal(t, "4.5", Type(s, s.NumberLiteral(4.5)))
	require.Equal(t, "42n", Type(s, s.BigintLiteral("42")))
}

func TestCompound(t *testing.T) {
	s := types.NewStore()

	u := s.Union(types.String, types.Number)
	require.Equal(t, "number | string", Type(s, u))

	require.Equal(t, "number[]", Type(s, s.Array(types.Number)))
	require.Equal(t, "(number | string)[]", Type(s, s.Array(u)))
	require.Equal(t, "[string, number]", Type(s, s.Tuple([]types.ID{types.String, types.Number})))

	obj := s.Object([]types.Prop{
		{Name: "a", Type: types.Number},
		{Name: "b", Type: types.String, Optional: true},
		{Name: "c", Type: types.Boolean, Readonly: true},
	}, types.None, types.None)
	require.Equal(t, "{ a: number; b?: string; readonly c: boolean }", Type(s, obj))

	require.Equal(t, "{}", Type(s, s.Object(nil, types.None, types.None)))

	idx := s.Object(nil, types.Number, types.None)
	require.Equal(t, "{ [x: string]: number }", Type(s, idx))
}

func TestCallables(t *testing.T) {
	s := types.NewStore()
	fn := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "x", Type: types.Number}},
		Result: types.String,
	}}, nil, nil)
	require.Equal(t, "(x: number) => string", Type(s, fn))

	rest := s.Callable([]types.Sig{{
		Params: []types.Param{{Name: "xs", Type: s.Array(types.Number), Rest: true}},
		Result: types.Void,
	}}, nil, nil)
	require.Equal(t, "(...xs: number[]) => void", Type(s, rest))

	overloaded := s.Callable([]types.Sig{
		{Result: types.Number},
		{Params: []types.Param{{Name: "s", Type: types.String}}, Result: types.Number},
	}, nil, nil)
	require.Equal(t, "{ (): number; (s: string): number }", Type(s, overloaded))
}

func TestNamedTypes(t *testing.T) {
	s := types.NewStore()
	d := s.NewDef("Tree")
	lazy := s.Lazy(d)
	require.Equal(t, "Tree", Type(s, lazy))

	e := s.NewDef("E")
	enum := s.Enum(e, s.NumberLiteral(0))
	require.Equal(t, "E", Type(s, enum))

	app := s.Application(lazy, []types.ID{types.Number, types.Void})
	require.Equal(t, "Tree<number, void>", Type(s, app))
}

func TestOperators(t *testing.T) {
	s := types.NewStore()
	obj := s.Object([]types.Prop{{Name: "a", Type: types.Number}}, types.None, types.None)
	require.Equal(t, "keyof { a: number }", Type(s, s.KeyOf(obj)))

	idx := s.IndexAccess(s.TypeParam("T"), s.StringLiteral("a"))
	require.Equal(t, `T["a"]`, Type(s, idx))

	tpl := s.Template([]string{"on", ""}, []types.ID{types.String})
	require.Equal(t, "`on${string}`", Type(s, tpl))
}

// Hidden bookkeeping properties never leak into rendered types.
func TestHiddenPropsSkipped(t *testing.T) {
	s := types.NewStore()
	obj := s.Object([]types.Prop{
		{Name: "a", Type: types.Number},
		{Name: "\x00brand\x007", Type: types.Never, Private: true},
	}, types.None, types.None)
	require.Equal(t, "{ a: number }", Type(s, obj))
}

func TestCyclicTypeTerminates(t *testing.T) {
	s := types.NewStore()
	d := s.NewDef("L")
	obj := s.Object([]types.Prop{{Name: "next", Type: s.Lazy(d)}}, types.None, types.None)
	s.SetDef(d, obj)
	require.Equal(t, "{ next: L }", Type(s, obj))
}
