// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/parser"
)

func bind(t *testing.T, source string) (*Table, *diag.List) {
	t.Helper()
	file, errs := parser.ParseFile("test.ts", []byte(source))
	require.Empty(t, errs, "parse errors in %q", source)
	var sink diag.List
	table := Bind(file, &sink)
	return table, &sink
}

func TestDeclareAndResolve(t *testing.T) {
	table, sink := bind(t, `
let x = 1;
let y = x;
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("x")
	require.NotNil(t, sym)
	require.True(t, sym.Flags.Has(Variable))
	require.False(t, sym.Flags.Has(Const))
}

func TestConstFlag(t *testing.T) {
	table, _ := bind(t, `const k = 1;`)
	sym := table.FileScope.Lookup("k")
	require.NotNil(t, sym)
	require.True(t, sym.Flags.Has(Const))
}

func TestUnknownNameReported(t *testing.T) {
	_, sink := bind(t, `let x = missing;`)
	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.CannotFindName, sink.Diags[0].Code)
	require.Contains(t, sink.Diags[0].Msg, "missing")
}

func TestHoisting(t *testing.T) {
	_, sink := bind(t, `
let x = f();
function f(): number { return 1; }
`)
	require.Empty(t, sink.Diags, "function declarations hoist")
}

func TestInterfaceMerging(t *testing.T) {
	table, sink := bind(t, `
interface A { x: number; }
interface A { y: string; }
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("A")
	require.NotNil(t, sym)
	require.True(t, sym.Flags.Has(Interface))
	require.Len(t, sym.Decls, 2)
}

func TestClassInterfaceMerging(t *testing.T) {
	table, sink := bind(t, `
class C {}
interface C { extra: number; }
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("C")
	require.True(t, sym.Flags.Has(Class))
	require.True(t, sym.Flags.Has(Interface))
}

func TestFunctionOverloadMerging(t *testing.T) {
	table, sink := bind(t, `
function f(x: number): number;
function f(x: string): string;
function f(x: any): any { return x; }
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("f")
	require.NotNil(t, sym)
	require.Len(t, sym.Decls, 3)
}

func TestNamespaceFunctionMerging(t *testing.T) {
	table, sink := bind(t, `
function lib(): void {}
namespace lib {
  export const version = 1;
}
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("lib")
	require.True(t, sym.Flags.Has(Function))
	require.True(t, sym.Flags.Has(Namespace))
	require.NotNil(t, sym.Exports["version"])
}

func TestEnumMembers(t *testing.T) {
	table, sink := bind(t, `enum E { A, B }`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("E")
	require.True(t, sym.Flags.Has(Enum))
	a := sym.Exports["A"]
	require.NotNil(t, a)
	require.True(t, a.Flags.Has(EnumMember))
	require.Equal(t, sym, a.Parent)
}

func TestEnumNamespaceMerging(t *testing.T) {
	table, sink := bind(t, `
enum E { A }
namespace E {
  export function parse(s: string): E { return E.A; }
}
`)
	require.Empty(t, sink.Diags)
	sym := table.FileScope.Lookup("E")
	require.True(t, sym.Flags.Has(Enum))
	require.True(t, sym.Flags.Has(Namespace))
	require.NotNil(t, sym.Exports["A"])
	require.NotNil(t, sym.Exports["parse"])
}

func TestModuleExports(t *testing.T) {
	table, sink := bind(t, `
export const version = 1;
const hidden = 2;
export function f(): void {}
`)
	require.Empty(t, sink.Diags)
	require.NotNil(t, table.ModuleExports["version"])
	require.NotNil(t, table.ModuleExports["f"])
	require.Nil(t, table.ModuleExports["hidden"])

	wrapper := table.ModuleExports["version"]
	require.True(t, wrapper.Flags.Has(Export))
	require.True(t, wrapper.Local().Flags.Has(Const))
}

func TestExportNames(t *testing.T) {
	table, sink := bind(t, `
const x = 1;
export { x as y };
`)
	require.Empty(t, sink.Diags)
	require.Nil(t, table.ModuleExports["x"])
	wrapper := table.ModuleExports["y"]
	require.NotNil(t, wrapper)
	require.Equal(t, table.FileScope.Lookup("x").Local(), wrapper.Local())
}

func TestImportBindings(t *testing.T) {
	table, sink := bind(t, `
import def from "./a";
import * as ns from "./b";
import { one, two as alias } from "./c";
`)
	require.Empty(t, sink.Diags)

	def := table.FileScope.Lookup("def")
	require.NotNil(t, def)
	require.True(t, def.Flags.Has(Alias))
	require.Equal(t, &ImportRef{Module: "./a", Member: "default"}, def.Import)

	ns := table.FileScope.Lookup("ns")
	require.Equal(t, &ImportRef{Module: "./b", Member: "*"}, ns.Import)

	alias := table.FileScope.Lookup("alias")
	require.Equal(t, &ImportRef{Module: "./c", Member: "two"}, alias.Import)
	require.Nil(t, table.FileScope.Names["two"])
}

func TestImportEqualsNamespacePath(t *testing.T) {
	table, sink := bind(t, `
namespace outer {
  export namespace inner {
    export const v = 1;
  }
}
import i = outer.inner;
`)
	require.Empty(t, sink.Diags)
	i := table.FileScope.Lookup("i")
	require.NotNil(t, i)
	require.True(t, i.Flags.Has(Alias))
	require.NotNil(t, i.Target)
	require.Equal(t, "inner", i.Target.Local().Name)
}

func TestImportEqualsMissingMember(t *testing.T) {
	_, sink := bind(t, `
namespace outer {}
import i = outer.absent;
`)
	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.ModuleHasNoExport, sink.Diags[0].Code)
}

func TestBlockScoping(t *testing.T) {
	table, sink := bind(t, `
let x = 1;
{
  let x = "inner";
  let y = x;
}
let z = x;
`)
	require.Empty(t, sink.Diags)
	outer := table.FileScope.Lookup("x")
	require.NotNil(t, outer)

	// Two distinct x symbols exist among the declarations.
	seen := make(map[*Symbol]bool)
	for _, sym := range table.Decls {
		if sym.Name == "x" {
			seen[sym] = true
		}
	}
	require.Len(t, seen, 2)
}

func TestTypeAliasParams(t *testing.T) {
	_, sink := bind(t, `type Box<T> = { value: T };`)
	require.Empty(t, sink.Diags, "type parameters resolve inside the alias body")
}

func TestUniverseNames(t *testing.T) {
	_, sink := bind(t, `
let a = undefined;
let b = NaN;
let c: Array<number>;
let d: Promise<string>;
`)
	require.Empty(t, sink.Diags)
}
