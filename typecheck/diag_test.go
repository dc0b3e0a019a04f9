// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/parser"
	"tscheck.io/tsc/types"
)

func codes(sink *diag.List) []int {
	var out []int
	for _, d := range sink.Diags {
		out = append(out, d.Code)
	}
	return out
}

type diagTest struct {
	name   string
	source string
	want   []int
}

var diagTests = []diagTest{
	{
		"unknown name",
		`let x = nope;`,
		[]int{2304},
	},
	{
		"type used as value",
		`let x = string;`,
		[]int{2693},
	},
	{
		"object keyword as value",
		`let x = object;`,
		[]int{2693},
	},
	{
		"symbol keyword as value",
		`let x = symbol;`,
		[]int{2693},
	},
	{
		"type comment annotation mismatch",
		`let n /*: number */ = "s";`,
		[]int{2322},
	},
	{
		"assignment mismatch",
		`let s: string = 4;`,
		[]int{2322},
	},
	{
		"missing property",
		`let o = { a: 1 };
let b = o.b;`,
		[]int{2339},
	},
	{
		"property on undefined",
		`let u: undefined;
let x = u.anything;`,
		[]int{2339},
	},
	{
		"readonly assignment",
		`let o: { readonly a: number } = { a: 1 };
o.a = 2;`,
		[]int{2540},
	},
	{
		"enum member assignment",
		`enum E { A }
E.A = 4;`,
		[]int{2540},
	},
	{
		"non-overlapping assertion",
		`let n = 4;
let s = n as string;`,
		[]int{2352},
	},
	{
		"assertion through unknown",
		`let n = 4;
let s = n as unknown as string;`,
		nil,
	},
	{
		"overlapping assertion",
		`let u: string | number = 4;
let s = u as string;`,
		nil,
	},
	{
		"satisfies mismatch",
		`let x = { a: "s" } satisfies { a: number };`,
		[]int{2322},
	},
	{
		"satisfies keeps operand type",
		`const x = 4 satisfies number;
let y: 4 = x;`,
		nil,
	},
	{
		"this outside class",
		`let x = this;`,
		[]int{2683},
	},
	{
		"argument mismatch",
		`function f(x: number): void {}
f("s");`,
		[]int{2322},
	},
	{
		"return mismatch",
		`function f(): number { return "s"; }`,
		[]int{2322},
	},
}

func TestDiagnostics(t *testing.T) {
	for _, test := range diagTests {
		t.Run(test.name, func(t *testing.T) {
			_, _, sink := checkSrc(t, test.source, strictOpts())
			require.Equal(t, test.want, codes(sink), "source: %s", test.source)
		})
	}
}

func TestPrivateMembers(t *testing.T) {
	source := `
class Box {
  #v: number = 0;
  read(): number { return this.#v; }
}
`
	_, _, sink := checkSrc(t, source, strictOpts())
	require.Empty(t, sink.Diags)
}

func TestPrivateNotAccessibleOutside(t *testing.T) {
	source := `
class Box {
  #v: number = 0;
}
let b = new Box();
let x = b.#v;
`
	_, _, sink := checkSrc(t, source, strictOpts())
	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.PrivateNotAccessible, sink.Diags[0].Code)
}

func TestPrivateBrandNominal(t *testing.T) {
	source := `
class A {
  #v: number = 0;
}
class B {
  #v: number = 0;
}
let a: A = new B();
`
	_, _, sink := checkSrc(t, source, strictOpts())
	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.NotAssignable, sink.Diags[0].Code)
}

func TestPrivateShadowed(t *testing.T) {
	source := `
class B {
  #v: number = 0;
}
class A {
  #v: number = 0;
  read(other: B): number { return other.#v; }
}
`
	_, _, sink := checkSrc(t, source, strictOpts())
	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.PrivateShadowed, sink.Diags[0].Code)
}

func TestPublicAndPrivateSameName(t *testing.T) {
	source := `
class C {
  v: string = "";
  #v: number = 0;
  both(): string { return this.v; }
  hidden(): number { return this.#v; }
}
let c = new C();
let s: string = c.v;
`
	_, _, sink := checkSrc(t, source, strictOpts())
	require.Empty(t, sink.Diags)
}

// A missing module degrades to any with no diagnostic; a present module
// missing the requested member reports TS2305.
func TestModuleImportDegradation(t *testing.T) {
	libSource := `
export const version = 1;
export function greet(name: string): string { return name; }
`
	libFile, errs := parser.ParseFile("lib.ts", []byte(libSource))
	require.Empty(t, errs)
	var libSink diag.List
	libTable := binder.Bind(libFile, &libSink)
	require.Empty(t, libSink.Diags)

	mainSource := `
import { version, missing } from "./lib";
import { anything } from "./absent";
let v: number = version;
let a = anything;
`
	file, errs := parser.ParseFile("main.ts", []byte(mainSource))
	require.Empty(t, errs)
	var sink diag.List
	table := binder.Bind(file, &sink)
	store := types.NewStore()
	c := New(store, &sink, strictOpts())
	c.Modules["./lib"] = libTable
	c.Check(file, table)

	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.ModuleHasNoExport, sink.Diags[0].Code)
	require.Contains(t, sink.Diags[0].Msg, "missing")

	sym := table.FileScope.Lookup("anything")
	require.NotNil(t, sym)
	require.Equal(t, types.Any, c.TypeOfSymbol(sym))
}

// A missing export is reported wherever it sits in the import list,
// even when no later statement references the binding.
func TestImportListFullyResolved(t *testing.T) {
	libFile, errs := parser.ParseFile("lib.ts", []byte(`export const version = 1;`))
	require.Empty(t, errs)
	var libSink diag.List
	libTable := binder.Bind(libFile, &libSink)
	require.Empty(t, libSink.Diags)

	mainSource := `
import { missing, version } from "./lib";
let v: number = version;
`
	file, errs := parser.ParseFile("main.ts", []byte(mainSource))
	require.Empty(t, errs)
	var sink diag.List
	table := binder.Bind(file, &sink)
	c := New(types.NewStore(), &sink, strictOpts())
	c.Modules["./lib"] = libTable
	c.Check(file, table)

	require.Equal(t, []int{2305}, codes(&sink))
	require.Contains(t, sink.Diags[0].Msg, "missing")
}

func TestImportedValueTyped(t *testing.T) {
	libSource := `export function greet(name: string): string { return name; }`
	libFile, errs := parser.ParseFile("lib.ts", []byte(libSource))
	require.Empty(t, errs)
	var libSink diag.List
	libTable := binder.Bind(libFile, &libSink)

	mainSource := `
import { greet } from "./lib";
let s: string = greet("world");
let bad: number = greet("world");
`
	file, errs := parser.ParseFile("main.ts", []byte(mainSource))
	require.Empty(t, errs)
	var sink diag.List
	table := binder.Bind(file, &sink)
	c := New(types.NewStore(), &sink, strictOpts())
	c.Modules["./lib"] = libTable
	c.Check(file, table)

	require.Len(t, sink.Diags, 1)
	require.Equal(t, diag.NotAssignable, sink.Diags[0].Code)
}
