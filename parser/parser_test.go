// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/syntax"
	"tscheck.io/tsc/syntax/expr"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/syntax/token"
	"tscheck.io/tsc/syntax/typeexpr"
)

func parse(t *testing.T, source string) *stmt.File {
	t.Helper()
	f, errs := ParseFile("test.ts", []byte(source))
	require.Empty(t, errs, "source: %s", source)
	require.NotNil(t, f)
	return f
}

func parseOne(t *testing.T, source string) stmt.Stmt {
	t.Helper()
	f := parse(t, source)
	require.Len(t, f.Stmts, 1)
	return f.Stmts[0]
}

func parseExprStmt(t *testing.T, source string) expr.Expr {
	t.Helper()
	s, ok := parseOne(t, source).(*stmt.Simple)
	require.True(t, ok, "not an expression statement: %s", source)
	return s.Expr
}

func TestParseVar(t *testing.T) {
	s, ok := parseOne(t, `let x: number = 4;`).(*stmt.Var)
	require.True(t, ok)
	require.Equal(t, token.Let, s.Kw)
	require.Len(t, s.Decls, 1)
	d := s.Decls[0]
	require.Equal(t, "x", d.Name)
	require.IsType(t, &typeexpr.Keyword{}, d.Type)
	require.IsType(t, &expr.BasicLiteral{}, d.Init)
}

func TestParseConstMulti(t *testing.T) {
	s, ok := parseOne(t, `const a = 1, b = "s";`).(*stmt.Var)
	require.True(t, ok)
	require.Equal(t, token.Const, s.Kw)
	require.Len(t, s.Decls, 2)
}

func TestParseBinaryPrecedence(t *testing.T) {
	e, ok := parseExprStmt(t, `1 + 2 * 3;`).(*expr.Binary)
	require.True(t, ok)
	require.Equal(t, token.Add, e.Op)
	right, ok := e.Right.(*expr.Binary)
	require.True(t, ok)
	require.Equal(t, token.Mul, right.Op)
}

func TestParseLogicalChain(t *testing.T) {
	e, ok := parseExprStmt(t, `a && b || c ?? d;`).(*expr.Binary)
	require.True(t, ok)
	require.Equal(t, token.Nullish, e.Op)
}

func TestParseCallAndSelector(t *testing.T) {
	e, ok := parseExprStmt(t, `obj.method(1, "two");`).(*expr.Call)
	require.True(t, ok)
	sel, ok := e.Func.(*expr.Selector)
	require.True(t, ok)
	require.Equal(t, "method", sel.Name)
	require.Len(t, e.Args, 2)
}

func TestParseOptionalChain(t *testing.T) {
	e, ok := parseExprStmt(t, `a?.b;`).(*expr.Selector)
	require.True(t, ok)
	require.True(t, e.Optional)
}

func TestParsePrivateSelector(t *testing.T) {
	e, ok := parseExprStmt(t, `this.#count;`).(*expr.PrivateSelector)
	require.True(t, ok)
	require.Equal(t, "count", e.Name)
	require.IsType(t, &expr.This{}, e.Left)
}

func TestParseArrowFunctions(t *testing.T) {
	e, ok := parseExprStmt(t, `(x: number): number => x + 1;`).(*expr.FuncLiteral)
	require.True(t, ok)
	require.True(t, e.Arrow)
	require.Len(t, e.Params, 1)
	require.Equal(t, "x", e.Params[0].Name)
	require.NotNil(t, e.Result)
	require.IsType(t, &expr.Binary{}, e.Body)
}

func TestParseAssertions(t *testing.T) {
	as, ok := parseExprStmt(t, `x as string;`).(*expr.Assert)
	require.True(t, ok)
	require.Equal(t, expr.AssertAs, as.Kind)
	require.IsType(t, &typeexpr.Keyword{}, as.Type)

	sat, ok := parseExprStmt(t, `x satisfies number;`).(*expr.Assert)
	require.True(t, ok)
	require.Equal(t, expr.AssertSatisfies, sat.Kind)

	konst, ok := parseExprStmt(t, `x as const;`).(*expr.Assert)
	require.True(t, ok)
	require.Equal(t, expr.AssertConst, konst.Kind)
	require.Nil(t, konst.Type)

	angle, ok := parseExprStmt(t, `<string>x;`).(*expr.Assert)
	require.True(t, ok)
	require.Equal(t, expr.AssertAngle, angle.Kind)
}

func TestParseFunctionDecl(t *testing.T) {
	s, ok := parseOne(t, `function f(a: string, b?: number): void {}`).(*stmt.Func)
	require.True(t, ok)
	require.Equal(t, "f", s.Name)
	require.Len(t, s.Func.Params, 2)
	require.True(t, s.Func.Params[1].Optional)
	require.False(t, s.Func.Generator)
}

func TestParseGenerator(t *testing.T) {
	s, ok := parseOne(t, `function* g(): Generator<number, void, string> { yield 1; }`).(*stmt.Func)
	require.True(t, ok)
	require.True(t, s.Func.Generator)
	ref, ok := s.Func.Result.(*typeexpr.Ref)
	require.True(t, ok)
	require.Equal(t, "Generator", ref.Name)
	require.Len(t, ref.Args, 3)
}

func TestParseClass(t *testing.T) {
	s, ok := parseOne(t, `
class Counter extends Base {
  count: number = 0;
  #secret: string = "";
  static zero: number = 0;
  readonly tag: string = "c";
  constructor(start: number) {}
  step(): number { return 1; }
  get value(): number { return 1; }
  set value(v: number) {}
}`).(*stmt.Class)
	require.True(t, ok)
	require.Equal(t, "Counter", s.Name)
	require.NotNil(t, s.Extends)

	kinds := make(map[stmt.MemberKind]int)
	for _, m := range s.Members {
		kinds[m.Kind]++
	}
	require.Equal(t, 4, kinds[stmt.MemberField])
	require.Equal(t, 1, kinds[stmt.MemberConstructor])
	require.Equal(t, 1, kinds[stmt.MemberMethod])
	require.Equal(t, 1, kinds[stmt.MemberGetter])
	require.Equal(t, 1, kinds[stmt.MemberSetter])

	var private, static, readonly int
	for _, m := range s.Members {
		if m.Private {
			private++
		}
		if m.Static {
			static++
		}
		if m.Readonly {
			readonly++
		}
	}
	require.Equal(t, 1, private)
	require.Equal(t, 1, static)
	require.Equal(t, 1, readonly)
}

func TestParseInterface(t *testing.T) {
	s, ok := parseOne(t, `
interface Shape extends Named {
  area(): number;
  sides?: number;
  readonly id: string;
}`).(*stmt.Interface)
	require.True(t, ok)
	require.Equal(t, "Shape", s.Name)
	require.Len(t, s.Extends, 1)
	require.Len(t, s.Body.Props, 3)
}

func TestParseEnum(t *testing.T) {
	s, ok := parseOne(t, `enum Color { Red, Green = 4, Blue }`).(*stmt.Enum)
	require.True(t, ok)
	require.Equal(t, "Color", s.Name)
	require.Len(t, s.Members, 3)
	require.Nil(t, s.Members[0].Init)
	require.NotNil(t, s.Members[1].Init)

	ce, ok := parseOne(t, `const enum Flag { On }`).(*stmt.Enum)
	require.True(t, ok)
	require.True(t, ce.Const)
}

func TestParseTypeAlias(t *testing.T) {
	s, ok := parseOne(t, `type Box<T> = { value: T };`).(*stmt.TypeAlias)
	require.True(t, ok)
	require.Equal(t, "Box", s.Name)
	require.Equal(t, []string{"T"}, s.TypeParams)
	require.IsType(t, &typeexpr.Object{}, s.Type)
}

func TestParseTypeForms(t *testing.T) {
	sources := []string{
		`let a: string | number;`,
		`let b: A & B;`,
		`let c: number[];`,
		`let d: [string, number];`,
		`let e: { a: number; b?: string };`,
		`let f: (x: number) => string;`,
		`let g: new (x: number) => Box;`,
		`let h: keyof Conf;`,
		`let i: Conf["port"];`,
		`let j: "up" | "down";`,
		`let k: -1 | 0 | 1;`,
		`let l: Map<string, number>;`,
		`let m: typeof other;`,
		`let n: ns.Inner.Deep;`,
		`let o: { [key: string]: number };`,
		`let p: string[][];`,
		`let q: (string | number)[];`,
		"let r: `on${string}`;",
	}
	for _, source := range sources {
		f, errs := ParseFile("test.ts", []byte(source))
		require.Empty(t, errs, "source: %s", source)
		v, ok := f.Stmts[0].(*stmt.Var)
		require.True(t, ok, "source: %s", source)
		require.NotNil(t, v.Decls[0].Type, "source: %s", source)
		_, bad := v.Decls[0].Type.(*typeexpr.Bad)
		require.False(t, bad, "source: %s", source)
	}
}

func TestParseNamespace(t *testing.T) {
	s, ok := parseOne(t, `
namespace util {
  export const version = 3;
  export function id(x: number): number { return x; }
}`).(*stmt.Namespace)
	require.True(t, ok)
	require.Equal(t, "util", s.Name)
	require.Len(t, s.Body.Stmts, 2)
}

func TestParseImports(t *testing.T) {
	f := parse(t, `
import def from "./a";
import * as ns from "./b";
import { one, two as alias } from "./c";
import eq = ns.Inner;
`)
	require.Len(t, f.Stmts, 4)
	def := f.Stmts[0].(*stmt.Import)
	require.Equal(t, "def", def.Default)
	star := f.Stmts[1].(*stmt.Import)
	require.Equal(t, "ns", star.Namespace)
	named := f.Stmts[2].(*stmt.Import)
	require.Len(t, named.Named, 2)
	require.Equal(t, "alias", named.Named[1].Alias)
	eq := f.Stmts[3].(*stmt.Import)
	require.NotNil(t, eq.Equals)
}

func TestParseExports(t *testing.T) {
	f := parse(t, `
export const x = 1;
export function f(): void {}
export { x as y };
export default f;
`)
	require.Len(t, f.Stmts, 4)
	require.True(t, f.Stmts[0].(*stmt.Var).Export)
	require.True(t, f.Stmts[1].(*stmt.Func).Export)
	require.IsType(t, &stmt.ExportNames{}, f.Stmts[2])
	require.IsType(t, &stmt.ExportDefault{}, f.Stmts[3])
}

func TestParseTemplateLiteral(t *testing.T) {
	e, ok := parseExprStmt(t, "`a${x}b${y}c`;").(*expr.TemplateLiteral)
	require.True(t, ok)
	require.Len(t, e.Subs, 2)
}

// The parser is total: arbitrary garbage still produces a File, with
// errors reported rather than panics.
func TestParseRecovery(t *testing.T) {
	sources := []string{
		`let = ;`,
		`function (((`,
		`class { !!! }`,
		`let x: = 4;`,
		`@@@@`,
		`if (`,
		`let a = {;`,
		`x as;`,
		"`unterminated",
		`"unterminated`,
	}
	for _, source := range sources {
		require.NotPanics(t, func() {
			f, errs := ParseFile("test.ts", []byte(source))
			require.NotNil(t, f, "source: %s", source)
			require.NotEmpty(t, errs, "source: %s", source)
		}, "source: %s", source)
	}
}

// Copying the scanner value snapshots the scan state; restoring the
// copy replays the stream from the same point.
func TestScannerCopyBacktrack(t *testing.T) {
	s := newScanner("test.ts", []byte("x = 4"))
	require.NoError(t, s.Next())
	require.Equal(t, token.Ident, s.Token)
	snap := *s
	require.NoError(t, s.Next())
	require.Equal(t, token.Assign, s.Token)
	require.NoError(t, s.Next())
	require.Equal(t, token.Number, s.Token)
	*s = snap
	require.NoError(t, s.Next())
	require.Equal(t, token.Assign, s.Token)
}

// Declarator, enum member and parameter nodes carry positions like
// every other node the binder records.
func TestDeclNodePositions(t *testing.T) {
	f := parse(t, "let x = 1;\nenum E { A }\nfunction f(p: number): void {}")
	var n syntax.Node = f.Stmts[0].(*stmt.Var).Decls[0]
	require.Equal(t, int32(1), n.Pos().Line)
	n = f.Stmts[1].(*stmt.Enum).Members[0]
	require.Equal(t, int32(2), n.Pos().Line)
	n = f.Stmts[2].(*stmt.Func).Func.Params[0]
	require.Equal(t, int32(3), n.Pos().Line)
}

func TestParseTypeComments(t *testing.T) {
	v, ok := parseOne(t, `let x /*: number */ = 4;`).(*stmt.Var)
	require.True(t, ok)
	require.IsType(t, &typeexpr.Keyword{}, v.Decls[0].Type)

	u, ok := parseOne(t, `let y /*: string | number */ = "s";`).(*stmt.Var)
	require.True(t, ok)
	require.IsType(t, &typeexpr.Union{}, u.Decls[0].Type)

	// A comment with no leading colon is not an annotation.
	plain, ok := parseOne(t, `let z /* counter */ = 4;`).(*stmt.Var)
	require.True(t, ok)
	require.Nil(t, plain.Decls[0].Type)

	// An explicit annotation wins over a trailing comment.
	both, ok := parseOne(t, `let w: string /*: number */ = "s";`).(*stmt.Var)
	require.True(t, ok)
	require.IsType(t, &typeexpr.Keyword{}, both.Decls[0].Type)
}

func TestParseASIRules(t *testing.T) {
	// Statements split on newlines without semicolons.
	f := parse(t, "let a = 1\nlet b = 2")
	require.Len(t, f.Stmts, 2)
}
