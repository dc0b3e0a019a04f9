// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

// Universe returns the outermost scope shared by every file: the
// predefined values, the builtin generic type names, and value-position
// stand-ins for the predefined type keywords so that using one as a
// value resolves to a symbol the checker can flag.
func Universe() *Scope {
	sc := &Scope{Names: make(map[string]*Symbol)}
	for _, name := range []string{"undefined", "NaN", "Infinity", "globalThis"} {
		sc.Insert(&Symbol{Name: name, Flags: Variable | Const})
	}
	for _, name := range []string{
		"Generator", "Iterator", "IterableIterator", "Iterable",
		"Array", "ReadonlyArray", "Promise",
	} {
		sc.Insert(&Symbol{Name: name, Flags: BuiltinType})
	}
	for _, name := range []string{
		"any", "unknown", "never", "void", "boolean", "number",
		"string", "bigint", "object", "symbol",
	} {
		sc.Insert(&Symbol{Name: name, Flags: KeywordType})
	}
	return sc
}
