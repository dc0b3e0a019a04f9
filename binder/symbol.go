// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binder builds the symbol table for a parsed file. It declares
// every statement-level name, merges declarations that the language
// merges (overloads, interfaces, namespaces), and resolves identifier
// uses to symbols. Types are not computed here; the typecheck package
// derives them on demand from the declarations each symbol records.
package binder

import (
	"tscheck.io/tsc/syntax"
)

// Flags classifies the declaration forms a symbol carries. A merged
// symbol carries several.
type Flags uint32

const (
	Variable Flags = 1 << iota
	Const
	Function
	Class
	Interface
	Enum
	ConstEnum
	EnumMember
	Namespace
	TypeAlias
	Alias // import binding
	Parameter
	TypeParam
	Export // export wrapper, see Origin

	// Universe-only flags.
	KeywordType // a predefined type name appearing as a value
	BuiltinType // Generator, Iterator and friends
)

func (f Flags) Has(g Flags) bool { return f&g != 0 }

// ValueFlags and TypeFlags partition the namespace-sensitive lookups:
// a symbol is usable in value position, type position, or both.
const (
	ValueFlags = Variable | Const | Function | Class | Enum | ConstEnum |
		EnumMember | Namespace | Alias | Parameter
	TypeFlags = Class | Interface | Enum | ConstEnum | EnumMember |
		TypeAlias | Alias | TypeParam | BuiltinType
)

// ImportRef names what an alias symbol imported: a member of a module.
// Member is "default" for default imports and "*" for namespace
// imports.
type ImportRef struct {
	Module string
	Member string
}

type Symbol struct {
	Name  string
	Flags Flags

	// Decl is the primary declaration, Decls every declaration in
	// merge order.
	Decl  syntax.Node
	Decls []syntax.Node

	// Parent is the enclosing namespace or enum symbol, nil at module
	// scope.
	Parent *Symbol

	// Exports holds the exported members of a namespace, or the
	// members of an enum.
	Exports map[string]*Symbol

	// Origin is the local symbol behind an Export wrapper.
	Origin *Symbol

	// Import is set on module-import aliases, Target on import-equals
	// aliases of a namespace path.
	Import *ImportRef
	Target *Symbol
}

// Local follows export wrappers to the underlying symbol.
func (s *Symbol) Local() *Symbol {
	for s != nil && s.Flags.Has(Export) && s.Origin != nil {
		s = s.Origin
	}
	return s
}

// Scope is one lexical scope. Lookup walks toward the universe scope.
type Scope struct {
	Parent *Scope
	Names  map[string]*Symbol
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Names: make(map[string]*Symbol)}
}

func (sc *Scope) Lookup(name string) *Symbol {
	for s := sc; s != nil; s = s.Parent {
		if sym := s.Names[name]; sym != nil {
			return sym
		}
	}
	return nil
}

func (sc *Scope) Insert(sym *Symbol) {
	sc.Names[sym.Name] = sym
}
