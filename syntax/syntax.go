// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines an Abstract Syntax Tree, an AST, for tscheck.
//
// Nodes in the AST are represented by Node objects. The particular nodes
// for expressions, statements, and type annotations are defined in the
// respective packages:
//
//	syntax/expr
//	syntax/stmt
//	syntax/typeexpr
package syntax

import "tscheck.io/tsc/syntax/src"

// A Node is a node in the syntax tree.
type Node interface {
	Pos() src.Pos
}
