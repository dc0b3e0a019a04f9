// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the canonical type representation for tscheck.
//
// Types are represented by compact ID handles pointing into an
// interning Store. Structurally equal descriptors intern to the same
// handle, so handle comparison is type equality.
package types

import "go/constant"

// ID is a handle to an interned type descriptor. Two handles are equal
// iff their descriptors are structurally equal.
type ID uint32

// Sentinel handles. Every Store resolves these to the same descriptors,
// so they are usable as constants without a Store in hand.
const (
	None ID = iota // no type; absent-value marker
	Error
	Never
	Unknown
	Any
	Void
	Undefined
	Null
	Boolean
	Number
	String
	Bigint
	Symbol
	Object
	True
	False

	// firstUser is the first handle available to interned descriptors.
	firstUser ID = 32
)

// Kind discriminates type descriptors.
type Kind int

const (
	KindIntrinsic Kind = iota
	KindLiteral
	KindUnion
	KindIntersection
	KindObject
	KindCallable
	KindArray
	KindTuple
	KindApplication
	KindLazy
	KindEnum
	KindTypeParam
	KindKeyOf
	KindIndexAccess
	KindTemplate
)

// DefID is a stable identity for lazy and recursive type resolution,
// independent of any symbol id.
type DefID uint32

// NoDef is the zero DefID; no definition.
const NoDef DefID = 0

// Prop is a named property of an object or callable type.
type Prop struct {
	Name     string
	Type     ID // read type
	Write    ID // write type; None means same as Type
	Optional bool
	Readonly bool
	Method   bool
	Private  bool // declared with a #name
}

// ReadType returns the type seen by property reads.
func (p Prop) ReadType() ID { return p.Type }

// WriteType returns the type required by property writes.
func (p Prop) WriteType() ID {
	if p.Write != None {
		return p.Write
	}
	return p.Type
}

// Sig is one call or construct signature.
type Sig struct {
	Params []Param
	Result ID
}

// Param is one signature parameter.
type Param struct {
	Name     string
	Type     ID
	Optional bool
	Rest     bool
}

// desc is an interned type descriptor. Which fields are meaningful
// depends on kind.
type desc struct {
	kind Kind

	lit     constant.Value // KindLiteral
	widened ID             // KindLiteral: the general primitive

	members []ID // union/intersection members, tuple elems, application args, template types

	elem  ID // array elem, keyof operand, index-access object, application base
	index ID // index-access index

	props    []Prop // object and callable own properties
	strIndex ID     // object string index signature
	numIndex ID     // object number index signature

	calls      []Sig // callable
	constructs []Sig // callable

	def        DefID // lazy, enum
	structural ID    // enum member union

	name string // type parameter

	texts []string // template literal
}
