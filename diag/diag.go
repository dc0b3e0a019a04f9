// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag defines structured checker diagnostics and the sink they
// are reported to.
package diag

import (
	"fmt"

	"tscheck.io/tsc/syntax/src"
)

// Codes follow the reference compiler's numbering so downstream tooling
// can match on them.
const (
	CannotFindName        = 2304
	ModuleHasNoExport     = 2305
	CannotFindModule      = 2307
	NotAssignable         = 2322
	PropertyMissing       = 2339
	AssertionNonOverlap   = 2352
	CircularAlias         = 2456
	ReadonlyAssign        = 2540
	ThisImplicitAny       = 2683
	TypeUsedAsValue       = 2693
	YieldNotAssignable    = 2322
	PrivateNotAccessible  = 18013
	PrivateShadowed       = 18014
)

// A Diagnostic is one reported problem. The checker never aborts on a
// diagnostic; it reports and returns a recovery type.
type Diagnostic struct {
	Pos  src.Pos
	Msg  string
	Code int
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [TS%d]", d.Pos, d.Msg, d.Code)
}

// A Sink receives diagnostics. Implementations must not signal control
// flow back to the checker.
type Sink interface {
	Report(d Diagnostic)
}

// List is the standard accumulating sink.
type List struct {
	Diags []Diagnostic
}

func (l *List) Report(d Diagnostic) {
	l.Diags = append(l.Diags, d)
}

func (l *List) Len() int { return len(l.Diags) }

// Errorf reports a formatted diagnostic at pos.
func Errorf(s Sink, pos src.Pos, code int, format string, args ...interface{}) {
	s.Report(Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...), Code: code})
}
