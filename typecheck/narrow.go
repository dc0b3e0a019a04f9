// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"tscheck.io/tsc/syntax"
	"tscheck.io/tsc/types"
)

// A Narrower refines the type of an identifier, property, element, or
// private-field access after its unnarrowed type resolves. Flow
// analysis plugs in here; the checker treats the refinement as opaque.
type Narrower interface {
	Narrow(n syntax.Node, t types.ID) types.ID
}

// nopNarrower is the default: no flow information, no refinement.
type nopNarrower struct{}

func (nopNarrower) Narrow(n syntax.Node, t types.ID) types.ID { return t }

// SetNarrower installs a flow narrowing engine. Passing nil restores
// the no-op default.
func (c *Checker) SetNarrower(n Narrower) {
	if n == nil {
		n = nopNarrower{}
	}
	c.narrow = n
}
