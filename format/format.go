// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package format renders type handles as source-like strings for
// diagnostics. Named types print by name, never expanded, so cyclic
// types always terminate.
package format

import (
	"bytes"
	"fmt"
	"go/constant"
	"strconv"
	"strings"

	"tscheck.io/tsc/types"
)

type printer struct {
	buf   *bytes.Buffer
	store *types.Store
}

var intrinsicNames = map[types.ID]string{
	types.None:      "<none>",
	types.Error:     "error",
	types.Never:     "never",
	types.Unknown:   "unknown",
	types.Any:       "any",
	types.Void:      "void",
	types.Undefined: "undefined",
	types.Null:      "null",
	types.Boolean:   "boolean",
	types.Number:    "number",
	types.String:    "string",
	types.Bigint:    "bigint",
	types.Symbol:    "symbol",
	types.Object:    "object",
	types.True:      "true",
	types.False:     "false",
}

func (p *printer) typ(t types.ID) {
	if name, ok := intrinsicNames[t]; ok {
		p.buf.WriteString(name)
		return
	}
	store := p.store
	switch store.Kind(t) {
	case types.KindLiteral:
		p.literal(t)
	case types.KindUnion:
		for i, m := range store.Members(t) {
			if i > 0 {
				p.buf.WriteString(" | ")
			}
			p.typ(m)
		}
	case types.KindIntersection:
		for i, m := range store.Members(t) {
			if i > 0 {
				p.buf.WriteString(" & ")
			}
			p.paren(m)
		}
	case types.KindObject:
		p.object(t)
	case types.KindCallable:
		p.callable(t)
	case types.KindArray:
		p.paren(store.ArrayElem(t))
		p.buf.WriteString("[]")
	case types.KindTuple:
		p.buf.WriteByte('[')
		for i, e := range store.TupleElems(t) {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.typ(e)
		}
		p.buf.WriteByte(']')
	case types.KindApplication:
		base, args := store.ApplicationInfo(t)
		p.typ(base)
		p.buf.WriteByte('<')
		for i, a := range args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.typ(a)
		}
		p.buf.WriteByte('>')
	case types.KindLazy:
		p.defName(store.LazyDef(t))
	case types.KindEnum:
		def, _ := store.EnumInfo(t)
		p.defName(def)
	case types.KindTypeParam:
		p.buf.WriteString(store.TypeParamName(t))
	case types.KindKeyOf:
		p.buf.WriteString("keyof ")
		p.paren(store.KeyOfOperand(t))
	case types.KindIndexAccess:
		obj, idx := store.IndexAccessInfo(t)
		p.paren(obj)
		p.buf.WriteByte('[')
		p.typ(idx)
		p.buf.WriteByte(']')
	case types.KindTemplate:
		p.template(t)
	default:
		fmt.Fprintf(p.buf, "<type %d>", t)
	}
}

// paren wraps union members in parentheses where the surrounding
// syntax would misparse them.
func (p *printer) paren(t types.ID) {
	switch p.store.Kind(t) {
	case types.KindUnion, types.KindIntersection:
		if len(p.store.Members(t)) > 1 {
			p.buf.WriteByte('(')
			p.typ(t)
			p.buf.WriteByte(')')
			return
		}
	case types.KindCallable:
		if calls, constructs, props := p.store.CallableInfo(t); len(calls) == 1 && len(constructs) == 0 && len(props) == 0 {
			p.buf.WriteByte('(')
			p.typ(t)
			p.buf.WriteByte(')')
			return
		}
	}
	p.typ(t)
}

func (p *printer) literal(t types.ID) {
	v := p.store.LiteralValue(t)
	if v == nil {
		p.buf.WriteString("<literal>")
		return
	}
	switch p.store.Widen(t) {
	case types.String:
		p.buf.WriteString(strconv.Quote(constant.StringVal(v)))
	case types.Number:
		f, _ := constant.Float64Val(v)
		p.buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case types.Bigint:
		p.buf.WriteString(strings.TrimPrefix(constant.StringVal(v), "\x00bigint\x00"))
		p.buf.WriteByte('n')
	default:
		p.buf.WriteString(v.String())
	}
}

func (p *printer) object(t types.ID) {
	props, strIdx, numIdx := p.store.ObjectInfo(t)
	shown := visibleProps(props)
	if len(shown) == 0 && strIdx == types.None && numIdx == types.None {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{ ")
	first := true
	for _, pr := range shown {
		p.sep(&first)
		p.prop(pr)
	}
	if strIdx != types.None {
		p.sep(&first)
		p.buf.WriteString("[x: string]: ")
		p.typ(strIdx)
	}
	if numIdx != types.None {
		p.sep(&first)
		p.buf.WriteString("[x: number]: ")
		p.typ(numIdx)
	}
	p.buf.WriteString(" }")
}

func (p *printer) callable(t types.ID) {
	calls, constructs, props := p.store.CallableInfo(t)
	shown := visibleProps(props)
	if len(calls) == 1 && len(constructs) == 0 && len(shown) == 0 {
		p.sig(calls[0], true)
		return
	}
	p.buf.WriteString("{ ")
	first := true
	for _, sig := range calls {
		p.sep(&first)
		p.sig(sig, false)
	}
	for _, sig := range constructs {
		p.sep(&first)
		p.buf.WriteString("new ")
		p.sig(sig, false)
	}
	for _, pr := range shown {
		p.sep(&first)
		p.prop(pr)
	}
	p.buf.WriteString(" }")
}

func (p *printer) sep(first *bool) {
	if !*first {
		p.buf.WriteString("; ")
	}
	*first = false
}

func (p *printer) prop(pr types.Prop) {
	if pr.Readonly {
		p.buf.WriteString("readonly ")
	}
	p.buf.WriteString(pr.Name)
	if pr.Optional {
		p.buf.WriteByte('?')
	}
	p.buf.WriteString(": ")
	p.typ(pr.ReadType())
}

func (p *printer) sig(sig types.Sig, arrow bool) {
	p.buf.WriteByte('(')
	for i, prm := range sig.Params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		if prm.Rest {
			p.buf.WriteString("...")
		}
		name := prm.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		p.buf.WriteString(name)
		if prm.Optional {
			p.buf.WriteByte('?')
		}
		p.buf.WriteString(": ")
		p.typ(prm.Type)
	}
	p.buf.WriteByte(')')
	if arrow {
		p.buf.WriteString(" => ")
	} else {
		p.buf.WriteString(": ")
	}
	if sig.Result == types.None {
		p.buf.WriteString("any")
		return
	}
	p.typ(sig.Result)
}

func (p *printer) template(t types.ID) {
	texts, subs := p.store.TemplateInfo(t)
	p.buf.WriteByte('`')
	for i, text := range texts {
		p.buf.WriteString(text)
		if i < len(subs) {
			p.buf.WriteString("${")
			p.typ(subs[i])
			p.buf.WriteByte('}')
		}
	}
	p.buf.WriteByte('`')
}

func (p *printer) defName(def types.DefID) {
	if name := p.store.DefName(def); name != "" {
		p.buf.WriteString(name)
		return
	}
	fmt.Fprintf(p.buf, "<def %d>", def)
}

// visibleProps filters out private members and the hidden properties
// the checker interns for bookkeeping.
func visibleProps(props []types.Prop) []types.Prop {
	var out []types.Prop
	for _, pr := range props {
		if len(pr.Name) > 0 && pr.Name[0] == 0 {
			continue
		}
		out = append(out, pr)
	}
	return out
}

// WriteType writes the rendering of t to buf.
func WriteType(buf *bytes.Buffer, store *types.Store, t types.ID) {
	p := &printer{buf: buf, store: store}
	p.typ(t)
}

// Type renders t as a source-like string.
func Type(store *types.Store, t types.ID) string {
	buf := new(bytes.Buffer)
	WriteType(buf, store, t)
	return buf.String()
}
