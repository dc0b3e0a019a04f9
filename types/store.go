// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"go/constant"
	"sort"
	"strconv"
	"strings"

	set "github.com/hashicorp/go-set/v3"
)

// Store interns type descriptors and owns the definition table used for
// lazy and recursive resolution. A Store belongs to one checking
// session and is not safe for concurrent use.
type Store struct {
	descs  []desc
	intern map[string]ID

	defs       map[DefID]ID
	defNames   map[DefID]string
	enumParent map[DefID]DefID
	nextDef    DefID
}

// NewStore returns a Store with the sentinel types pre-interned.
func NewStore() *Store {
	s := &Store{
		descs:      make([]desc, firstUser),
		intern:     make(map[string]ID),
		defs:       make(map[DefID]ID),
		defNames:   make(map[DefID]string),
		enumParent: make(map[DefID]DefID),
		nextDef:    1,
	}
	for id := None; id < firstUser; id++ {
		s.descs[id] = desc{kind: KindIntrinsic}
	}
	s.descs[True] = desc{kind: KindLiteral, lit: constant.MakeBool(true), widened: Boolean}
	s.descs[False] = desc{kind: KindLiteral, lit: constant.MakeBool(false), widened: Boolean}
	s.intern[s.key(&s.descs[True])] = True
	s.intern[s.key(&s.descs[False])] = False
	return s
}

// Kind reports the descriptor kind of t.
func (s *Store) Kind(t ID) Kind {
	if int(t) >= len(s.descs) {
		return KindIntrinsic
	}
	return s.descs[t].kind
}

func (s *Store) get(t ID) *desc { return &s.descs[t] }

// add interns d, returning the existing handle when an equal descriptor
// is already present. Construction is total; it never fails.
func (s *Store) add(d desc) ID {
	k := s.key(&d)
	if id, ok := s.intern[k]; ok {
		return id
	}
	id := ID(len(s.descs))
	s.descs = append(s.descs, d)
	s.intern[k] = id
	return id
}

// key builds the canonical interning key for d. Descriptors are keyed
// by their full structure; handles inside the structure are already
// canonical, so one level of encoding suffices.
func (s *Store) key(d *desc) string {
	var b strings.Builder
	b.WriteByte(byte('A' + int(d.kind)))
	sep := func() { b.WriteByte(';') }
	id := func(t ID) { b.WriteString(strconv.FormatUint(uint64(t), 36)); sep() }
	str := func(v string) {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	switch d.kind {
	case KindLiteral:
		b.WriteByte(byte('0' + int(d.lit.Kind())))
		id(d.widened)
		str(d.lit.ExactString())
	case KindUnion, KindIntersection, KindTuple:
		for _, m := range d.members {
			id(m)
		}
	case KindArray, KindKeyOf:
		id(d.elem)
	case KindIndexAccess:
		id(d.elem)
		id(d.index)
	case KindApplication:
		id(d.elem)
		for _, m := range d.members {
			id(m)
		}
	case KindLazy:
		b.WriteString(strconv.FormatUint(uint64(d.def), 36))
	case KindEnum:
		b.WriteString(strconv.FormatUint(uint64(d.def), 36))
		sep()
		id(d.structural)
	case KindTypeParam:
		str(d.name)
	case KindTemplate:
		for _, t := range d.texts {
			str(t)
		}
		sep()
		for _, m := range d.members {
			id(m)
		}
	case KindObject, KindCallable:
		for _, p := range d.props {
			str(p.Name)
			id(p.Type)
			id(p.Write)
			b.WriteByte(flagByte(p.Optional, p.Readonly, p.Method, p.Private))
		}
		sep()
		id(s.sigKeyID(d.calls))
		id(s.sigKeyID(d.constructs))
		id(d.strIndex)
		id(d.numIndex)
	}
	return b.String()
}

func flagByte(bits ...bool) byte {
	var v byte
	for i, b := range bits {
		if b {
			v |= 1 << i
		}
	}
	return 'a' + v
}

// sigKeyID folds a signature list into a synthetic handle so object and
// callable keys stay flat. Signatures themselves are interned as hidden
// tuple-like descriptors.
func (s *Store) sigKeyID(sigs []Sig) ID {
	if len(sigs) == 0 {
		return None
	}
	var members []ID
	for _, sig := range sigs {
		var b strings.Builder
		for _, p := range sig.Params {
			b.WriteString(strconv.Itoa(len(p.Name)))
			b.WriteByte(':')
			b.WriteString(p.Name)
			b.WriteString(strconv.FormatUint(uint64(p.Type), 36))
			b.WriteByte(flagByte(p.Optional, p.Rest))
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(sig.Result), 36))
		members = append(members, s.add(desc{kind: KindTypeParam, name: "\x00sig\x00" + b.String()}))
	}
	return s.add(desc{kind: KindTuple, members: members})
}

// Literal interns the literal type for v. Boolean literals resolve to
// the True/False sentinels.
func (s *Store) Literal(v constant.Value) ID {
	var widened ID
	switch v.Kind() {
	case constant.Bool:
		if constant.BoolVal(v) {
			return True
		}
		return False
	case constant.String:
		widened = String
	case constant.Int, constant.Float:
		widened = Number
	default:
		widened = Number
	}
	return s.add(desc{kind: KindLiteral, lit: v, widened: widened})
}

// StringLiteral interns the literal type "v".
func (s *Store) StringLiteral(v string) ID {
	return s.Literal(constant.MakeString(v))
}

// NumberLiteral interns the literal type for v.
func (s *Store) NumberLiteral(v float64) ID {
	if v == float64(int64(v)) {
		return s.Literal(constant.MakeInt64(int64(v)))
	}
	return s.Literal(constant.MakeFloat64(v))
}

// BigintLiteral interns a bigint literal type from its digit string.
func (s *Store) BigintLiteral(digits string) ID {
	id := s.add(desc{kind: KindLiteral, lit: constant.MakeString("\x00bigint\x00" + digits), widened: Bigint})
	return id
}

// LiteralValue returns the constant value of a literal type, or nil.
func (s *Store) LiteralValue(t ID) constant.Value {
	d := s.get(t)
	if d.kind != KindLiteral {
		return nil
	}
	return d.lit
}

// Widen returns the general primitive for a literal type, and t itself
// for every other type.
func (s *Store) Widen(t ID) ID {
	d := s.get(t)
	if d.kind == KindLiteral {
		return d.widened
	}
	return t
}

// Union interns the union of members: flattened, deduplicated,
// canonically ordered. An empty union is NEVER; a single member
// collapses to itself.
func (s *Store) Union(members ...ID) ID {
	seen := set.New[ID](len(members))
	var flat []ID
	var walk func(ts []ID) bool
	walk = func(ts []ID) bool {
		for _, t := range ts {
			switch {
			case t == Any || t == Error:
				return true
			case t == Never || t == None:
				continue
			case s.Kind(t) == KindUnion:
				if walk(s.get(t).members) {
					return true
				}
			default:
				if seen.Insert(t) {
					flat = append(flat, t)
				}
			}
		}
		return false
	}
	if walk(members) {
		return Any
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i] < flat[j] })
	return s.add(desc{kind: KindUnion, members: flat})
}

// Intersection interns the intersection of members.
func (s *Store) Intersection(members ...ID) ID {
	seen := set.New[ID](len(members))
	var flat []ID
	for _, t := range members {
		switch {
		case t == Never:
			return Never
		case t == Any || t == Error:
			return Any
		case t == Unknown || t == None:
			continue
		case s.Kind(t) == KindIntersection:
			for _, m := range s.get(t).members {
				if seen.Insert(m) {
					flat = append(flat, m)
				}
			}
		default:
			if seen.Insert(t) {
				flat = append(flat, t)
			}
		}
	}
	switch len(flat) {
	case 0:
		return Unknown
	case 1:
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i] < flat[j] })
	return s.add(desc{kind: KindIntersection, members: flat})
}

// Members returns the members of a union or intersection, nil otherwise.
// The returned slice is owned by the store; callers must not mutate it.
func (s *Store) Members(t ID) []ID {
	d := s.get(t)
	if d.kind != KindUnion && d.kind != KindIntersection {
		return nil
	}
	return d.members
}

// Object interns an object type. Property order is preserved; it is
// part of the type's published shape.
func (s *Store) Object(props []Prop, strIndex, numIndex ID) ID {
	return s.add(desc{kind: KindObject, props: props, strIndex: strIndex, numIndex: numIndex})
}

// ObjectInfo returns an object type's properties and index signatures.
func (s *Store) ObjectInfo(t ID) (props []Prop, strIndex, numIndex ID) {
	d := s.get(t)
	if d.kind != KindObject && d.kind != KindCallable {
		return nil, None, None
	}
	return d.props, d.strIndex, d.numIndex
}

// Callable interns a callable type: call and construct signatures plus
// own properties, as used for functions, overloads, and class
// constructors.
func (s *Store) Callable(calls, constructs []Sig, props []Prop) ID {
	return s.add(desc{kind: KindCallable, calls: calls, constructs: constructs, props: props})
}

// CallableInfo returns a callable type's signatures and own properties.
func (s *Store) CallableInfo(t ID) (calls, constructs []Sig, props []Prop) {
	d := s.get(t)
	if d.kind != KindCallable {
		return nil, nil, nil
	}
	return d.calls, d.constructs, d.props
}

// Array interns the array type elem[].
func (s *Store) Array(elem ID) ID {
	return s.add(desc{kind: KindArray, elem: elem})
}

// ArrayElem returns the element type of an array type, or None.
func (s *Store) ArrayElem(t ID) ID {
	d := s.get(t)
	if d.kind != KindArray {
		return None
	}
	return d.elem
}

// Tuple interns the tuple type [elems...].
func (s *Store) Tuple(elems []ID) ID {
	return s.add(desc{kind: KindTuple, members: elems})
}

// TupleElems returns the element types of a tuple type.
func (s *Store) TupleElems(t ID) []ID {
	d := s.get(t)
	if d.kind != KindTuple {
		return nil
	}
	return d.members
}

// Application interns the generic application base<args...>. The base
// is usually a lazy reference; expansion happens on demand.
func (s *Store) Application(base ID, args []ID) ID {
	return s.add(desc{kind: KindApplication, elem: base, members: args})
}

// ApplicationInfo returns the base and arguments of an application.
func (s *Store) ApplicationInfo(t ID) (base ID, args []ID) {
	d := s.get(t)
	if d.kind != KindApplication {
		return None, nil
	}
	return d.elem, d.members
}

// Lazy interns a lazy reference to def, resolved through the
// definition table on demand. This is the indirection that breaks
// declaration cycles.
func (s *Store) Lazy(def DefID) ID {
	return s.add(desc{kind: KindLazy, def: def})
}

// LazyDef returns the definition id of a lazy reference, or NoDef.
func (s *Store) LazyDef(t ID) DefID {
	d := s.get(t)
	if d.kind != KindLazy {
		return NoDef
	}
	return d.def
}

// Enum interns an enum type: nominal identity plus the structural
// member union. Two enums with equal members but different defs are
// distinct types.
func (s *Store) Enum(def DefID, structural ID) ID {
	return s.add(desc{kind: KindEnum, def: def, structural: structural})
}

// EnumInfo returns an enum type's definition id and structural type.
func (s *Store) EnumInfo(t ID) (DefID, ID) {
	d := s.get(t)
	if d.kind != KindEnum {
		return NoDef, None
	}
	return d.def, d.structural
}

// TypeParam interns a type parameter by name.
func (s *Store) TypeParam(name string) ID {
	return s.add(desc{kind: KindTypeParam, name: name})
}

// TypeParamName returns the name of a type parameter type.
func (s *Store) TypeParamName(t ID) string {
	d := s.get(t)
	if d.kind != KindTypeParam {
		return ""
	}
	return d.name
}

// KeyOf interns keyof operand.
func (s *Store) KeyOf(operand ID) ID {
	return s.add(desc{kind: KindKeyOf, elem: operand})
}

// KeyOfOperand returns the operand of a keyof type, or None.
func (s *Store) KeyOfOperand(t ID) ID {
	d := s.get(t)
	if d.kind != KindKeyOf {
		return None
	}
	return d.elem
}

// IndexAccess interns the indexed-access type object[index].
func (s *Store) IndexAccess(object, index ID) ID {
	return s.add(desc{kind: KindIndexAccess, elem: object, index: index})
}

// IndexAccessInfo returns the parts of an indexed-access type.
func (s *Store) IndexAccessInfo(t ID) (object, index ID) {
	d := s.get(t)
	if d.kind != KindIndexAccess {
		return None, None
	}
	return d.elem, d.index
}

// Template interns a template literal type. texts has one more element
// than subs.
func (s *Store) Template(texts []string, subs []ID) ID {
	return s.add(desc{kind: KindTemplate, texts: texts, members: subs})
}

// TemplateInfo returns the parts of a template literal type.
func (s *Store) TemplateInfo(t ID) (texts []string, subs []ID) {
	d := s.get(t)
	if d.kind != KindTemplate {
		return nil, nil
	}
	return d.texts, d.members
}

// NewDef allocates a definition id named for diagnostics.
func (s *Store) NewDef(name string) DefID {
	id := s.nextDef
	s.nextDef++
	s.defNames[id] = name
	return id
}

// DefName returns the display name recorded for def.
func (s *Store) DefName(def DefID) string {
	return s.defNames[def]
}

// SetDef records the resolved structural type for def. Resolving a
// definition twice is idempotent; the first recorded type wins.
func (s *Store) SetDef(def DefID, t ID) {
	if _, ok := s.defs[def]; ok {
		return
	}
	s.defs[def] = t
}

// ResolveDef returns the resolved type for def, if recorded.
func (s *Store) ResolveDef(def DefID) (ID, bool) {
	t, ok := s.defs[def]
	return t, ok
}

// RegisterEnumMember records member as belonging to parent, for
// literal-widening of enum-typed mutable bindings.
func (s *Store) RegisterEnumMember(member, parent DefID) {
	s.enumParent[member] = parent
}

// EnumParent returns the owning enum definition of an enum member
// definition, or NoDef.
func (s *Store) EnumParent(member DefID) DefID {
	return s.enumParent[member]
}

// ResolveLazy unwraps lazy references until a structural type or an
// unresolved reference is reached. Bounded to guard against definition
// tables that point lazy references at each other.
func (s *Store) ResolveLazy(t ID) ID {
	for i := 0; i < 64; i++ {
		if s.Kind(t) != KindLazy {
			return t
		}
		r, ok := s.ResolveDef(s.get(t).def)
		if !ok || r == t {
			return t
		}
		t = r
	}
	return t
}

// Len reports the number of interned descriptors, sentinels included.
func (s *Store) Len() int { return len(s.descs) }
