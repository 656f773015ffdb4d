package ir

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type TypeKind uint8

const (
	_ TypeKind = iota
	KindPrimitive
	KindOpaque
	KindNamed
	KindReference
	KindRawPointer
	KindFunctionPointer
	KindNullable
	KindArray
	KindFixedBuffer
	typeKindEnd
)

// TypeKinds lists every TypeKind, in declaration order
func TypeKinds() []TypeKind {
	kinds := make([]TypeKind, 0, typeKindEnd-1)
	for k := KindPrimitive; k < typeKindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindOpaque:
		return "opaque"
	case KindNamed:
		return "named"
	case KindReference:
		return "reference"
	case KindRawPointer:
		return "raw pointer"
	case KindFunctionPointer:
		return "function pointer"
	case KindNullable:
		return "nullable"
	case KindArray:
		return "array"
	case KindFixedBuffer:
		return "fixed buffer"
	default:
		return "invalid"
	}
}

// Type is a fully resolved type, as handed over by the parser.
//
// Types are immutable once constructed, and may be shared between
// several declarations. Passes that rewrite types build new nodes.
//
//sumtype:decl
type Type interface {
	ShowIn(outerPrecedence uint16) string
	Hash() uint64
	Kind() TypeKind
	typeNode()
}

var (
	_ Type = (*Primitive)(nil)
	_ Type = (*Opaque)(nil)
	_ Type = (*Named)(nil)
	_ Type = (*Reference)(nil)
	_ Type = (*RawPointer)(nil)
	_ Type = (*FunctionPointer)(nil)
	_ Type = (*Nullable)(nil)
	_ Type = (*Array)(nil)
	_ Type = (*FixedBuffer)(nil)
)

const (
	precedenceNullablePtr uint16 = 35
	precedenceFn          uint16 = 30
	precedencePrefix      uint16 = 40
)

func TypeString(t Type) string {
	return t.ShowIn(0)
}

// Equal compares types structurally
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && *a == *b
	case *Opaque:
		b, ok := b.(*Opaque)
		return ok && *a == *b
	case *Named:
		b, ok := b.(*Named)
		return ok && a.Name == b.Name && a.Category == b.Category && equalAll(a.Args, b.Args)
	case *Reference:
		b, ok := b.(*Reference)
		return ok && a.Mutable == b.Mutable && Equal(a.Target, b.Target)
	case *RawPointer:
		b, ok := b.(*RawPointer)
		return ok && a.Mutable == b.Mutable && a.Nullable == b.Nullable && Equal(a.Target, b.Target)
	case *FunctionPointer:
		b, ok := b.(*FunctionPointer)
		if !ok || a.Nullable != b.Nullable || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i].Name != b.Params[i].Name || !Equal(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return Equal(a.Return, b.Return)
	case *Nullable:
		b, ok := b.(*Nullable)
		return ok && Equal(a.Inner, b.Inner)
	case *Array:
		b, ok := b.(*Array)
		return ok && a.Len == b.Len && Equal(a.Elem, b.Elem)
	case *FixedBuffer:
		b, ok := b.(*FixedBuffer)
		return ok && a.Len == b.Len && Equal(a.Elem, b.Elem)
	default:
		panic(fmt.Sprintf("Equal: unexpected type %T", a))
	}
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func withParensIf(when bool, str string) string {
	if when {
		return "(" + str + ")"
	}
	return str
}

func hashOf(tag string, children ...uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tag))
	arr := make([]byte, 0, 8*len(children))
	for _, c := range children {
		arr = binary.LittleEndian.AppendUint64(arr, c)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func boolHash(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func stringHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Primitive is a built-in scalar, spelled the way the source language spells it.
type Primitive struct {
	Name string
	// NonZero integers cannot hold 0, which makes 0 available to mean 'no value'
	NonZero bool
}

func (*Primitive) typeNode()      {}
func (*Primitive) Kind() TypeKind { return KindPrimitive }

func (p *Primitive) Info() PrimitiveInfo {
	info, _ := LookupPrimitive(p.Name)
	return info
}

func (p *Primitive) ShowIn(uint16) string {
	if p.NonZero {
		return "nonzero " + p.Name
	}
	return p.Name
}

func (p *Primitive) Hash() uint64 {
	return hashOf("Primitive", stringHash(p.Name), boolHash(p.NonZero))
}

// Opaque is a named type whose layout is unknown, like a forward-declared struct
type Opaque struct {
	Name string
}

func (*Opaque) typeNode()              {}
func (*Opaque) Kind() TypeKind         { return KindOpaque }
func (o *Opaque) ShowIn(uint16) string { return o.Name }
func (o *Opaque) Hash() uint64         { return hashOf("Opaque", stringHash(o.Name)) }

type NamedKind uint8

const (
	_ NamedKind = iota
	NamedStruct
	NamedUnion
	// NamedEnum is an enum whose variants carry no payload
	NamedEnum
)

func (k NamedKind) String() string {
	switch k {
	case NamedStruct:
		return "struct"
	case NamedUnion:
		return "union"
	case NamedEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Named refers to a struct, union or unit enum by name.
//
// Args holds the generic arguments of the reference, if any. They are
// type positions in their own right, but no instantiation happens here.
type Named struct {
	Name     string
	Category NamedKind
	Args     []Type
}

func (*Named) typeNode()      {}
func (*Named) Kind() TypeKind { return KindNamed }

func (n *Named) ShowIn(uint16) string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, 0, len(n.Args))
	for _, arg := range n.Args {
		args = append(args, arg.ShowIn(0))
	}
	return n.Name + "<" + strings.Join(args, ", ") + ">"
}

func (n *Named) Hash() uint64 {
	children := []uint64{stringHash(n.Name), uint64(n.Category)}
	for _, arg := range n.Args {
		children = append(children, arg.Hash())
	}
	return hashOf("Named", children...)
}

// Reference is a borrowed reference. It is never null, so it carries no nullability.
type Reference struct {
	Target  Type
	Mutable bool
}

func (*Reference) typeNode()      {}
func (*Reference) Kind() TypeKind { return KindReference }

func (r *Reference) ShowIn(outerPrecedence uint16) string {
	prefix := "&"
	if r.Mutable {
		prefix = "&mut "
	}
	return prefix + r.Target.ShowIn(precedencePrefix)
}

func (r *Reference) Hash() uint64 {
	return hashOf("Reference", r.Target.Hash(), boolHash(r.Mutable))
}

// RawPointer is a plain machine pointer.
//
// Nullable is set when the pointer is declared as possibly null, which is
// what a nullable reference or nullable pointer becomes after simplification.
type RawPointer struct {
	Target   Type
	Mutable  bool
	Nullable bool
}

func (*RawPointer) typeNode()      {}
func (*RawPointer) Kind() TypeKind { return KindRawPointer }

func (p *RawPointer) ShowIn(outerPrecedence uint16) string {
	prefix := "*const "
	if p.Mutable {
		prefix = "*mut "
	}
	str := prefix + p.Target.ShowIn(precedencePrefix)
	if p.Nullable {
		return withParensIf(outerPrecedence > precedenceNullablePtr, "nullable "+str)
	}
	return str
}

func (p *RawPointer) Hash() uint64 {
	return hashOf("RawPointer", p.Target.Hash(), boolHash(p.Mutable), boolHash(p.Nullable))
}

// Param is a function pointer parameter. Name may be empty.
type Param struct {
	Name string
	Type Type
}

// FunctionPointer is a callable reference
type FunctionPointer struct {
	Params   []Param
	Return   Type
	Nullable bool
}

func (*FunctionPointer) typeNode()      {}
func (*FunctionPointer) Kind() TypeKind { return KindFunctionPointer }

func (f *FunctionPointer) ShowIn(outerPrecedence uint16) string {
	params := make([]string, 0, len(f.Params))
	for _, param := range f.Params {
		str := param.Type.ShowIn(0)
		if param.Name != "" {
			str = param.Name + ": " + str
		}
		params = append(params, str)
	}
	str := "fn(" + strings.Join(params, ", ") + ") -> " + f.Return.ShowIn(precedenceFn)
	if f.Nullable {
		return withParensIf(outerPrecedence > precedenceNullablePtr, "nullable "+str)
	}
	return withParensIf(outerPrecedence > precedenceFn, str)
}

func (f *FunctionPointer) Hash() uint64 {
	children := make([]uint64, 0, 2*len(f.Params)+2)
	for _, param := range f.Params {
		children = append(children, stringHash(param.Name), param.Type.Hash())
	}
	children = append(children, f.Return.Hash(), boolHash(f.Nullable))
	return hashOf("FunctionPointer", children...)
}

// Nullable is a value of Inner, or explicitly no value
type Nullable struct {
	Inner Type
}

func (*Nullable) typeNode()      {}
func (*Nullable) Kind() TypeKind { return KindNullable }

func (n *Nullable) ShowIn(uint16) string {
	return "Option<" + n.Inner.ShowIn(0) + ">"
}

func (n *Nullable) Hash() uint64 { return hashOf("Nullable", n.Inner.Hash()) }

// ArrayLength is either a literal length or the name of a constant
type ArrayLength struct {
	Const string
	Value uint64
}

func (l ArrayLength) String() string {
	if l.Const != "" {
		return l.Const
	}
	return strconv.FormatUint(l.Value, 10)
}

func (l ArrayLength) hash() uint64 {
	return hashOf("ArrayLength", stringHash(l.Const), l.Value)
}

type Array struct {
	Elem Type
	Len  ArrayLength
}

func (*Array) typeNode()      {}
func (*Array) Kind() TypeKind { return KindArray }

func (a *Array) ShowIn(uint16) string {
	return "[" + a.Elem.ShowIn(0) + "; " + a.Len.String() + "]"
}

func (a *Array) Hash() uint64 { return hashOf("Array", a.Elem.Hash(), a.Len.hash()) }

// FixedBuffer is an inline buffer of Len elements, laid out in place inside its parent
type FixedBuffer struct {
	Elem Type
	Len  ArrayLength
}

func (*FixedBuffer) typeNode()      {}
func (*FixedBuffer) Kind() TypeKind { return KindFixedBuffer }

func (b *FixedBuffer) ShowIn(uint16) string {
	return "buffer[" + b.Elem.ShowIn(0) + "; " + b.Len.String() + "]"
}

func (b *FixedBuffer) Hash() uint64 { return hashOf("FixedBuffer", b.Elem.Hash(), b.Len.hash()) }
