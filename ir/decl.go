package ir

import (
	"fmt"
	"strings"
)

// Pos is where a declaration was found in the IR file it was loaded from.
// The zero Pos means unknown.
type Pos struct {
	File         string
	Line, Column int
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return p.File
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type DeclKind uint8

const (
	_ DeclKind = iota
	DeclStruct
	DeclUnion
	DeclFunction
	DeclAlias
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclUnion:
		return "union"
	case DeclFunction:
		return "fn"
	case DeclAlias:
		return "type"
	default:
		return "invalid"
	}
}

// Decl is a top-level named declaration whose type positions
// are subject to simplification
//
//sumtype:decl
type Decl interface {
	DeclName() string
	DeclKind() DeclKind
	Position() Pos
	Show() string
	Hash() uint64
	declNode()
}

var (
	_ Decl = (*StructDecl)(nil)
	_ Decl = (*UnionDecl)(nil)
	_ Decl = (*FunctionDecl)(nil)
	_ Decl = (*TypeAlias)(nil)
)

// DeclEqual compares declarations structurally, ignoring their positions
func DeclEqual(a, b Decl) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.DeclKind() != b.DeclKind() || a.DeclName() != b.DeclName() {
		return false
	}
	switch a := a.(type) {
	case *StructDecl:
		return equalFields(a.Fields, b.(*StructDecl).Fields)
	case *UnionDecl:
		return equalFields(a.Fields, b.(*UnionDecl).Fields)
	case *FunctionDecl:
		b := b.(*FunctionDecl)
		return equalFields(a.Params, b.Params) && Equal(a.Return, b.Return)
	case *TypeAlias:
		return Equal(a.Aliased, b.(*TypeAlias).Aliased)
	default:
		panic(fmt.Sprintf("DeclEqual: unexpected declaration %T", a))
	}
}

func equalFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// Field is a named type position: a struct or union field, or a function parameter.
// Field order is part of the layout and must never change.
type Field struct {
	Name string
	Type Type
}

func showFields(sb *strings.Builder, fields []Field) {
	if len(fields) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{\n")
	for _, field := range fields {
		sb.WriteString("    " + field.Name + ": " + field.Type.ShowIn(0) + ",\n")
	}
	sb.WriteString("}")
}

func hashFields(tag, name string, fields []Field, extra ...uint64) uint64 {
	children := make([]uint64, 0, 2*len(fields)+1+len(extra))
	children = append(children, stringHash(name))
	for _, field := range fields {
		children = append(children, stringHash(field.Name), field.Type.Hash())
	}
	return hashOf(tag, append(children, extra...)...)
}

type StructDecl struct {
	Name   string
	Fields []Field
	Pos    Pos
}

func (*StructDecl) declNode()          {}
func (*StructDecl) DeclKind() DeclKind { return DeclStruct }
func (d *StructDecl) DeclName() string { return d.Name }
func (d *StructDecl) Position() Pos    { return d.Pos }
func (d *StructDecl) Hash() uint64     { return hashFields("StructDecl", d.Name, d.Fields) }

func (d *StructDecl) Show() string {
	sb := &strings.Builder{}
	sb.WriteString("struct " + d.Name + " ")
	showFields(sb, d.Fields)
	return sb.String()
}

type UnionDecl struct {
	Name   string
	Fields []Field
	Pos    Pos
}

func (*UnionDecl) declNode()          {}
func (*UnionDecl) DeclKind() DeclKind { return DeclUnion }
func (d *UnionDecl) DeclName() string { return d.Name }
func (d *UnionDecl) Position() Pos    { return d.Pos }
func (d *UnionDecl) Hash() uint64     { return hashFields("UnionDecl", d.Name, d.Fields) }

func (d *UnionDecl) Show() string {
	sb := &strings.Builder{}
	sb.WriteString("union " + d.Name + " ")
	showFields(sb, d.Fields)
	return sb.String()
}

// FunctionDecl is an exported function signature
type FunctionDecl struct {
	Name   string
	Params []Field
	Return Type
	Pos    Pos
}

func (*FunctionDecl) declNode()          {}
func (*FunctionDecl) DeclKind() DeclKind { return DeclFunction }
func (d *FunctionDecl) DeclName() string { return d.Name }
func (d *FunctionDecl) Position() Pos    { return d.Pos }

func (d *FunctionDecl) Hash() uint64 {
	return hashFields("FunctionDecl", d.Name, d.Params, d.Return.Hash())
}

func (d *FunctionDecl) Show() string {
	params := make([]string, 0, len(d.Params))
	for _, param := range d.Params {
		params = append(params, param.Name+": "+param.Type.ShowIn(0))
	}
	return "fn " + d.Name + "(" + strings.Join(params, ", ") + ") -> " + d.Return.ShowIn(0)
}

type TypeAlias struct {
	Name    string
	Aliased Type
	Pos     Pos
}

func (*TypeAlias) declNode()          {}
func (*TypeAlias) DeclKind() DeclKind { return DeclAlias }
func (d *TypeAlias) DeclName() string { return d.Name }
func (d *TypeAlias) Position() Pos    { return d.Pos }

func (d *TypeAlias) Hash() uint64 {
	return hashOf("TypeAlias", stringHash(d.Name), d.Aliased.Hash())
}

func (d *TypeAlias) Show() string {
	return "type " + d.Name + " = " + d.Aliased.ShowIn(0)
}
