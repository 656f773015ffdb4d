package ir

import "fmt"

// Children returns the type positions directly contained in t, in order
func Children(t Type) []Type {
	switch t := t.(type) {
	case *Primitive, *Opaque:
		return nil
	case *Named:
		return t.Args
	case *Reference:
		return []Type{t.Target}
	case *RawPointer:
		return []Type{t.Target}
	case *FunctionPointer:
		children := make([]Type, 0, len(t.Params)+1)
		for _, param := range t.Params {
			children = append(children, param.Type)
		}
		return append(children, t.Return)
	case *Nullable:
		return []Type{t.Inner}
	case *Array:
		return []Type{t.Elem}
	case *FixedBuffer:
		return []Type{t.Elem}
	default:
		panic(fmt.Sprintf("Children: unexpected type %T", t))
	}
}

// Inspect traverses t depth-first, calling f on every node before its children.
// If f returns false, the children of that node are skipped.
func Inspect(t Type, f func(Type) bool) {
	if !f(t) {
		return
	}
	for _, child := range Children(t) {
		Inspect(child, f)
	}
}

// DeclTypes returns every top-level type position of decl, in declaration order
func DeclTypes(decl Decl) []Type {
	switch d := decl.(type) {
	case *StructDecl:
		return fieldTypes(d.Fields)
	case *UnionDecl:
		return fieldTypes(d.Fields)
	case *FunctionDecl:
		return append(fieldTypes(d.Params), d.Return)
	case *TypeAlias:
		return []Type{d.Aliased}
	default:
		panic(fmt.Sprintf("DeclTypes: unexpected declaration %T", decl))
	}
}

func fieldTypes(fields []Field) []Type {
	types := make([]Type, 0, len(fields))
	for _, field := range fields {
		types = append(types, field.Type)
	}
	return types
}
