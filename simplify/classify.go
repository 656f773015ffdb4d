package simplify

import (
	"fmt"

	"github.com/cottand/bindc/ir"
)

// IsPointerShaped reports whether values of t occupy exactly one machine
// pointer and already use all-zero bits to mean 'points nowhere'.
//
// Only references, raw pointers and function pointers qualify. Opaque and
// named types have no null bit pattern, even when they happen to be
// pointer-sized.
func IsPointerShaped(t ir.Type) bool {
	switch t := t.(type) {
	case *ir.Reference, *ir.RawPointer, *ir.FunctionPointer:
		return true
	case *ir.Primitive, *ir.Opaque, *ir.Named, *ir.Array, *ir.FixedBuffer, *ir.Nullable:
		return false
	default:
		panic(fmt.Sprintf("IsPointerShaped: unexpected type %T", t))
	}
}

// MakeNullable returns the pointer-shaped type t, declared as possibly null.
//
// A reference cannot be null, so it becomes a nullable raw pointer to the
// same target with the same mutability.
func MakeNullable(t ir.Type) ir.Type {
	switch t := t.(type) {
	case *ir.Reference:
		return &ir.RawPointer{Target: t.Target, Mutable: t.Mutable, Nullable: true}
	case *ir.RawPointer:
		if t.Nullable {
			return t
		}
		return &ir.RawPointer{Target: t.Target, Mutable: t.Mutable, Nullable: true}
	case *ir.FunctionPointer:
		if t.Nullable {
			return t
		}
		return &ir.FunctionPointer{Params: t.Params, Return: t.Return, Nullable: true}
	default:
		panic(fmt.Sprintf("MakeNullable: %s (a %T) is not pointer-shaped", ir.TypeString(t), t))
	}
}
