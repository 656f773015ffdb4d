package simplify

import "github.com/cottand/bindc/ir"

// standardType rewrites the well-known wrapper n stands for, or returns n unchanged
func standardType(n *ir.Named) ir.Type {
	if len(n.Args) == 0 {
		if prim, ok := ir.NonZeroInteger(n.Name); ok {
			return prim
		}
		return n
	}
	if len(n.Args) != 1 {
		return n
	}

	arg := n.Args[0]
	switch n.Name {
	case "NonNull", "Box":
		return &ir.RawPointer{Target: arg, Mutable: true}
	case "Cell", "ManuallyDrop", "MaybeUninit", "Pin":
		return arg
	default:
		return n
	}
}

// makeZeroable turns a non-zero integer into a plain one, where 0 stands for no value
func makeZeroable(t ir.Type) (ir.Type, bool) {
	prim, ok := t.(*ir.Primitive)
	if !ok || !prim.NonZero {
		return nil, false
	}
	return &ir.Primitive{Name: prim.Name}, true
}
