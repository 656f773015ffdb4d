// Package simplify rewrites resolved types so that they can be declared in C.
//
// The central transform collapses a nullable wrapper around a pointer-shaped
// type into that pointer type, declared as nullable: Option<&T> becomes a
// nullable *const T, and Option<fn()> a nullable function pointer. Nullable
// wrappers around anything else are kept, and an explicit pointer is never
// merged with the nullability of what it points to.
package simplify

import (
	"fmt"
	"log/slog"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
)

type Options struct {
	// StandardWrappers rewrites well-known generic wrappers before classification:
	// NonNull<T> and Box<T> become *mut T, Cell<T>, ManuallyDrop<T>, MaybeUninit<T>
	// and Pin<T> become T, and NonZero integers become non-zeroable integers.
	StandardWrappers bool
}

// Simplifier holds no mutable state, so it is safe to share between goroutines
type Simplifier struct {
	opts Options
	*slog.Logger
}

func New(opts Options) *Simplifier {
	return &Simplifier{
		opts:   opts,
		Logger: slog.With("section", "simplify"),
	}
}

// Collapse simplifies t with the default Options
func Collapse(t ir.Type) (ir.Type, error) {
	return New(Options{}).Collapse(t)
}

// WalkDecl simplifies decl with the default Options
func WalkDecl(decl ir.Decl) (ir.Decl, error) {
	return New(Options{}).WalkDecl(decl)
}

// Collapse returns t with every nullable wrapper around a pointer-shaped type
// replaced by the nullable form of that type, innermost first.
//
// t is never modified: subtrees that need no rewriting are shared with the
// result, and everything else is rebuilt. A nullable directly wrapping another
// nullable yields a binderr.MalformedTypeError.
func (s *Simplifier) Collapse(t ir.Type) (ir.Type, error) {
	switch t := t.(type) {
	case *ir.Nullable:
		return s.collapseNullable(t)

	case *ir.RawPointer:
		// the pointer stays, whatever the pointee says about its own nullability
		target, err := s.Collapse(t.Target)
		if err != nil {
			return nil, err
		}
		if target == t.Target {
			return t, nil
		}
		return &ir.RawPointer{Target: target, Mutable: t.Mutable, Nullable: t.Nullable}, nil

	case *ir.Reference:
		target, err := s.Collapse(t.Target)
		if err != nil {
			return nil, err
		}
		if target == t.Target {
			return t, nil
		}
		return &ir.Reference{Target: target, Mutable: t.Mutable}, nil

	case *ir.FunctionPointer:
		return s.collapseFunctionPointer(t)

	case *ir.Named:
		args, changed, err := s.collapseAll(t.Args)
		if err != nil {
			return nil, err
		}
		named := t
		if changed {
			named = &ir.Named{Name: t.Name, Category: t.Category, Args: args}
		}
		if s.opts.StandardWrappers {
			return standardType(named), nil
		}
		return named, nil

	case *ir.Array:
		elem, err := s.Collapse(t.Elem)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return &ir.Array{Elem: elem, Len: t.Len}, nil

	case *ir.FixedBuffer:
		elem, err := s.Collapse(t.Elem)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return &ir.FixedBuffer{Elem: elem, Len: t.Len}, nil

	case *ir.Primitive, *ir.Opaque:
		return t, nil

	default:
		panic(fmt.Sprintf("Collapse: unexpected type %T", t))
	}
}

func (s *Simplifier) collapseNullable(n *ir.Nullable) (ir.Type, error) {
	if _, ok := n.Inner.(*ir.Nullable); ok {
		return nil, binderr.New(binderr.MalformedTypeError{Type: n})
	}
	inner, err := s.Collapse(n.Inner)
	if err != nil {
		return nil, err
	}
	// a standard wrapper can unwrap to a nullable, like Option<Cell<Option<T>>>
	if _, ok := inner.(*ir.Nullable); ok {
		return nil, binderr.New(binderr.MalformedTypeError{Type: n})
	}

	if IsPointerShaped(inner) {
		collapsed := MakeNullable(inner)
		s.Debug("collapsed nullable pointer", "from", n, "to", collapsed)
		return collapsed, nil
	}
	if s.opts.StandardWrappers {
		if zeroable, ok := makeZeroable(inner); ok {
			s.Debug("collapsed nullable non-zero integer", "from", n, "to", zeroable)
			return zeroable, nil
		}
	}

	if inner == n.Inner {
		return n, nil
	}
	return &ir.Nullable{Inner: inner}, nil
}

func (s *Simplifier) collapseFunctionPointer(f *ir.FunctionPointer) (ir.Type, error) {
	changed := false
	var params []ir.Param
	if f.Params != nil {
		params = make([]ir.Param, len(f.Params))
	}
	for i, param := range f.Params {
		collapsed, err := s.Collapse(param.Type)
		if err != nil {
			return nil, err
		}
		changed = changed || collapsed != param.Type
		params[i] = ir.Param{Name: param.Name, Type: collapsed}
	}
	ret, err := s.Collapse(f.Return)
	if err != nil {
		return nil, err
	}
	if !changed && ret == f.Return {
		return f, nil
	}
	return &ir.FunctionPointer{Params: params, Return: ret, Nullable: f.Nullable}, nil
}

// collapseAll collapses every type of ts, and reports whether any of them changed
func (s *Simplifier) collapseAll(ts []ir.Type) ([]ir.Type, bool, error) {
	changed := false
	var collapsed []ir.Type
	if ts != nil {
		collapsed = make([]ir.Type, len(ts))
	}
	for i, t := range ts {
		c, err := s.Collapse(t)
		if err != nil {
			return nil, false, err
		}
		changed = changed || c != t
		collapsed[i] = c
	}
	return collapsed, changed, nil
}
