package simplify

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns a small instance of every kind of type, and fails the test for kinds it does not know
func sample(t *testing.T, kind ir.TypeKind) ir.Type {
	t.Helper()
	switch kind {
	case ir.KindPrimitive:
		return &ir.Primitive{Name: "u8"}
	case ir.KindOpaque:
		return opaque("Foo")
	case ir.KindNamed:
		return &ir.Named{Name: "Bar", Category: ir.NamedUnion}
	case ir.KindReference:
		return &ir.Reference{Target: opaque("Foo")}
	case ir.KindRawPointer:
		return &ir.RawPointer{Target: opaque("Foo"), Mutable: true}
	case ir.KindFunctionPointer:
		return &ir.FunctionPointer{Return: unit}
	case ir.KindNullable:
		return &ir.Nullable{Inner: opaque("Foo")}
	case ir.KindArray:
		return &ir.Array{Elem: unit, Len: ir.ArrayLength{Value: 3}}
	case ir.KindFixedBuffer:
		return &ir.FixedBuffer{Elem: unit, Len: ir.ArrayLength{Value: 3}}
	default:
		t.Fatalf("no sample for type kind %s: classify and collapse it, then add it here", kind)
		return nil
	}
}

func TestEveryKindIsHandled(t *testing.T) {
	pointerShaped := map[ir.TypeKind]bool{
		ir.KindReference:       true,
		ir.KindRawPointer:      true,
		ir.KindFunctionPointer: true,
	}
	for _, kind := range ir.TypeKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			typ := sample(t, kind)
			require.Equal(t, kind, typ.Kind())

			assert.Equal(t, pointerShaped[kind], IsPointerShaped(typ))

			collapsed, err := Collapse(typ)
			require.NoError(t, err)
			assert.True(t, ir.Equal(typ, collapsed))

			wrapped, err := Collapse(&ir.Nullable{Inner: typ})
			if kind == ir.KindNullable {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if pointerShaped[kind] {
				// references cannot be null, so they turn into raw pointers
				want := kind
				if kind == ir.KindReference {
					want = ir.KindRawPointer
				}
				assert.Equal(t, want, wrapped.Kind())
				return
			}
			assert.Equal(t, ir.KindNullable, wrapped.Kind())
		})
	}
}

func randomName(rng *rand.Rand) string {
	names := []string{"Foo", "Bar", "Baz", "Handle", "Node"}
	return names[rng.Intn(len(names))]
}

// randomType builds a well-formed type, which never wraps a nullable directly in another
func randomType(rng *rand.Rand, depth int) ir.Type {
	return randomTypeOf(rng, depth, false)
}

// randomWrapped is randomType where named types are often standard wrappers
func randomWrapped(rng *rand.Rand, depth int) ir.Type {
	return randomTypeOf(rng, depth, true)
}

func randomWrapper(rng *rand.Rand, depth int) *ir.Named {
	if depth <= 0 || rng.Intn(3) == 0 {
		nonZero := []string{"NonZeroU8", "NonZeroI32", "NonZeroUSize"}
		return &ir.Named{Name: nonZero[rng.Intn(len(nonZero))]}
	}
	wrappers := []string{"NonNull", "Box", "Cell", "ManuallyDrop", "MaybeUninit", "Pin"}
	return &ir.Named{
		Name:     wrappers[rng.Intn(len(wrappers))],
		Category: ir.NamedStruct,
		Args:     []ir.Type{randomTypeOf(rng, depth-1, true)},
	}
}

func randomTypeOf(rng *rand.Rand, depth int, wrappers bool) ir.Type {
	kinds := ir.TypeKinds()
	kind := kinds[rng.Intn(len(kinds))]
	if depth <= 0 {
		kinds = []ir.TypeKind{ir.KindPrimitive, ir.KindOpaque, ir.KindNamed}
		kind = kinds[rng.Intn(len(kinds))]
	}

	switch kind {
	case ir.KindPrimitive:
		prims := []string{ir.UnitName, "u8", "c_int", "f64", "bool"}
		return &ir.Primitive{Name: prims[rng.Intn(len(prims))]}
	case ir.KindOpaque:
		return opaque(randomName(rng))
	case ir.KindNamed:
		if wrappers && rng.Intn(2) == 0 {
			return randomWrapper(rng, depth)
		}
		named := &ir.Named{Name: randomName(rng), Category: ir.NamedKind(1 + rng.Intn(3))}
		if depth > 0 && rng.Intn(3) == 0 {
			named.Args = []ir.Type{randomTypeOf(rng, depth-1, wrappers)}
		}
		return named
	case ir.KindReference:
		return &ir.Reference{Target: randomTypeOf(rng, depth-1, wrappers), Mutable: rng.Intn(2) == 0}
	case ir.KindRawPointer:
		return &ir.RawPointer{Target: randomTypeOf(rng, depth-1, wrappers), Mutable: rng.Intn(2) == 0, Nullable: rng.Intn(4) == 0}
	case ir.KindFunctionPointer:
		fn := &ir.FunctionPointer{Return: randomTypeOf(rng, depth-1, wrappers), Nullable: rng.Intn(4) == 0}
		for i := range rng.Intn(3) {
			fn.Params = append(fn.Params, ir.Param{Name: fmt.Sprint("p", i), Type: randomTypeOf(rng, depth-1, wrappers)})
		}
		return fn
	case ir.KindNullable:
		inner := randomTypeOf(rng, depth-1, wrappers)
		if inner.Kind() == ir.KindNullable {
			return inner
		}
		return &ir.Nullable{Inner: inner}
	case ir.KindArray:
		return &ir.Array{Elem: randomTypeOf(rng, depth-1, wrappers), Len: ir.ArrayLength{Value: uint64(1 + rng.Intn(8))}}
	case ir.KindFixedBuffer:
		return &ir.FixedBuffer{Elem: randomTypeOf(rng, depth-1, wrappers), Len: ir.ArrayLength{Const: "LEN"}}
	default:
		panic(fmt.Sprintf("randomType: unexpected kind %s", kind))
	}
}

// randomPointer builds a well-formed pointer-shaped type
func randomPointer(rng *rand.Rand, depth int) ir.Type {
	for {
		if t := randomType(rng, depth); IsPointerShaped(t) {
			return t
		}
	}
}

// randomValue builds a well-formed type that is neither pointer-shaped nor nullable
func randomValue(rng *rand.Rand, depth int) ir.Type {
	for {
		if t := randomType(rng, depth); !IsPointerShaped(t) && t.Kind() != ir.KindNullable {
			return t
		}
	}
}

type typeCase struct {
	T ir.Type
}

func (c typeCase) String() string { return ir.TypeString(c.T) }

func genTypes(build func(*rand.Rand, int) ir.Type) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(typeCase{T: build(genParams.Rng, 4)}, gopter.NoShrinker)
	}
}

func TestCollapseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("collapsing is idempotent", prop.ForAll(
		func(c typeCase) bool {
			once, err := Collapse(c.T)
			if err != nil {
				return false
			}
			twice, err := Collapse(once)
			return err == nil && ir.Equal(once, twice)
		},
		genTypes(randomType),
	))

	properties.Property("no nullable pointer-shaped type is left", prop.ForAll(
		func(c typeCase) bool {
			collapsed, err := Collapse(c.T)
			if err != nil {
				return false
			}
			ok := true
			ir.Inspect(collapsed, func(t ir.Type) bool {
				if n, isNullable := t.(*ir.Nullable); isNullable && IsPointerShaped(n.Inner) {
					ok = false
				}
				return ok
			})
			return ok
		},
		genTypes(randomType),
	))

	properties.Property("the input is never modified", prop.ForAll(
		func(c typeCase) bool {
			before := c.T.Hash()
			_, err := Collapse(c.T)
			return err == nil && c.T.Hash() == before
		},
		genTypes(randomType),
	))

	properties.Property("an explicit pointer is never merged", prop.ForAll(
		func(c typeCase) bool {
			collapsed, err := Collapse(&ir.RawPointer{Target: &ir.Nullable{Inner: c.T}})
			if err != nil {
				return false
			}
			inner, err := Collapse(c.T)
			if err != nil {
				return false
			}
			return ir.Equal(collapsed, &ir.RawPointer{Target: MakeNullable(inner)})
		},
		genTypes(randomPointer),
	))

	properties.Property("nullable values keep their wrapper", prop.ForAll(
		func(c typeCase) bool {
			collapsed, err := Collapse(&ir.Nullable{Inner: c.T})
			if err != nil {
				return false
			}
			inner, err := Collapse(c.T)
			if err != nil {
				return false
			}
			return ir.Equal(collapsed, &ir.Nullable{Inner: inner})
		},
		genTypes(randomValue),
	))

	properties.Property("fields keep their names and order", prop.ForAll(
		func(c typeCase, fieldCount int) bool {
			decl := &ir.StructDecl{Name: "Fields"}
			for i := range fieldCount {
				decl.Fields = append(decl.Fields, ir.Field{Name: fmt.Sprint("f", fieldCount-i), Type: c.T})
			}
			walked, err := WalkDecl(decl)
			if err != nil {
				return false
			}
			fields := walked.(*ir.StructDecl).Fields
			if len(fields) != len(decl.Fields) {
				return false
			}
			for i := range fields {
				if fields[i].Name != decl.Fields[i].Name {
					return false
				}
			}
			return true
		},
		genTypes(randomType),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}

// collapseWrapped collapses t with standard wrappers on, and returns nil when t is malformed.
// Wrappers can hide a nullable directly inside another, so generated types may be.
func collapseWrapped(t ir.Type) (ir.Type, error) {
	collapsed, err := New(Options{StandardWrappers: true}).Collapse(t)
	var malformed binderr.MalformedTypeError
	if errors.As(err, &malformed) {
		return nil, nil
	}
	return collapsed, err
}

func TestCollapseWrappedProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("collapsing with standard wrappers is idempotent", prop.ForAll(
		func(c typeCase) bool {
			once, err := collapseWrapped(c.T)
			if err != nil || once == nil {
				return err == nil
			}
			twice, err := collapseWrapped(once)
			return err == nil && ir.Equal(once, twice)
		},
		genTypes(randomWrapped),
	))

	properties.Property("no nullable pointer or non-zero integer is left", prop.ForAll(
		func(c typeCase) bool {
			collapsed, err := collapseWrapped(c.T)
			if err != nil || collapsed == nil {
				return err == nil
			}
			clean := true
			ir.Inspect(collapsed, func(t ir.Type) bool {
				if n, isNullable := t.(*ir.Nullable); isNullable {
					prim, isPrim := n.Inner.(*ir.Primitive)
					if IsPointerShaped(n.Inner) || n.Inner.Kind() == ir.KindNullable || isPrim && prim.NonZero {
						clean = false
					}
				}
				return clean
			})
			return clean
		},
		genTypes(randomWrapped),
	))

	properties.Property("standard wrappers leave no wrapper behind", prop.ForAll(
		func(c typeCase) bool {
			collapsed, err := collapseWrapped(c.T)
			if err != nil || collapsed == nil {
				return err == nil
			}
			clean := true
			ir.Inspect(collapsed, func(t ir.Type) bool {
				if named, isNamed := t.(*ir.Named); isNamed {
					_, nonZero := ir.NonZeroInteger(named.Name)
					clean = clean && !nonZero && standardType(named) == named
				}
				return clean
			})
			return clean
		},
		genTypes(randomWrapped),
	))

	properties.TestingRun(t)
}
