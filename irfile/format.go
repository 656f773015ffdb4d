// Package irfile reads and writes resolved declarations as YAML.
//
// A file holds a single mapping with a 'decls' list. Each declaration is a
// mapping keyed by its kind:
//
//	decls:
//	  - struct: Foo
//	    fields:
//	      - name: x
//	        type: {option: {ref: {opaque: Foo}}}
//	  - fn: root
//	    params:
//	      - name: a
//	        type: {ptr: {fn: {params: [], return: ()}}}
//	    return: ()
//	  - alias: Handle
//	    type: {ptr: c_void, mut: true}
//
// A type is either a primitive name, or a mapping with exactly one shape key
// (prim, opaque, struct, union, enum, ref, ptr, fn, option, array, buffer)
// plus the modifiers that shape accepts.
package irfile

import "github.com/hashicorp/go-set/v3"

const (
	keyDecls  = "decls"
	keyName   = "name"
	keyType   = "type"
	keyFields = "fields"
	keyParams = "params"
	keyReturn = "return"

	declStruct = "struct"
	declUnion  = "union"
	declFn     = "fn"
	declAlias  = "alias"

	shapePrim   = "prim"
	shapeOpaque = "opaque"
	shapeStruct = "struct"
	shapeUnion  = "union"
	shapeEnum   = "enum"
	shapeRef    = "ref"
	shapePtr    = "ptr"
	shapeFn     = "fn"
	shapeOption = "option"
	shapeArray  = "array"
	shapeBuffer = "buffer"

	modMut      = "mut"
	modNullable = "nullable"
	modNonZero  = "nonzero"
	modLen      = "len"
	modArgs     = "args"
)

// modifiers lists, per shape key, the other keys a type mapping may carry
var modifiers = map[string]*set.Set[string]{
	shapePrim:   set.From([]string{modNonZero}),
	shapeOpaque: set.New[string](0),
	shapeStruct: set.From([]string{modArgs}),
	shapeUnion:  set.From([]string{modArgs}),
	shapeEnum:   set.From([]string{modArgs}),
	shapeRef:    set.From([]string{modMut}),
	shapePtr:    set.From([]string{modMut, modNullable}),
	shapeFn:     set.From([]string{modNullable}),
	shapeOption: set.New[string](0),
	shapeArray:  set.From([]string{modLen}),
	shapeBuffer: set.From([]string{modLen}),
}

var declKinds = set.From([]string{declStruct, declUnion, declFn, declAlias})
