package irfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type decoder struct {
	file string
	errs *binderr.Errors
	// expanding holds the anchored nodes whose aliases are being decoded
	expanding *set.Set[*yaml.Node]
}

// ReadFile decodes the declarations stored at path
func ReadFile(path string) ([]ir.Decl, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open IR file %s", path)
	}
	defer func() { _ = f.Close() }()
	return Decode(f, path)
}

// Decode reads declarations from r. file is only used to report positions.
//
// Every malformed entry is reported, as a binderr.DecodeError, and no
// declarations are returned if there is any.
func Decode(r io.Reader, file string) ([]ir.Decl, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "could not parse YAML in %s", file)
	}

	d := &decoder{file: file, expanding: set.New[*yaml.Node](0)}
	decls := d.document(&root)
	if d.errs.HasError() {
		slog.Debug("could not decode IR file", "section", "irfile", "file", file, "errors", d.errs)
		return nil, d.errs.Err()
	}
	return decls, nil
}

func (d *decoder) pos(n *yaml.Node) ir.Pos {
	return ir.Pos{File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) fail(n *yaml.Node, format string, args ...any) {
	d.errs = d.errs.With(binderr.New(binderr.DecodeError{
		Message: fmt.Sprintf(format, args...),
		Pos:     d.pos(n),
	}))
}

type entry struct {
	key   string
	keyAt *yaml.Node
	value *yaml.Node
}

// entries returns the key/value pairs of a mapping node, in order.
// A key may appear only once.
func (d *decoder) entries(n *yaml.Node) ([]entry, bool) {
	if n.Kind == yaml.AliasNode {
		d.fail(n, "alias '*%s' can only stand for a type", n.Value)
		return nil, false
	}
	if n.Kind != yaml.MappingNode {
		d.fail(n, "expected a mapping")
		return nil, false
	}
	pairs := make([]entry, 0, len(n.Content)/2)
	seen := set.New[string](len(n.Content) / 2)
	ok := true
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !seen.Insert(key.Value) {
			d.fail(key, "duplicate key '%s'", key.Value)
			ok = false
			continue
		}
		pairs = append(pairs, entry{key: key.Value, keyAt: key, value: n.Content[i+1]})
	}
	return pairs, ok
}

func (d *decoder) document(root *yaml.Node) []ir.Decl {
	n := root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	pairs, ok := d.entries(n)
	if !ok {
		return nil
	}
	var decls []ir.Decl
	for _, pair := range pairs {
		if pair.key != keyDecls {
			d.fail(pair.keyAt, "unexpected key '%s', expected '%s'", pair.key, keyDecls)
			continue
		}
		if pair.value.Kind != yaml.SequenceNode {
			d.fail(pair.value, "'%s' must be a list", keyDecls)
			continue
		}
		for _, item := range pair.value.Content {
			if decl := d.decl(item); decl != nil {
				decls = append(decls, decl)
			}
		}
	}
	return decls
}

func (d *decoder) decl(n *yaml.Node) ir.Decl {
	pairs, ok := d.entries(n)
	if !ok {
		return nil
	}
	var kind, name string
	var others []entry
	for _, pair := range pairs {
		if declKinds.Contains(pair.key) {
			if kind != "" {
				d.fail(pair.keyAt, "declaration is both a %s and a %s", kind, pair.key)
				return nil
			}
			kind, name = pair.key, valueOf(pair.value)
			continue
		}
		others = append(others, pair)
	}
	if kind == "" {
		d.fail(n, "declaration must have one of the keys struct, union, fn, alias")
		return nil
	}
	if name == "" {
		d.fail(n, "%s declaration has no name", kind)
		return nil
	}

	pos := d.pos(n)
	switch kind {
	case declStruct, declUnion:
		if !d.onlyKeys(others, keyFields) {
			return nil
		}
		var declFields []ir.Field
		if list, ok := lookup(others, keyFields); ok {
			declFields, ok = d.fieldList(list)
			if !ok {
				return nil
			}
		}
		if kind == declStruct {
			return &ir.StructDecl{Name: name, Fields: declFields, Pos: pos}
		}
		return &ir.UnionDecl{Name: name, Fields: declFields, Pos: pos}

	case declFn:
		if !d.onlyKeys(others, keyParams, keyReturn) {
			return nil
		}
		var params []ir.Field
		if list, ok := lookup(others, keyParams); ok {
			params, ok = d.fieldList(list)
			if !ok {
				return nil
			}
		}
		ret := ir.Type(&ir.Primitive{Name: ir.UnitName})
		if retNode, ok := lookup(others, keyReturn); ok {
			if ret = d.typ(retNode); ret == nil {
				return nil
			}
		}
		return &ir.FunctionDecl{Name: name, Params: params, Return: ret, Pos: pos}

	default:
		if !d.onlyKeys(others, keyType) {
			return nil
		}
		typeNode, ok := lookup(others, keyType)
		if !ok {
			d.fail(n, "alias '%s' has no type", name)
			return nil
		}
		aliased := d.typ(typeNode)
		if aliased == nil {
			return nil
		}
		return &ir.TypeAlias{Name: name, Aliased: aliased, Pos: pos}
	}
}

func (d *decoder) onlyKeys(pairs []entry, allowed ...string) bool {
	ok := true
	for _, pair := range pairs {
		if !slices.Contains(allowed, pair.key) {
			d.fail(pair.keyAt, "unexpected key '%s'", pair.key)
			ok = false
		}
	}
	return ok
}

// valueOf returns the value of a scalar node, following aliases, or "" for any other node
func valueOf(n *yaml.Node) string {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func lookup(pairs []entry, key string) (*yaml.Node, bool) {
	for _, pair := range pairs {
		if pair.key == key {
			return pair.value, true
		}
	}
	return nil, false
}

// fieldList decodes a list of {name, type} mappings
func (d *decoder) fieldList(n *yaml.Node) ([]ir.Field, bool) {
	if n.Kind != yaml.SequenceNode {
		d.fail(n, "expected a list")
		return nil, false
	}
	fields := make([]ir.Field, 0, len(n.Content))
	ok := true
	for _, item := range n.Content {
		name, t := d.namedType(item)
		if t == nil {
			ok = false
			continue
		}
		if name == "" {
			d.fail(item, "field has no name")
			ok = false
			continue
		}
		fields = append(fields, ir.Field{Name: name, Type: t})
	}
	return fields, ok
}

// namedType decodes a {name, type} mapping, where name is optional
func (d *decoder) namedType(n *yaml.Node) (string, ir.Type) {
	pairs, ok := d.entries(n)
	if !ok {
		return "", nil
	}
	var name string
	var t ir.Type
	for _, pair := range pairs {
		switch pair.key {
		case keyName:
			name = valueOf(pair.value)
		case keyType:
			t = d.typ(pair.value)
			if t == nil {
				return "", nil
			}
		default:
			d.fail(pair.keyAt, "unexpected key '%s'", pair.key)
			return "", nil
		}
	}
	if t == nil {
		d.fail(n, "missing '%s'", keyType)
	}
	return name, t
}

func (d *decoder) typ(n *yaml.Node) ir.Type {
	if n.Kind == yaml.AliasNode {
		return d.alias(n)
	}
	if n.Kind == yaml.ScalarNode {
		return d.primitive(n, n.Value, false)
	}
	pairs, ok := d.entries(n)
	if !ok {
		return nil
	}

	var shape *entry
	var modPairs []entry
	for i, pair := range pairs {
		if _, isShape := modifiers[pair.key]; isShape {
			if shape != nil {
				d.fail(pair.keyAt, "type is both '%s' and '%s'", shape.key, pair.key)
				return nil
			}
			shape = &pairs[i]
			continue
		}
		modPairs = append(modPairs, pair)
	}
	if shape == nil {
		d.fail(n, "type has no shape key")
		return nil
	}
	mods := make(map[string]*yaml.Node, len(modPairs))
	for _, pair := range modPairs {
		if !modifiers[shape.key].Contains(pair.key) {
			d.fail(pair.keyAt, "'%s' does not apply to '%s'", pair.key, shape.key)
			return nil
		}
		mods[pair.key] = pair.value
	}

	switch shape.key {
	case shapePrim:
		nonZero, ok := d.flag(mods, modNonZero)
		if !ok {
			return nil
		}
		return d.primitive(shape.value, valueOf(shape.value), nonZero)

	case shapeOpaque:
		name := valueOf(shape.value)
		if name == "" {
			d.fail(shape.keyAt, "%s reference has no name", shape.key)
			return nil
		}
		return &ir.Opaque{Name: name}

	case shapeStruct, shapeUnion, shapeEnum:
		return d.named(shape, mods)

	case shapeRef:
		target := d.typ(shape.value)
		mutable, ok := d.flag(mods, modMut)
		if target == nil || !ok {
			return nil
		}
		return &ir.Reference{Target: target, Mutable: mutable}

	case shapePtr:
		target := d.typ(shape.value)
		mutable, okMut := d.flag(mods, modMut)
		nullable, okNull := d.flag(mods, modNullable)
		if target == nil || !okMut || !okNull {
			return nil
		}
		return &ir.RawPointer{Target: target, Mutable: mutable, Nullable: nullable}

	case shapeFn:
		return d.functionPointer(shape.value, mods)

	case shapeOption:
		inner := d.typ(shape.value)
		if inner == nil {
			return nil
		}
		return &ir.Nullable{Inner: inner}

	case shapeArray, shapeBuffer:
		elem := d.typ(shape.value)
		lenNode, ok := mods[modLen]
		if !ok {
			d.fail(n, "'%s' needs a '%s'", shape.key, modLen)
			return nil
		}
		length, ok := d.length(lenNode)
		if elem == nil || !ok {
			return nil
		}
		if shape.key == shapeArray {
			return &ir.Array{Elem: elem, Len: length}
		}
		return &ir.FixedBuffer{Elem: elem, Len: length}

	default:
		panic("unreachable")
	}
}

// alias decodes the type an alias stands for, as if it was written out in place
func (d *decoder) alias(n *yaml.Node) ir.Type {
	if !d.expanding.Insert(n.Alias) {
		d.fail(n, "alias '*%s' refers to itself", n.Value)
		return nil
	}
	defer d.expanding.Remove(n.Alias)
	return d.typ(n.Alias)
}

func (d *decoder) primitive(n *yaml.Node, name string, nonZero bool) ir.Type {
	info, ok := ir.LookupPrimitive(name)
	if !ok {
		d.fail(n, "unknown primitive '%s'", name)
		return nil
	}
	if nonZero && info.Kind != ir.PrimInteger {
		d.fail(n, "only integers can be non-zero, but got '%s'", name)
		return nil
	}
	return &ir.Primitive{Name: name, NonZero: nonZero}
}

func (d *decoder) named(shape *entry, mods map[string]*yaml.Node) ir.Type {
	named := &ir.Named{Name: valueOf(shape.value)}
	switch shape.key {
	case shapeStruct:
		named.Category = ir.NamedStruct
	case shapeUnion:
		named.Category = ir.NamedUnion
	default:
		named.Category = ir.NamedEnum
	}
	if named.Name == "" {
		d.fail(shape.keyAt, "%s reference has no name", shape.key)
		return nil
	}
	argsNode, ok := mods[modArgs]
	if !ok {
		return named
	}
	if argsNode.Kind != yaml.SequenceNode {
		d.fail(argsNode, "'%s' must be a list", modArgs)
		return nil
	}
	for _, argNode := range argsNode.Content {
		arg := d.typ(argNode)
		if arg == nil {
			return nil
		}
		named.Args = append(named.Args, arg)
	}
	return named
}

func (d *decoder) functionPointer(n *yaml.Node, mods map[string]*yaml.Node) ir.Type {
	nullable, ok := d.flag(mods, modNullable)
	if !ok {
		return nil
	}
	pairs, ok := d.entries(n)
	if !ok {
		return nil
	}
	fn := &ir.FunctionPointer{Return: &ir.Primitive{Name: ir.UnitName}, Nullable: nullable}
	for _, pair := range pairs {
		switch pair.key {
		case keyParams:
			if pair.value.Kind != yaml.SequenceNode {
				d.fail(pair.value, "'%s' must be a list", keyParams)
				return nil
			}
			for _, item := range pair.value.Content {
				name, t := d.namedType(item)
				if t == nil {
					return nil
				}
				fn.Params = append(fn.Params, ir.Param{Name: name, Type: t})
			}
		case keyReturn:
			if fn.Return = d.typ(pair.value); fn.Return == nil {
				return nil
			}
		default:
			d.fail(pair.keyAt, "unexpected key '%s' in function pointer", pair.key)
			return nil
		}
	}
	return fn
}

func (d *decoder) flag(mods map[string]*yaml.Node, key string) (bool, bool) {
	n, ok := mods[key]
	if !ok {
		return false, true
	}
	var value bool
	if err := n.Decode(&value); err != nil {
		d.fail(n, "'%s' must be true or false", key)
		return false, false
	}
	return value, true
}

// length decodes an array length, either a number or the name of a constant
func (d *decoder) length(n *yaml.Node) (ir.ArrayLength, bool) {
	str := valueOf(n)
	if str == "" {
		d.fail(n, "array length must be a number or a constant name")
		return ir.ArrayLength{}, false
	}
	if value, err := strconv.ParseUint(str, 10, 64); err == nil {
		return ir.ArrayLength{Value: value}, true
	}
	return ir.ArrayLength{Const: str}, true
}
