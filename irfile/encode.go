package irfile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cottand/bindc/ir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Encode writes decls to w in the format Decode reads
func Encode(w io.Writer, decls []ir.Decl) error {
	items := make([]*yaml.Node, 0, len(decls))
	for _, decl := range decls {
		items = append(items, encodeDecl(decl))
	}
	root := mapping(yaml.Style(0), keyDecls, sequence(yaml.Style(0), items...))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return errors.Wrap(err, "could not encode declarations")
	}
	return errors.Wrap(enc.Close(), "could not flush declarations")
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func boolean(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}

// mapping builds a mapping node out of alternating string keys and *yaml.Node values
func mapping(style yaml.Style, keyValues ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: style}
	for i := 0; i+1 < len(keyValues); i += 2 {
		n.Content = append(n.Content, scalar(keyValues[i].(string)), keyValues[i+1].(*yaml.Node))
	}
	return n
}

func sequence(style yaml.Style, items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: style, Content: items}
}

func encodeDecl(decl ir.Decl) *yaml.Node {
	switch d := decl.(type) {
	case *ir.StructDecl:
		return mapping(0, declStruct, scalar(d.Name), keyFields, encodeFields(d.Fields))
	case *ir.UnionDecl:
		return mapping(0, declUnion, scalar(d.Name), keyFields, encodeFields(d.Fields))
	case *ir.FunctionDecl:
		return mapping(0, declFn, scalar(d.Name), keyParams, encodeFields(d.Params), keyReturn, encodeType(d.Return))
	case *ir.TypeAlias:
		return mapping(0, declAlias, scalar(d.Name), keyType, encodeType(d.Aliased))
	default:
		panic(fmt.Sprintf("encodeDecl: unexpected declaration %T", decl))
	}
}

func encodeFields(fields []ir.Field) *yaml.Node {
	items := make([]*yaml.Node, 0, len(fields))
	for _, field := range fields {
		items = append(items, mapping(0, keyName, scalar(field.Name), keyType, encodeType(field.Type)))
	}
	if len(items) == 0 {
		return sequence(yaml.FlowStyle)
	}
	return sequence(0, items...)
}

// encodeType renders t as a flow mapping, or as a plain scalar for primitives
func encodeType(t ir.Type) *yaml.Node {
	switch t := t.(type) {
	case *ir.Primitive:
		if t.NonZero {
			return mapping(yaml.FlowStyle, shapePrim, scalar(t.Name), modNonZero, boolean(true))
		}
		return scalar(t.Name)

	case *ir.Opaque:
		return mapping(yaml.FlowStyle, shapeOpaque, scalar(t.Name))

	case *ir.Named:
		shape := shapeStruct
		switch t.Category {
		case ir.NamedUnion:
			shape = shapeUnion
		case ir.NamedEnum:
			shape = shapeEnum
		}
		if len(t.Args) == 0 {
			return mapping(yaml.FlowStyle, shape, scalar(t.Name))
		}
		args := make([]*yaml.Node, 0, len(t.Args))
		for _, arg := range t.Args {
			args = append(args, encodeType(arg))
		}
		return mapping(yaml.FlowStyle, shape, scalar(t.Name), modArgs, sequence(yaml.FlowStyle, args...))

	case *ir.Reference:
		n := mapping(yaml.FlowStyle, shapeRef, encodeType(t.Target))
		if t.Mutable {
			n = appendEntry(n, modMut, boolean(true))
		}
		return n

	case *ir.RawPointer:
		n := mapping(yaml.FlowStyle, shapePtr, encodeType(t.Target))
		if t.Mutable {
			n = appendEntry(n, modMut, boolean(true))
		}
		if t.Nullable {
			n = appendEntry(n, modNullable, boolean(true))
		}
		return n

	case *ir.FunctionPointer:
		params := make([]*yaml.Node, 0, len(t.Params))
		for _, param := range t.Params {
			if param.Name == "" {
				params = append(params, mapping(yaml.FlowStyle, keyType, encodeType(param.Type)))
				continue
			}
			params = append(params, mapping(yaml.FlowStyle, keyName, scalar(param.Name), keyType, encodeType(param.Type)))
		}
		sig := mapping(yaml.FlowStyle, keyParams, sequence(yaml.FlowStyle, params...), keyReturn, encodeType(t.Return))
		n := mapping(yaml.FlowStyle, shapeFn, sig)
		if t.Nullable {
			n = appendEntry(n, modNullable, boolean(true))
		}
		return n

	case *ir.Nullable:
		return mapping(yaml.FlowStyle, shapeOption, encodeType(t.Inner))

	case *ir.Array:
		return mapping(yaml.FlowStyle, shapeArray, encodeType(t.Elem), modLen, encodeLength(t.Len))

	case *ir.FixedBuffer:
		return mapping(yaml.FlowStyle, shapeBuffer, encodeType(t.Elem), modLen, encodeLength(t.Len))

	default:
		panic(fmt.Sprintf("encodeType: unexpected type %T", t))
	}
}

func appendEntry(n *yaml.Node, key string, value *yaml.Node) *yaml.Node {
	n.Content = append(n.Content, scalar(key), value)
	return n
}

func encodeLength(l ir.ArrayLength) *yaml.Node {
	if l.Const != "" {
		return scalar(l.Const)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(l.Value, 10)}
}
