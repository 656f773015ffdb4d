package simplify

import (
	"fmt"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/pkg/errors"
)

// WalkDecl returns a new declaration where every type position of decl is collapsed.
// Names and order of fields and parameters are kept exactly.
//
// A malformed type fails the whole declaration, and the returned error
// names the declaration and the position the type was found at.
func (s *Simplifier) WalkDecl(decl ir.Decl) (ir.Decl, error) {
	switch d := decl.(type) {
	case *ir.StructDecl:
		fields, err := s.walkFields(d, "field", d.Fields)
		if err != nil {
			return nil, err
		}
		return &ir.StructDecl{Name: d.Name, Fields: fields, Pos: d.Pos}, nil

	case *ir.UnionDecl:
		fields, err := s.walkFields(d, "field", d.Fields)
		if err != nil {
			return nil, err
		}
		return &ir.UnionDecl{Name: d.Name, Fields: fields, Pos: d.Pos}, nil

	case *ir.FunctionDecl:
		params, err := s.walkFields(d, "parameter", d.Params)
		if err != nil {
			return nil, err
		}
		ret, err := s.collapseAt(d, "return type", d.Return)
		if err != nil {
			return nil, err
		}
		return &ir.FunctionDecl{Name: d.Name, Params: params, Return: ret, Pos: d.Pos}, nil

	case *ir.TypeAlias:
		aliased, err := s.collapseAt(d, "aliased type", d.Aliased)
		if err != nil {
			return nil, err
		}
		return &ir.TypeAlias{Name: d.Name, Aliased: aliased, Pos: d.Pos}, nil

	default:
		panic(fmt.Sprintf("WalkDecl: unexpected declaration %T", decl))
	}
}

func (s *Simplifier) walkFields(decl ir.Decl, what string, fields []ir.Field) ([]ir.Field, error) {
	if fields == nil {
		return nil, nil
	}
	walked := make([]ir.Field, len(fields))
	for i, field := range fields {
		collapsed, err := s.collapseAt(decl, fmt.Sprintf("%s '%s'", what, field.Name), field.Type)
		if err != nil {
			return nil, err
		}
		walked[i] = ir.Field{Name: field.Name, Type: collapsed}
	}
	return walked, nil
}

func (s *Simplifier) collapseAt(decl ir.Decl, location string, t ir.Type) (ir.Type, error) {
	collapsed, err := s.Collapse(t)
	if err == nil {
		return collapsed, nil
	}
	var malformed binderr.MalformedTypeError
	if errors.As(err, &malformed) {
		malformed.Decl = decl.DeclName()
		malformed.Location = location
		malformed.Pos = decl.Position()
		s.Debug("malformed type", "decl", decl, "at", location, "type", malformed.Type)
		return nil, malformed
	}
	return nil, err
}
