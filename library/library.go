// Package library holds the declarations of one translation unit.
//
// A Library is persistent: adding declarations returns a new Library that
// shares its structure with the old one, which stays valid and unchanged.
// This lets several passes hold on to the same declarations without copying
// them and without any locking.
package library

import (
	"iter"
	"log/slog"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
)

type Library struct {
	index *immutable.SortedMap[string, ir.Decl]
	order *immutable.List[ir.Decl]
	*slog.Logger
}

// Empty returns a library with no declarations
func Empty() *Library {
	return &Library{
		index:  immutable.NewSortedMap[string, ir.Decl](immutable.NewComparer("")),
		order:  immutable.NewList[ir.Decl](),
		Logger: slog.With("section", "library"),
	}
}

// New returns a library holding decls, in the order given
func New(decls ...ir.Decl) (*Library, error) {
	return Empty().With(decls...)
}

// With returns a new library holding the declarations of l followed by decls.
//
// Declaration names must be unique: every clash is reported as a
// binderr.DuplicateDeclarationError, and l is returned unchanged alongside them.
func (l *Library) With(decls ...ir.Decl) (*Library, error) {
	var errs *binderr.Errors
	index, order := l.index, l.order
	for _, decl := range decls {
		if existing, ok := index.Get(decl.DeclName()); ok {
			errs = errs.With(binderr.New(binderr.DuplicateDeclarationError{
				Name:  decl.DeclName(),
				First: existing.Position(),
				Pos:   decl.Position(),
			}))
			continue
		}
		index = index.Set(decl.DeclName(), decl)
		order = order.Append(decl)
	}
	if errs.HasError() {
		l.Debug("rejected declarations", "errors", errs)
		return l, errs.Err()
	}
	return &Library{index: index, order: order, Logger: l.Logger}, nil
}

// Lookup returns the declaration called name
func (l *Library) Lookup(name string) (ir.Decl, bool) {
	return l.index.Get(name)
}

func (l *Library) Len() int {
	return l.order.Len()
}

// All iterates over the declarations in the order they were added
func (l *Library) All() iter.Seq2[int, ir.Decl] {
	return func(yield func(int, ir.Decl) bool) {
		itr := l.order.Iterator()
		for !itr.Done() {
			i, decl := itr.Next()
			if !yield(i, decl) {
				return
			}
		}
	}
}

// Decls returns the declarations in the order they were added
func (l *Library) Decls() []ir.Decl {
	decls := make([]ir.Decl, 0, l.Len())
	for _, decl := range l.All() {
		decls = append(decls, decl)
	}
	return decls
}

// Names iterates over the declared names in sorted order
func (l *Library) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		itr := l.index.Iterator()
		for !itr.Done() {
			name, _, _ := itr.Next()
			if !yield(name) {
				return
			}
		}
	}
}
