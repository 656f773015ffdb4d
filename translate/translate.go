// Package translate runs declaration simplification over a whole library.
package translate

import (
	"context"
	"log/slog"
	"slices"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/cottand/bindc/library"
	"github.com/cottand/bindc/simplify"
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Simplify simplify.Options
	// KeepGoing skips declarations that fail to translate instead of
	// aborting the whole run on the first failure
	KeepGoing bool
	// Jobs bounds the number of declarations translated at once, 0 means no limit
	Jobs int
}

type Result struct {
	// Decls are the translated declarations, in library order.
	// Declarations that failed are left out.
	Decls []ir.Decl
	// Failed holds one error per declaration left out of Decls
	Failed *binderr.Errors
	// Warnings do not prevent a declaration from being translated
	Warnings *binderr.Errors
}

type Translator struct {
	opts       Options
	simplifier *simplify.Simplifier
	*slog.Logger
}

func NewTranslator(opts Options) *Translator {
	return &Translator{
		opts:       opts,
		simplifier: simplify.New(opts.Simplify),
		Logger:     slog.With("section", "translate"),
	}
}

// Run translates lib with opts
func Run(ctx context.Context, lib *library.Library, opts Options) (*Result, error) {
	return NewTranslator(opts).Translate(ctx, lib)
}

// Translate simplifies every declaration of lib.
//
// Declarations are independent, so each one gets its own goroutine and
// failures are local to a declaration. Unless KeepGoing is set, the first
// failure is returned as the error and no Result is produced.
func (tr *Translator) Translate(ctx context.Context, lib *library.Library) (*Result, error) {
	decls := lib.Decls()
	translated := make([]ir.Decl, len(decls))
	failures := make([]error, len(decls))

	g, ctx := errgroup.WithContext(ctx)
	if tr.opts.Jobs > 0 {
		g.SetLimit(tr.opts.Jobs)
	}
	for i, decl := range decls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			walked, err := tr.simplifier.WalkDecl(decl)
			if err != nil {
				failures[i] = err
				if tr.opts.KeepGoing {
					tr.Warn("skipping declaration", "decl", decl, "error", err)
					return nil
				}
				return err
			}
			translated[i] = walked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Decls: make([]ir.Decl, 0, len(decls))}
	for i, walked := range translated {
		if failures[i] != nil {
			result.Failed = result.Failed.With(asBindError(failures[i]))
			continue
		}
		result.Decls = append(result.Decls, walked)
	}
	result.Warnings = tr.unresolved(lib, result.Decls)
	tr.Debug("translated library", "decls", len(result.Decls), "failed", result.Failed, "warnings", result.Warnings)
	return result, nil
}

// unresolved reports each named type referenced from decls that lib does not declare,
// once per declaration
func (tr *Translator) unresolved(lib *library.Library, decls []ir.Decl) *binderr.Errors {
	var warnings *binderr.Errors
	for _, decl := range decls {
		missing := set.New[string](0)
		for _, t := range ir.DeclTypes(decl) {
			ir.Inspect(t, func(t ir.Type) bool {
				if named, ok := t.(*ir.Named); ok {
					if _, declared := lib.Lookup(named.Name); !declared {
						missing.Insert(named.Name)
					}
				}
				return true
			})
		}
		names := missing.Slice()
		slices.Sort(names)
		for _, name := range names {
			warnings = warnings.With(binderr.New(binderr.UnresolvedTypeError{
				Name: name,
				Decl: decl.DeclName(),
				Pos:  decl.Position(),
			}))
		}
	}
	return warnings
}

func asBindError(err error) binderr.BindError {
	if bindErr, ok := err.(binderr.BindError); ok {
		return bindErr
	}
	return binderr.New(binderr.Unclassified{From: err})
}
