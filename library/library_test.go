package library

import (
	"slices"
	"testing"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alias(name string, line int) *ir.TypeAlias {
	return &ir.TypeAlias{
		Name:    name,
		Aliased: &ir.Primitive{Name: "u8"},
		Pos:     ir.Pos{File: "lib.yaml", Line: line, Column: 3},
	}
}

func TestLibraryKeepsOrder(t *testing.T) {
	lib, err := New(alias("Zed", 1), alias("Alpha", 2), alias("Mid", 3))
	require.NoError(t, err)

	var names []string
	for _, decl := range lib.Decls() {
		names = append(names, decl.DeclName())
	}
	assert.Equal(t, []string{"Zed", "Alpha", "Mid"}, names)
	assert.Equal(t, []string{"Alpha", "Mid", "Zed"}, slices.Collect(lib.Names()))
	assert.Equal(t, 3, lib.Len())

	decl, ok := lib.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, 2, decl.Position().Line)
	_, ok = lib.Lookup("Missing")
	assert.False(t, ok)
}

func TestLibraryIsPersistent(t *testing.T) {
	base, err := New(alias("A", 1))
	require.NoError(t, err)

	extended, err := base.With(alias("B", 2))
	require.NoError(t, err)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	_, ok := base.Lookup("B")
	assert.False(t, ok)
	_, ok = extended.Lookup("A")
	assert.True(t, ok)
}

func TestLibraryRejectsDuplicates(t *testing.T) {
	base, err := New(alias("A", 1))
	require.NoError(t, err)

	same, err := base.With(alias("B", 2), alias("A", 3))
	require.Error(t, err)
	assert.Same(t, base, same)
	assert.Equal(t, 1, same.Len())

	var duplicate binderr.DuplicateDeclarationError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, "A", duplicate.Name)
	assert.Equal(t, 1, duplicate.First.Line)
	assert.Equal(t, 3, duplicate.Pos.Line)
	assert.Equal(t, "lib.yaml:3:3: (E002) 'A' is already declared at lib.yaml:1:3", binderr.FormatWithCode(duplicate))

	_, err = New(alias("C", 1), alias("C", 2), alias("D", 3), alias("D", 4))
	assert.ErrorContains(t, err, "2 errors:")
}

func TestLibraryIterationStops(t *testing.T) {
	lib, err := New(alias("A", 1), alias("B", 2), alias("C", 3))
	require.NoError(t, err)

	var seen []int
	for i := range lib.All() {
		seen = append(seen, i)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}
