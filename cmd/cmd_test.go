package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cottand/bindc/ir"
	"github.com/cottand/bindc/irfile"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
}

func TestTranslateText(t *testing.T) {
	stdout, stderr, err := execute(t, NewTranslateCmd(), "--format", "text", "testdata/nullable.yaml")
	require.NoError(t, err)

	golden(t).Assert(t, "translate_nullable", []byte(stdout))
	assert.Contains(t, stderr, "warning: testdata/nullable.yaml:8:5: (E003) can't find 'Baz' referenced by 'Bar'")
}

func TestTranslateStandardWrappers(t *testing.T) {
	stdout, _, err := execute(t, NewTranslateCmd(), "-f", "text", "--std-wrappers", "testdata/wrappers.yaml")
	require.NoError(t, err)

	golden(t).Assert(t, "translate_wrappers", []byte(stdout))
}

func TestTranslateAbortsOnMalformedType(t *testing.T) {
	stdout, _, err := execute(t, NewTranslateCmd(), "testdata/malformed.yaml")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.ErrorContains(t, err, "could not translate testdata/malformed.yaml")
	assert.ErrorContains(t, err, "(E001) malformed type 'Option<Option<&X>>' at field 'twice' of 'Broken'")
}

func TestTranslateKeepGoing(t *testing.T) {
	stdout, stderr, err := execute(t, NewTranslateCmd(), "-k", "-j", "1", "-f", "text", "testdata/malformed.yaml")
	require.NoError(t, err)

	golden(t).Assert(t, "translate_keep_going", []byte(stdout))
	assert.Contains(t, stderr, "skipped: testdata/malformed.yaml:6:5: (E001)")
}

func TestTranslateToYAMLFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.yaml")
	stdout, _, err := execute(t, NewTranslateCmd(), "-o", out, "testdata/nullable.yaml")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	decls, err := irfile.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, decls, 4)
	assert.Equal(t, "type Callback = nullable fn(data: *mut c_void) -> c_int", decls[3].Show())
	assert.Equal(t, ir.KindRawPointer, decls[0].(*ir.StructDecl).Fields[0].Type.Kind())
}

func TestTranslateRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, NewTranslateCmd(), "-f", "json", "testdata/nullable.yaml")
	assert.ErrorContains(t, err, "unknown format 'json'")
}

func TestTranslateMissingFile(t *testing.T) {
	_, _, err := execute(t, NewTranslateCmd(), "testdata/missing.yaml")
	assert.ErrorContains(t, err, "could not load testdata/missing.yaml")
}

func TestCheck(t *testing.T) {
	stdout, _, err := execute(t, NewCheckCmd(), "testdata/malformed.yaml")
	assert.ErrorContains(t, err, "1 declarations cannot be translated")

	golden(t).Assert(t, "check_malformed", []byte(stdout))
}

func TestCheckKeepGoing(t *testing.T) {
	stdout, _, err := execute(t, NewCheckCmd(), "-k", "testdata/nullable.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 declarations, 0 failed, 1 warnings\n")
}

func TestLoadErrorsCarryPosition(t *testing.T) {
	_, _, err := execute(t, NewTranslateCmd(), "testdata/bad_primitive.yaml")
	assert.EqualError(t, err, "could not load testdata/bad_primitive.yaml:\ntestdata/bad_primitive.yaml:3:11: (E004) unknown primitive 'u9'")

	_, _, err = execute(t, NewCheckCmd(), "testdata/duplicate.yaml")
	assert.EqualError(t, err, "could not load testdata/duplicate.yaml:\ntestdata/duplicate.yaml:4:5: (E002) 'A' is already declared at testdata/duplicate.yaml:2:5")
}
