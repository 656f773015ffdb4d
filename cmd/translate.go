package cmd

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/ir"
	"github.com/cottand/bindc/irfile"
	"github.com/spf13/cobra"
)

const (
	formatYAML = "yaml"
	formatText = "text"
)

func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "translate file.yaml",
		Short:        "Simplify the declarations of an IR file so that they can be declared in C",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}
	flags := addTranslateFlags(cmd)
	outPath := cmd.Flags().StringP("out", "o", "", "output path (stdout if empty)")
	format := cmd.Flags().StringP("format", "f", formatYAML, "output format, yaml or text")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		setLogLevel(flags)
		if *format != formatYAML && *format != formatText {
			return fmt.Errorf("unknown format '%s', expected %s or %s", *format, formatYAML, formatText)
		}

		result, err := translateFile(cmd, args[0], flags.options())
		if err != nil {
			return err
		}
		for _, failure := range result.Failed.Errors() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "skipped: "+binderr.FormatWithCode(failure))
		}
		for _, warning := range result.Warnings.Errors() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+binderr.FormatWithCode(warning))
		}

		if *outPath == "" {
			return write(cmd.OutOrStdout(), *format, result.Decls)
		}
		f, err := os.Create(path.Clean(*outPath))
		if err != nil {
			return fmt.Errorf("could not create file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return write(f, *format, result.Decls)
	}
	return cmd
}

func write(w io.Writer, format string, decls []ir.Decl) error {
	if format == formatYAML {
		return irfile.Encode(w, decls)
	}
	for i, decl := range decls {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("could not write declarations: %w", err)
			}
		}
		if _, err := io.WriteString(w, decl.Show()+"\n"); err != nil {
			return fmt.Errorf("could not write declarations: %w", err)
		}
	}
	return nil
}
