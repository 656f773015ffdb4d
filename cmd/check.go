package cmd

import (
	"fmt"

	"github.com/cottand/bindc/binderr"
	"github.com/spf13/cobra"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check file.yaml",
		Short:        "Report every declaration of an IR file that cannot be translated",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}
	flags := addTranslateFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		setLogLevel(flags)
		opts := flags.options()
		// every failure is worth reporting here
		opts.KeepGoing = true

		result, err := translateFile(cmd, args[0], opts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, failure := range result.Failed.Errors() {
			_, _ = fmt.Fprintln(out, "error: "+binderr.FormatWithCode(failure))
		}
		for _, warning := range result.Warnings.Errors() {
			_, _ = fmt.Fprintln(out, "warning: "+binderr.FormatWithCode(warning))
		}
		failed := len(result.Failed.Errors())
		_, _ = fmt.Fprintf(out, "%d declarations, %d failed, %d warnings\n",
			len(result.Decls)+failed, failed, len(result.Warnings.Errors()))

		if failed > 0 && !*flags.keepGoing {
			return fmt.Errorf("%d declarations cannot be translated", failed)
		}
		return nil
	}
	return cmd
}
