package main

import (
	"os"

	"github.com/cottand/bindc/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "bindc [subcommand]",
	Short:        "bindc 🔗\n simplifies resolved type declarations so that they can be declared in C",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.NewTranslateCmd())
	rootCmd.AddCommand(cmd.NewCheckCmd())
}
