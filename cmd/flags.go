package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cottand/bindc/binderr"
	"github.com/cottand/bindc/internal/log"
	"github.com/cottand/bindc/irfile"
	"github.com/cottand/bindc/library"
	"github.com/cottand/bindc/simplify"
	"github.com/cottand/bindc/translate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// translateFlags are the flags shared by every command that runs a translation
type translateFlags struct {
	logLevel    *int
	keepGoing   *bool
	jobs        *int
	stdWrappers *bool
}

func addTranslateFlags(cmd *cobra.Command) *translateFlags {
	return &translateFlags{
		logLevel:    cmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level"),
		keepGoing:   cmd.Flags().BoolP("keep-going", "k", false, "skip declarations that fail to translate instead of stopping"),
		jobs:        cmd.Flags().IntP("jobs", "j", 0, "maximum number of declarations translated at once (0 means no limit)"),
		stdWrappers: cmd.Flags().Bool("std-wrappers", false, "also simplify NonNull, Box, Cell, ManuallyDrop, MaybeUninit, Pin and NonZero integers"),
	}
}

func (f *translateFlags) options() translate.Options {
	return translate.Options{
		Simplify:  simplify.Options{StandardWrappers: *f.stdWrappers},
		KeepGoing: *f.keepGoing,
		Jobs:      *f.jobs,
	}
}

// translateFile loads the IR file at path and translates it with opts
func translateFile(cmd *cobra.Command, path string, opts translate.Options) (*translate.Result, error) {
	decls, err := irfile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load %s:\n%s", path, describe(err))
	}
	lib, err := library.New(decls...)
	if err != nil {
		return nil, fmt.Errorf("could not load %s:\n%s", path, describe(err))
	}

	result, err := translate.Run(cmd.Context(), lib, opts)
	if err != nil {
		return nil, fmt.Errorf("could not translate %s:\n%s", path, describe(err))
	}
	return result, nil
}

// describe renders err together with its code and position when it has them
func describe(err error) string {
	var bindErr binderr.BindError
	if errors.As(err, &bindErr) {
		return binderr.FormatWithCode(bindErr)
	}
	return err.Error()
}

func setLogLevel(f *translateFlags) {
	log.SetLevel(slog.Level(*f.logLevel))
}
