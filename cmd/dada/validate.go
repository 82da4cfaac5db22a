package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dada/internal/diag"
	"dada/internal/diagfmt"
	"dada/internal/ir"
	"dada/internal/treedump"
	"dada/internal/ui"
	"dada/internal/validated"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <file.dada>...",
		Short: "Validate every definition and report diagnostics",
		Long:  `Validate parses and validates every function of the given files and prints their diagnostics; the exit status is 1 when any error is reported`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
	cmd.Flags().String("format", "", "diagnostics format (pretty|json|short); default from dada.toml")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().String("path-mode", "", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().Int8("context", 0, "source lines of context around each diagnostic")
	cmd.Flags().Bool("dump", false, "print the validated tree of every function")
	cmd.Flags().String("dump-format", "text", "validated tree format (text|json|msgpack|yaml)")
	cmd.Flags().String("ui", "off", "show per-file progress on stderr (auto|on|off)")
	return cmd
}

type validateOptions struct {
	format     string
	withNotes  bool
	pathMode   diagfmt.PathMode
	context    int8
	dump       bool
	dumpFormat treedump.Format
	ui         uiMode
}

func readValidateOptions(cmd *cobra.Command, s *session) (validateOptions, error) {
	var opts validateOptions
	flags := cmd.Flags()
	var err error

	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.format == "" {
		opts.format = s.cfg.Output.Format
	}
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format %q (must be pretty, json or short)", opts.format)
	}

	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if pathMode == "" {
		pathMode = s.cfg.Output.PathMode
	}
	var ok bool
	if opts.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return opts, fmt.Errorf("unknown path mode %q", pathMode)
	}
	if opts.context, err = flags.GetInt8("context"); err != nil {
		return opts, fmt.Errorf("failed to get context flag: %w", err)
	}
	if opts.dump, err = flags.GetBool("dump"); err != nil {
		return opts, fmt.Errorf("failed to get dump flag: %w", err)
	}
	dumpFormat, err := flags.GetString("dump-format")
	if err != nil {
		return opts, fmt.Errorf("failed to get dump-format flag: %w", err)
	}
	if opts.dumpFormat, err = treedump.ParseFormat(dumpFormat); err != nil {
		return opts, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	return opts, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := readValidateOptions(cmd, s)
	if err != nil {
		return err
	}

	var (
		files []ir.Filename
		diags []diag.Diagnostic
	)
	work := func(sink ui.Sink) error {
		var werr error
		files, diags, werr = validateFiles(cmd.Context(), s, args, sink)
		return werr
	}
	if shouldUseTUI(opts.ui, cmd.ErrOrStderr()) {
		err = ui.Run("validate", args, cmd.ErrOrStderr(), work)
	} else {
		err = work(ui.NopSink{})
	}
	if err != nil {
		return err
	}

	if opts.dump {
		if err := s.timer.Measure("dump", func() (string, error) {
			return "", dumpValidated(cmd, s, files, opts.dumpFormat)
		}); err != nil {
			return err
		}
	}

	if err := s.timer.Measure("render", func() (string, error) {
		return "", renderDiagnostics(cmd, s, diags, opts)
	}); err != nil {
		return err
	}

	for _, d := range diags {
		if d.Severity.IsError() {
			return exitCode(1)
		}
	}
	return nil
}

// validateFiles loads, validates and collects diagnostics file by file,
// reporting each step to sink.
func validateFiles(ctx context.Context, s *session, paths []string, sink ui.Sink) ([]ir.Filename, []diag.Diagnostic, error) {
	database := s.db
	files := make([]ir.Filename, 0, len(paths))
	var all []diag.Diagnostic

	for _, path := range paths {
		fail := func(err error) ([]ir.Filename, []diag.Diagnostic, error) {
			sink.Emit(ui.Event{File: path, Stage: ui.StageLoad, Status: ui.StatusError, Detail: err.Error()})
			return nil, nil, err
		}

		sink.Emit(ui.Event{File: path, Stage: ui.StageLoad, Status: ui.StatusWorking})
		var file ir.Filename
		if err := s.timer.Measure("load", func() (string, error) {
			var err error
			file, err = database.LoadFile(path)
			return path, err
		}); err != nil {
			return fail(err)
		}
		files = append(files, file)

		items, err := database.Items(ctx, file)
		if err != nil {
			return fail(err)
		}
		fns := 0
		for _, item := range items {
			if item.Kind == ir.ItemFunction {
				fns++
			}
		}
		sink.Emit(ui.Event{File: path, Stage: ui.StageValidate, Status: ui.StatusWorking, Functions: fns})
		if err := s.timer.Measure("validate", func() (string, error) {
			return path, database.ValidateRoot(ctx, file)
		}); err != nil {
			return fail(err)
		}

		sink.Emit(ui.Event{File: path, Stage: ui.StageDiagnostics, Status: ui.StatusWorking})
		var ds []diag.Diagnostic
		if err := s.timer.Measure("diagnostics", func() (string, error) {
			var err error
			ds, err = database.Diagnostics(ctx, file)
			return strconv.Itoa(len(ds)) + " reported", err
		}); err != nil {
			return fail(err)
		}
		all = append(all, ds...)

		done := ui.Event{File: path, Stage: ui.StageDiagnostics, Status: ui.StatusDone, Functions: fns}
		for _, d := range ds {
			switch {
			case d.Severity.IsError():
				done.Errors++
			case d.Severity == diag.SevWarning:
				done.Warnings++
			}
		}
		if done.Errors > 0 {
			done.Status = ui.StatusError
		}
		sink.Emit(done)
	}
	return files, all, nil
}

func dumpValidated(cmd *cobra.Command, s *session, files []ir.Filename, format treedump.Format) error {
	ctx := cmd.Context()
	database := s.db
	var entries []treedump.Entry
	for _, file := range files {
		items, err := database.Items(ctx, file)
		if err != nil {
			return err
		}
		for _, item := range items {
			tree, ok, err := database.ItemValidatedTree(ctx, item)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			fn, _ := item.Function()
			entries = append(entries, treedump.Entry{
				Name: entryName(database.FunctionName(fn), database.FunctionKey(fn).Ordinal),
				Root: validated.Dump(tree, database.Words(), database.VariableName),
			})
		}
	}
	return treedump.Write(cmd.OutOrStdout(), format, entries)
}

func renderDiagnostics(cmd *cobra.Command, s *session, diags []diag.Diagnostic, opts validateOptions) error {
	fs := s.db.Files()
	switch opts.format {
	case "short":
		if len(diags) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), diag.FormatShort(diags, fs, opts.withNotes))
		return err
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), diags, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			Indent:           true,
		})
	}
	return diagfmt.Pretty(cmd.OutOrStdout(), diags, fs, diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   opts.context,
		PathMode:  opts.pathMode,
		ShowNotes: opts.withNotes,
	})
}
