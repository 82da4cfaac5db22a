package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dada/internal/ir"
	"dada/internal/syntax"
	"dada/internal/treedump"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.dada>",
		Short: "Print the syntax tree of every function in a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "text", "output format (text|json|msgpack|yaml)")
	cmd.Flags().Bool("spans", false, "annotate nodes with byte spans")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := treedump.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	withSpans, err := cmd.Flags().GetBool("spans")
	if err != nil {
		return fmt.Errorf("failed to get spans flag: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	ctx := cmd.Context()
	database := s.db

	var file ir.Filename
	if err := s.timer.Measure("load", func() (string, error) {
		file, err = database.LoadFile(args[0])
		return args[0], err
	}); err != nil {
		return err
	}

	var entries []treedump.Entry
	if err := s.timer.Measure("parse", func() (string, error) {
		items, err := database.Items(ctx, file)
		if err != nil {
			return "", err
		}
		for _, item := range items {
			fn, ok := item.Function()
			if !ok {
				continue
			}
			tree, err := database.SyntaxTree(ctx, fn)
			if err != nil {
				return "", err
			}
			var spans *syntax.Spans
			if withSpans {
				if spans, err = database.Spans(ctx, fn); err != nil {
					return "", err
				}
			}
			entries = append(entries, treedump.Entry{
				Name: entryName(database.FunctionName(fn), database.FunctionKey(fn).Ordinal),
				Root: syntax.Dump(tree, database.Words(), spans),
			})
		}
		return strconv.Itoa(len(entries)) + " functions", nil
	}); err != nil {
		return err
	}

	return s.timer.Measure("render", func() (string, error) {
		return "", treedump.Write(cmd.OutOrStdout(), format, entries)
	})
}

// entryName отличает одноимённые определения по порядковому номеру
func entryName(name string, ordinal uint32) string {
	if ordinal == 0 {
		return name
	}
	return name + "#" + strconv.FormatUint(uint64(ordinal), 10)
}
