package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dada/internal/version"
)

// exitCode carries a non-zero status that needs no further message.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dada",
		Short:         "Dada front-end: parse and validate function bodies",
		Long:          `dada splits a source file into definitions, parses each function body and validates it, reusing memoized results across edits`,
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("config", "", "path to dada.toml (default: search upwards from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	flags.Int("jobs", 0, "max parallel validation workers (0 = auto)")
	flags.Bool("timings", false, "print phase timings to stderr")
	flags.String("metrics", "", "write query engine counters to this file in Prometheus text format")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage mode (stream|ring|both|log)")
	flags.Duration("trace-heartbeat", 0, "emit a trace heartbeat at this interval (0 = off)")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("exec-trace", "", "write a Go execution trace to this file")

	root.AddCommand(newParseCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}
	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
