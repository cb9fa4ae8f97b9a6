// Command layoutgrammar converts NLog layouts into regular log grammars and
// previews the result against real log files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "layoutgrammar",
	Short: "Convert NLog layouts into regular log grammars",
	Long: `layoutgrammar reads an NLog layout (plain, CSV or JSON) and generates the
regular grammar a log viewer needs to split and parse the files it writes:
a header regex plus code computing Time, Severity, Thread and Body.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Print debug logs of the import pipeline to stderr")
	rootCmd.AddCommand(importCmd, tailCmd)
}

// newLogger returns a text logger on w: debug level when verbose, warnings
// only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
