package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// validOutputs lists the grammar output formats.
var validOutputs = map[string]bool{
	"xml":  true,
	"yaml": true,
}

var errStrictWarnings = errors.New("warnings recorded (--strict)")

type importOptions struct {
	source grammarSource
	output string
	strict bool
}

var importOpts importOptions

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Generate a regular grammar from a layout",
	Long: `Generate a regular grammar from an NLog layout.

The grammar is written to stdout; diagnostics go to stderr. The command
fails when the layout cannot be imported, and with --strict also when the
import recorded warnings.

Examples:
  # Plain layout, XML output
  layoutgrammar import --layout '${longdate}|${level:uppercase=true}|${message}'

  # CSV or JSON layout described by a parameter file
  layoutgrammar import --config nlog-csv.yaml --output yaml

  # Show every decision the importer made
  layoutgrammar import -v --layout '${date:format=HH\:mm\:ss} ${message}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr(), verbose)
		return runImport(importOpts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	},
}

func init() {
	importOpts.source.addFlags(importCmd)
	importCmd.Flags().StringVarP(&importOpts.output, "output", "o", "xml",
		"Output format: xml, yaml")
	importCmd.Flags().BoolVar(&importOpts.strict, "strict", false,
		"Fail when the import records warnings")
}

func runImport(opts importOptions, stdout, stderr io.Writer, logger *slog.Logger) error {
	if !validOutputs[opts.output] {
		return fmt.Errorf("unknown output format: %s", opts.output)
	}

	g, log, err := opts.source.load(logger)
	printDiagnostics(stderr, log, verbose)
	if err != nil {
		return err
	}
	if opts.strict && log.HasWarnings() {
		return errStrictWarnings
	}

	var out []byte
	switch opts.output {
	case "xml":
		out, err = g.XML()
		if err == nil {
			out = append(out, '\n')
		}
	case "yaml":
		out, err = g.YAML()
	}
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
