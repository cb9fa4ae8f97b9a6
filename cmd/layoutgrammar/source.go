package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

// grammarSource is where a command takes its layout from: an inline plain
// layout or a parameter file.
type grammarSource struct {
	layout string
	config string
}

func (s *grammarSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.layout, "layout", "l", "",
		"Plain NLog layout, e.g. '${longdate} ${level} ${message}'")
	cmd.Flags().StringVarP(&s.config, "config", "c", "",
		"YAML parameter file describing a plain, CSV or JSON layout")
	cmd.MarkFlagsMutuallyExclusive("layout", "config")
}

// load runs the import. The log is returned even when err is non-nil.
func (s *grammarSource) load(logger *slog.Logger) (*layoutgrammar.Grammar, *importlog.Log, error) {
	opts := []layoutgrammar.Option{layoutgrammar.WithLogger(logger)}
	switch {
	case s.layout != "":
		return layoutgrammar.Import(s.layout, opts...)
	case s.config != "":
		f, err := params.Load(s.config)
		if err != nil {
			return nil, importlog.New(), fmt.Errorf("loading %s: %w", s.config, err)
		}
		return layoutgrammar.ImportFile(f, opts...)
	}
	return nil, importlog.New(), errors.New("one of --layout or --config is required")
}
