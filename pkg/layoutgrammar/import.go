package layoutgrammar

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/semantic"
	"github.com/vrclog/layoutgrammar/internal/syntax"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

// Import converts a plain layout into a grammar.
//
// The returned log holds every diagnostic recorded, also when err is
// non-nil. An aborted import returns an *importlog.AbortError.
func Import(layout string, opts ...Option) (*Grammar, *importlog.Log, error) {
	env := envelope.Envelope{}
	return run(opts, env, func(imp *importer) ([]semantic.Fragment, error) {
		return imp.layoutFragments(layout, semantic.NewContext(env))
	})
}

// ImportCSV converts CSV layout columns into a grammar.
func ImportCSV(p params.CSVParams, opts ...Option) (*Grammar, *importlog.Log, error) {
	env := envelope.Envelope{Kind: envelope.CSV}
	if p.Quoting != params.QuotingNever {
		env.Quote = p.Quote
	}
	return run(opts, env, func(imp *importer) ([]semantic.Fragment, error) {
		return imp.csvFragments(&p, env)
	})
}

// ImportJSON converts a JSON layout into a grammar.
func ImportJSON(p params.JSONParams, opts ...Option) (*Grammar, *importlog.Log, error) {
	env := envelope.Envelope{Kind: envelope.JSON}
	return run(opts, env, func(imp *importer) ([]semantic.Fragment, error) {
		return imp.jsonRootFragments(&p, env)
	})
}

// ImportFile converts the layout described by a parameter file.
func ImportFile(f *params.File, opts ...Option) (*Grammar, *importlog.Log, error) {
	if f == nil {
		return nil, importlog.New(), errors.New("nil parameter file")
	}
	switch f.Kind {
	case params.KindPlain:
		return Import(f.Layout, opts...)
	case params.KindCSV:
		if f.CSV == nil {
			return nil, importlog.New(), errors.New("csv section missing")
		}
		return ImportCSV(*f.CSV, opts...)
	case params.KindJSON:
		if f.JSON == nil {
			return nil, importlog.New(), errors.New("json section missing")
		}
		return ImportJSON(*f.JSON, opts...)
	}
	return nil, importlog.New(), fmt.Errorf("unknown layout kind %q", f.Kind)
}

type importer struct {
	cfg    *config
	log    *importlog.Log
	logger *slog.Logger
}

// run executes the pipeline. env is the envelope of the layout as a whole;
// it decides how the text after the header is unescaped.
func run(opts []Option, env envelope.Envelope, fragments func(*importer) ([]semantic.Fragment, error)) (*Grammar, *importlog.Log, error) {
	log := importlog.New()
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, log, err
	}
	imp := &importer{cfg: cfg, log: log, logger: cfg.logger}

	frags, err := fragments(imp)
	if err != nil {
		return nil, log, err
	}
	g, err := imp.generate(frags, env)
	if err != nil {
		return nil, log, err
	}
	return g, log, nil
}

// layoutFragments parses one layout string and analyzes it under ctx.
// Malformed layouts are reported as BadLayout and abort the import.
func (imp *importer) layoutFragments(layout string, ctx semantic.Context) ([]semantic.Fragment, error) {
	if len(layout) > imp.cfg.maxLayoutLength {
		imp.log.Error(importlog.BadLayout).
			Text(fmt.Sprintf("Layout is too long: %d bytes (max %d)", len(layout), imp.cfg.maxLayoutLength)).
			Emit()
		return nil, imp.log.FailIfThereIsError()
	}

	root, err := syntax.Parse(layout)
	if err != nil {
		var synErr *syntax.SyntaxError
		b := imp.log.Error(importlog.BadLayout)
		if errors.As(err, &synErr) {
			b.Text("Layout is malformed: " + synErr.Message + " at ").
				Link(fmt.Sprintf("offset %d", synErr.Offset), synErr.Offset, min(synErr.Offset+1, len(layout)))
		} else {
			b.Text("Layout is malformed: " + err.Error())
		}
		b.Emit()
		return nil, imp.log.FailIfThereIsError()
	}
	root = syntax.LiftAmbientProperties(root)
	imp.logger.Debug("layout parsed", "layout_id", imp.log.CurrentLayoutID(), "tree", root.String())

	frags := semantic.Analyze(root, ctx, imp.log)
	for i := range frags {
		frags[i].LayoutID = imp.log.CurrentLayoutID()
	}
	imp.logger.Debug("fragments analyzed", "layout_id", imp.log.CurrentLayoutID(), "fragments", len(frags))
	return frags, nil
}

// badParams records a parameter validation failure and aborts.
func (imp *importer) badParams(err error) error {
	imp.log.Error(importlog.BadLayout).Text(err.Error()).Emit()
	return imp.log.FailIfThereIsError()
}
