package layoutgrammar

import (
	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/semantic"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

// autoDelimiterRegex matches the delimiters an auto-detecting CSV layout
// may write.
const autoDelimiterRegex = `[,;]`

// csvFragments lays out the columns side by side: each column's fragments
// between optional or mandatory quotes, columns separated by the delimiter.
// Quotes and delimiters are structural and never captured.
func (imp *importer) csvFragments(p *params.CSVParams, env envelope.Envelope) ([]semantic.Fragment, error) {
	if err := p.Validate(); err != nil {
		return nil, imp.badParams(err)
	}

	var quoteRegex string
	switch p.Quoting {
	case params.QuotingAuto:
		quoteRegex = envelope.EscapeRegex(string(p.Quote)) + "?"
	case params.QuotingAlways:
		quoteRegex = envelope.EscapeRegex(string(p.Quote))
	}
	ctx := semantic.NewContext(env)

	delimiter := semantic.Fragment{
		Regex:       autoDelimiterRegex,
		Description: "delimiter",
		Flags:       semantic.IsAuxiliaryRegexPart | semantic.IsStringLiteral,
		Envelope:    env,
	}
	if p.Delimiter != "" {
		delimiter.Regex = envelope.EscapeRegex(p.Delimiter)
		delimiter.Literal = p.Delimiter
	}
	quote := semantic.Fragment{
		Regex:       quoteRegex,
		Description: "quote",
		Flags:       semantic.IsAuxiliaryRegexPart | semantic.IsStringLiteral,
		Literal:     string(p.Quote),
		Envelope:    env,
	}

	var out []semantic.Fragment
	for i, col := range p.Columns {
		if i > 0 {
			out = append(out, delimiter)
		}
		colFrags, err := imp.columnFragments(col, ctx)
		if err != nil {
			return nil, err
		}
		if quoteRegex != "" {
			out = append(out, quote)
		}
		out = append(out, colFrags...)
		if quoteRegex != "" {
			out = append(out, quote)
		}
	}
	return out, nil
}

func (imp *importer) columnFragments(col params.CSVColumn, ctx semantic.Context) ([]semantic.Fragment, error) {
	defer imp.log.PushLayoutID(col.ID)()
	return imp.layoutFragments(col.Layout, ctx)
}
