package layoutgrammar

import (
	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/semantic"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

func (imp *importer) jsonRootFragments(p *params.JSONParams, env envelope.Envelope) ([]semantic.Fragment, error) {
	if err := p.Validate(); err != nil {
		return nil, imp.badParams(err)
	}
	return imp.jsonFragments(p, semantic.NewContext(env))
}

// jsonFragments renders one object: '{', one optional group per attribute in
// declaration order, an optional group for trailing properties and '}'.
// Everything after the opening brace is nested one level deeper, so the
// capture selection never cuts an object in half.
func (imp *importer) jsonFragments(p *params.JSONParams, ctx semantic.Context) ([]semantic.Fragment, error) {
	ws := `\s*`
	if p.SuppressSpaces {
		ws = ""
	}
	inner := ctx.IncreaseDepth()
	structural := func(c semantic.Context, regex string) semantic.Fragment {
		return c.Apply(semantic.Fragment{Regex: regex, Description: "json", Flags: semantic.IsAuxiliaryRegexPart})
	}

	out := []semantic.Fragment{structural(ctx, `\{`)}
	for _, attr := range p.Attributes {
		frags, err := imp.jsonAttributeFragments(attr, inner, ws)
		if err != nil {
			return nil, err
		}
		out = append(out, frags...)
	}
	if p.HasTrailingProperties() {
		out = append(out, structural(inner, `(?:`+ws+`,`+envelope.Anything+`)?`))
	}
	return append(out, structural(inner, ws+`\}`)), nil
}

func (imp *importer) jsonAttributeFragments(attr params.JSONAttribute, ctx semantic.Context, ws string) ([]semantic.Fragment, error) {
	defer imp.log.PushLayoutID(attr.Name)()

	aux := func(regex string) semantic.Fragment {
		return ctx.Apply(semantic.Fragment{Regex: regex, Description: attr.Name, Flags: semantic.IsAuxiliaryRegexPart})
	}
	name := envelope.EscapeRegex(envelope.JSONEscape(attr.Name, false))
	out := []semantic.Fragment{aux(`(?:(?:` + ws + `,)?` + ws + `"` + name + `"` + ws + `:` + ws)}

	switch {
	case attr.Nested != nil:
		nested, err := imp.jsonFragments(attr.Nested, ctx)
		if err != nil {
			return nil, err
		}
		if !attr.Nested.RenderEmptyObject {
			out = append(out, aux(`(?:`))
			out = append(out, nested...)
			out = append(out, aux(`)?`))
		} else {
			out = append(out, nested...)
		}
	case attr.Encode:
		valueCtx := ctx.WithEnvelope(envelope.Envelope{Kind: envelope.JSON, EscapeUnicode: attr.EscapeUnicode})
		frags, err := imp.layoutFragments(attr.Layout, valueCtx)
		if err != nil {
			return nil, err
		}
		out = append(out, aux(`"`))
		out = append(out, frags...)
		out = append(out, aux(`"`))
	default:
		frags, err := imp.layoutFragments(attr.Layout, ctx.WithEnvelope(envelope.Envelope{}))
		if err != nil {
			return nil, err
		}
		out = append(out, frags...)
	}
	return append(out, aux(`)?`)), nil
}
