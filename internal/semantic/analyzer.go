package semantic

import (
	"strconv"
	"strings"

	"github.com/vrclog/layoutgrammar/internal/syntax"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

type analyzer struct {
	log *importlog.Log
}

// Analyze flattens the layout tree rooted at root into regex fragments in
// layout order. root is expected to have gone through
// syntax.LiftAmbientProperties. Unknown renderers are reported to log.
func Analyze(root *syntax.Node, ctx Context, log *importlog.Log) []Fragment {
	a := &analyzer{log: log}
	return a.layout(root, ctx)
}

func (a *analyzer) layout(n *syntax.Node, ctx Context) []Fragment {
	if n == nil {
		return nil
	}
	var out []Fragment
	for _, c := range n.Children {
		switch c.Kind {
		case syntax.TextNode:
			out = append(out, a.text(c, ctx))
		case syntax.RendererNode:
			out = append(out, a.renderer(c, ctx)...)
		case syntax.LayoutNode:
			out = append(out, a.layout(c, ctx)...)
		}
	}
	return out
}

func (a *analyzer) text(n *syntax.Node, ctx Context) Fragment {
	span := n.Span
	return ctx.Apply(Fragment{
		Regex:       ctx.LiteralRegex(n.Data),
		Description: strconv.Quote(n.Data),
		Flags:       IsStringLiteral,
		Span:        &span,
		Literal:     n.Data,
	})
}

func (a *analyzer) renderer(r *syntax.Node, ctx Context) []Fragment {
	if rule, ok := rendererRules[r.Data]; ok {
		return rule(a, r, ctx)
	}
	if isFreeTextRenderer(r.Data) {
		return a.anything(r, ctx, 0)
	}
	a.log.Warning(importlog.UnknownRenderer).
		Text("Unknown renderer ").
		Link(r.Description, r.Span.Start, r.Span.End).
		Text(" is matched as arbitrary text").
		Emit()
	return a.anything(r, ctx, IsUnknownRenderer)
}

func (a *analyzer) leaf(r *syntax.Node, ctx Context, regex string, flags Flags) Fragment {
	span := r.Span
	return ctx.Apply(Fragment{
		Regex:       regex,
		Description: r.Description,
		Flags:       flags,
		Span:        &span,
	})
}

func (a *analyzer) anything(r *syntax.Node, ctx Context, extra Flags) []Fragment {
	return []Fragment{a.leaf(r, ctx, ctx.AnythingRegex(), IsNotSpecific|extra)}
}

// aux builds a fragment that only structures the regex. Aux fragments never
// collapse to "anything" so the groups they open and close stay balanced.
func (a *analyzer) aux(r *syntax.Node, ctx Context, regex string, flags Flags) Fragment {
	return ctx.Apply(Fragment{
		Regex:       regex,
		Description: r.Description,
		Flags:       IsAuxiliaryRegexPart | flags,
	})
}

// inner analyzes the wrapped layout of r. An unnamed first parameter is the
// inner layout unless inner is also named, in which case it is reported and
// dropped.
func (a *analyzer) inner(r *syntax.Node, ctx Context) []Fragment {
	if def := r.Param(""); def != nil && r.Param("inner") != nil {
		a.log.Warning(importlog.RendererIgnored).
			Text("Default parameter ").
			Link(def.Description, def.Span.Start, def.Span.End).
			Text(" of " + r.Description + " is ignored because inner is set").
			Emit()
	}
	return a.layout(paramValue(r, "inner"), ctx)
}

// defaultParams names the parameter an unnamed first parameter stands for.
// Renderers not listed here take their inner layout as default.
var defaultParams = map[string]string{
	"literal":          "text",
	"date":             "format",
	"level":            "format",
	"guid":             "format",
	"processinfo":      "property",
	"appdomain":        "format",
	"event-properties": "item",
	"event-property":   "item",
	"event-context":    "item",
	"mdc":              "item",
	"mdlc":             "item",
	"gdc":              "item",
	"environment":      "variable",
	"var":              "name",
	"appsetting":       "item",
	"specialfolder":    "folder",
	"gc":               "property",
}

func paramValue(r *syntax.Node, name string) *syntax.Node {
	if v := r.ParamValue(name); v != nil {
		return v
	}
	def, ok := defaultParams[r.Data]
	if !ok {
		def = "inner"
	}
	if def == name {
		return r.ParamValue("")
	}
	return nil
}

// paramText returns the text of a parameter, or def when the parameter is
// missing or contains renderers.
func paramText(r *syntax.Node, name, def string) string {
	v := paramValue(r, name)
	if v == nil {
		return def
	}
	s, ok := v.Text()
	if !ok {
		return def
	}
	return s
}

func paramBool(r *syntax.Node, name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(paramText(r, name, ""))) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

func paramInt(r *syntax.Node, name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(paramText(r, name, "")))
	if err != nil {
		return def
	}
	return n
}
