package semantic

import (
	"fmt"
	"strings"

	"github.com/vrclog/layoutgrammar/internal/syntax"
)

type rendererRule func(a *analyzer, r *syntax.Node, ctx Context) []Fragment

// rendererRules is filled in init because the rules recurse into the
// analyzer, which looks them up.
var rendererRules map[string]rendererRule

func init() {
	rendererRules = map[string]rendererRule{
		"longdate": dateTimeRule(`\d{4}-\d{2}-\d{2}\x20\d{2}:\d{2}:\d{2}\.\d{4}`,
			RepresentsDate|RepresentsTime, "yyyy-MM-dd HH:mm:ss.ffff"),
		"shortdate": dateTimeRule(`\d{4}-\d{2}-\d{2}`, RepresentsDate, "yyyy-MM-dd"),
		"time":      dateTimeRule(`\d{2}:\d{2}:\d{2}\.\d{4}`, RepresentsTime, "HH:mm:ss.ffff"),
		"ticks":     ticksRule,
		"date":      dateRule,

		"processtime": fixedRule(`\d{2}:\d{2}:\d{2}\.\d{3}`, 0),
		"literal":     literalRule,
		"newline":     fixedRule(`\r?\n`, 0),

		"uppercase": caseRule(UpperCase, "uppercase"),
		"lowercase": caseRule(LowerCase, "lowercase"),

		"filesystem-normalize": opaqueRule("fsnormalize"),
		"json-encode":          opaqueRule("jsonencode"),
		"xml-encode":           opaqueRule("xmlencode"),
		"trim-whitespace":      opaqueRule("trimwhitespace"),
		"replace":              opaqueRule(""),
		"rot13":                opaqueRule(""),
		"url-encode":           opaqueRule(""),
		"replace-newlines":     opaqueRule(""),
		"wrapline":             wraplineRule,

		"cached": func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
			return a.inner(r, ctx)
		},
		"pad":         padRule,
		"onexception": conditionalRule,
		"when":        conditionalRule,
		"whenempty":   whenEmptyRule,

		"level":      levelRule,
		"threadid":   fixedRule(`\d+`, RepresentsThread),
		"threadname": anythingRule(RepresentsThread),

		"counter":             fixedRule(`-?\d+`, 0),
		"sequenceid":          fixedRule(`\d+`, 0),
		"gc":                  fixedRule(`\d*`, 0),
		"processid":           fixedRule(`\d+`, 0),
		"callsite-linenumber": fixedRule(`\d*`, 0),
		"qpc":                 fixedRule(`\d+(?:\.\d+)?`, 0),

		"guid":             guidRule,
		"activityid":       activityIDRule,
		"windows-identity": windowsIdentityRule,
		"processinfo":      processInfoRule,
		"appdomain":        appDomainRule,
	}
}

// freeTextRenderers render arbitrary text and can never be matched precisely.
var freeTextRenderers = map[string]bool{
	"message": true, "logger": true, "loggername": true, "exception": true,
	"stacktrace": true, "callsite": true, "callsite-filename": true,
	"mdc": true, "mdlc": true, "ndc": true, "ndlc": true, "gdc": true,
	"event-properties": true, "event-property": true, "event-context": true,
	"all-event-properties": true, "environment": true, "environment-user": true,
	"machinename": true, "hostname": true, "identity": true, "basedir": true,
	"currentdir": true, "tempdir": true, "specialfolder": true, "nlogdir": true,
	"processdir": true, "processname": true, "assembly-version": true,
	"appsetting": true, "var": true, "log4jxmlevent": true, "installcontext": true,
	"local-ip": true, "exceptiondata": true, "exception-data": true,
	"scopeproperty": true, "scopenested": true, "scopetiming": true,
	"object-path": true, "db-null": true, "message-template": true,
}

func isFreeTextRenderer(name string) bool {
	if freeTextRenderers[name] {
		return true
	}
	for _, prefix := range []string{"aspnet-", "asp-", "iis-", "web-"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func fixedRule(regex string, flags Flags) rendererRule {
	return func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
		return []Fragment{a.leaf(r, ctx, regex, flags)}
	}
}

func anythingRule(flags Flags) rendererRule {
	return func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
		return a.anything(r, ctx, flags)
	}
}

func dateTimeRule(regex string, flags Flags, format string) rendererRule {
	return func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
		f := a.leaf(r, ctx, regex, flags)
		f.DateTime = &DateTimeFormat{Format: format}
		return []Fragment{f}
	}
}

func ticksRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	f := a.leaf(r, ctx, `\d+`, RepresentsDate|RepresentsTime)
	f.DateTime = &DateTimeFormat{Ticks: true}
	return []Fragment{f}
}

const defaultDateFormat = "yyyy/MM/dd HH:mm:ss.fff"

func dateRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	format := paramText(r, "format", defaultDateFormat)
	df, err := ParseDateFormat(format, ctx.LiteralRegex)
	if err != nil {
		return a.anything(r, ctx, 0)
	}
	var flags Flags
	if df.HasDate {
		flags |= RepresentsDate
	}
	if df.HasTime {
		flags |= RepresentsTime
	}
	if flags == 0 {
		flags = IsIgnorable
	}
	f := a.leaf(r, ctx, df.Regex, flags)
	f.DateTime = &DateTimeFormat{Format: format, Culture: paramText(r, "culture", "")}
	return []Fragment{f}
}

func literalRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	return a.layout(paramValue(r, "text"), ctx)
}

func caseRule(kind WrapperKind, param string) rendererRule {
	return func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
		if !paramBool(r, param, true) {
			return a.inner(r, ctx)
		}
		w := Wrapper{Kind: kind, Node: r, Culture: paramText(r, "culture", "")}
		return a.inner(r, ctx.Push(w))
	}
}

// opaqueRule handles wrappers whose output a regex can not follow. param is
// the boolean parameter that can switch the wrapper off, if any.
func opaqueRule(param string) rendererRule {
	return func(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
		if param != "" && !paramBool(r, param, true) {
			return a.inner(r, ctx)
		}
		return a.inner(r, ctx.Push(Wrapper{Kind: NotHandleable, Node: r}))
	}
}

func wraplineRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	if paramInt(r, "wrapline", 80) <= 0 {
		return a.inner(r, ctx)
	}
	return a.inner(r, ctx.Push(Wrapper{Kind: NotHandleable, Node: r}))
}

func padRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	padding := paramInt(r, "padding", 0)
	if padding == 0 {
		return a.inner(r, ctx)
	}
	if paramBool(r, "fixedlength", false) {
		return a.inner(r, ctx.Push(Wrapper{Kind: NotHandleable, Node: r}))
	}
	padChar := " "
	if s := paramText(r, "padcharacter", ""); s != "" {
		padChar = string([]rune(s)[0])
	}
	width := padding
	if width < 0 {
		width = -width
	}
	pad := a.leaf(r, ctx, fmt.Sprintf("(?:%s){0,%d}", ctx.LiteralRegex(padChar), width), 0)
	inner := a.inner(r, ctx)
	if padding > 0 {
		return append([]Fragment{pad}, inner...)
	}
	return append(inner, pad)
}

func conditionalRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	innerCtx := ctx.Push(Wrapper{Kind: Conditional, Node: r}).IncreaseDepth()
	out := []Fragment{a.aux(r, ctx, "(?:", 0)}
	out = append(out, a.inner(r, innerCtx)...)
	return append(out, a.aux(r, ctx, ")?", IsNotTopLevel))
}

func whenEmptyRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	innerCtx := ctx.Push(Wrapper{Kind: Conditional, Node: r}).IncreaseDepth()
	out := []Fragment{a.aux(r, ctx, "(?:(?:", 0)}
	out = append(out, a.inner(r, innerCtx)...)
	out = append(out, a.aux(r, ctx, ")|(?:", IsNotTopLevel))
	out = append(out, a.layout(paramValue(r, "whenempty"), innerCtx)...)
	return append(out, a.aux(r, ctx, "))?", IsNotTopLevel))
}

var levelFormats = map[string][]string{
	"name":           {"Trace", "Debug", "Info", "Warn", "Error", "Fatal"},
	"fullname":       {"Trace", "Debug", "Information", "Warning", "Error", "Fatal"},
	"triletter":      {"TRC", "DBG", "INF", "WRN", "ERR", "FTL"},
	"firstcharacter": {"T", "D", "I", "W", "E", "F"},
}

func levelRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	format := strings.ToLower(strings.TrimSpace(paramText(r, "format", "Name")))
	if format == "ordinal" {
		return []Fragment{a.leaf(r, ctx, `\d`, 0)}
	}
	names, ok := levelFormats[format]
	if !ok {
		names = levelFormats["name"]
	}
	alts := make([]string, len(names))
	for i, n := range names {
		alts[i] = ctx.LiteralRegex(n)
	}
	return []Fragment{a.leaf(r, ctx, "(?:"+strings.Join(alts, "|")+")", RepresentsSeverity)}
}

const (
	hex        = `[0-9a-fA-F]`
	guidDashed = hex + `{8}-` + hex + `{4}-` + hex + `{4}-` + hex + `{4}-` + hex + `{12}`
)

var guidFormats = map[string]string{
	"n": hex + `{32}`,
	"d": guidDashed,
	"b": `\{` + guidDashed + `\}`,
	"p": `\(` + guidDashed + `\)`,
	"x": `\{0x` + hex + `{8},0x` + hex + `{4},0x` + hex + `{4},\{(?:0x` + hex + `{2},){7}0x` + hex + `{2}\}\}`,
}

func guidRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	regex, ok := guidFormats[strings.ToLower(strings.TrimSpace(paramText(r, "format", "N")))]
	if !ok {
		return a.anything(r, ctx, 0)
	}
	return []Fragment{a.leaf(r, ctx, regex, 0)}
}

func activityIDRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	return []Fragment{a.leaf(r, ctx, guidFormats["d"], 0)}
}

const identityPart = `[^\\\s]+`

func windowsIdentityRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	domain := paramBool(r, "domain", true)
	user := paramBool(r, "username", true)
	switch {
	case domain && user:
		return []Fragment{a.leaf(r, ctx, identityPart+`\\`+identityPart, 0)}
	case domain || user:
		return []Fragment{a.leaf(r, ctx, identityPart, 0)}
	}
	return []Fragment{a.leaf(r, ctx, "", IsIgnorable)}
}

type processInfoKind uint8

const (
	processInfoNumber processInfoKind = iota
	processInfoBool
	processInfoTimeSpan
	processInfoOpaque
)

// processInfoProperties lists every supported property. Opaque ones render
// text that is either free-form or locale dependent on the producing host.
var processInfoProperties = map[string]processInfoKind{
	"id": processInfoNumber, "basepriority": processInfoNumber,
	"exitcode": processInfoNumber, "handlecount": processInfoNumber,
	"handle": processInfoNumber, "mainwindowhandle": processInfoNumber,
	"maxworkingset": processInfoNumber, "minworkingset": processInfoNumber,
	"nonpagedsystemmemorysize": processInfoNumber, "nonpagedsystemmemorysize64": processInfoNumber,
	"pagedmemorysize": processInfoNumber, "pagedmemorysize64": processInfoNumber,
	"pagedsystemmemorysize": processInfoNumber, "pagedsystemmemorysize64": processInfoNumber,
	"peakpagedmemorysize": processInfoNumber, "peakpagedmemorysize64": processInfoNumber,
	"peakvirtualmemorysize": processInfoNumber, "peakvirtualmemorysize64": processInfoNumber,
	"peakworkingset": processInfoNumber, "peakworkingset64": processInfoNumber,
	"privatememorysize": processInfoNumber, "privatememorysize64": processInfoNumber,
	"processoraffinity": processInfoNumber, "sessionid": processInfoNumber,
	"virtualmemorysize": processInfoNumber, "virtualmemorysize64": processInfoNumber,
	"workingset": processInfoNumber, "workingset64": processInfoNumber,

	"enableraisingevents": processInfoBool, "hasexited": processInfoBool,
	"priorityboostenabled": processInfoBool, "responding": processInfoBool,

	"privilegedprocessortime": processInfoTimeSpan,
	"totalprocessortime":      processInfoTimeSpan,
	"userprocessortime":       processInfoTimeSpan,

	"exittime": processInfoOpaque, "starttime": processInfoOpaque,
	"mainwindowtitle": processInfoOpaque, "machinename": processInfoOpaque,
	"processname": processInfoOpaque, "priorityclass": processInfoOpaque,
}

func processInfoRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	prop := strings.ToLower(strings.TrimSpace(paramText(r, "property", "Id")))
	kind, ok := processInfoProperties[prop]
	if !ok {
		return a.anything(r, ctx, 0)
	}
	switch kind {
	case processInfoNumber:
		return []Fragment{a.leaf(r, ctx, `\d+`, 0)}
	case processInfoBool:
		regex := "(?:" + ctx.LiteralRegex("True") + "|" + ctx.LiteralRegex("False") + ")"
		return []Fragment{a.leaf(r, ctx, regex, 0)}
	case processInfoTimeSpan:
		return []Fragment{a.leaf(r, ctx, `-?(?:\d+\.)?\d{2}:\d{2}:\d{2}(?:\.\d{1,7})?`, 0)}
	}
	return a.anything(r, ctx, 0)
}

func appDomainRule(a *analyzer, r *syntax.Node, ctx Context) []Fragment {
	if strings.EqualFold(strings.TrimSpace(paramText(r, "format", "Long")), "short") {
		return []Fragment{a.leaf(r, ctx, `\d{2,}`, 0)}
	}
	return a.anything(r, ctx, 0)
}
