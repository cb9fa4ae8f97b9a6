package layoutgrammar

import (
	"fmt"
	"strings"

	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/semantic"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

type capture struct {
	name string
	frag semantic.Fragment
}

type captures struct {
	time     []capture
	severity []capture
	thread   []capture
	content  []capture
}

func (c *captures) add(f semantic.Fragment) string {
	bucket, prefix := &c.content, "content"
	switch {
	case f.Flags.Any(semantic.RepresentsDateOrTime):
		bucket, prefix = &c.time, "time"
	case f.Flags.Has(semantic.RepresentsSeverity):
		bucket, prefix = &c.severity, "sev"
	case f.Flags.Has(semantic.RepresentsThread):
		bucket, prefix = &c.thread, "thread"
	}
	name := fmt.Sprintf("%s%d", prefix, len(*bucket)+1)
	*bucket = append(*bucket, capture{name: name, frag: f})
	return name
}

// generate validates the fragment sequence, selects the header prefix and
// builds the grammar. env is the envelope of the text following the header.
func (imp *importer) generate(frags []semantic.Fragment, env envelope.Envelope) (*Grammar, error) {
	semantic.ValidateHeader(frags, imp.log)
	if err := imp.log.FailIfThereIsError(); err != nil {
		return nil, err
	}
	semantic.FilterMatchable(frags, imp.log)
	n := semantic.SelectCapturable(frags)
	imp.logger.Debug("capture selected", "fragments", len(frags), "captured", n)
	frags = frags[:n]

	head, caps := imp.header(frags)
	timeField, err := imp.timeField(caps.time)
	if err != nil {
		return nil, err
	}
	fields := []Field{timeField}
	if f, ok := imp.severityField(caps.severity); ok {
		fields = append(fields, f)
	}
	if f, ok := imp.threadField(caps.thread); ok {
		fields = append(fields, f)
	}
	fields = append(fields, bodyField(caps.content, env))

	g := &Grammar{HeadRe: head, Fields: fields, body: env}
	for _, bucket := range [][]capture{caps.time, caps.severity, caps.thread, caps.content} {
		for _, c := range bucket {
			g.setEnvelope(c.name, c.frag.Envelope)
		}
	}
	return g, nil
}

var descriptionReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// header writes one line per fragment, each followed by a comment naming
// the fragment.
func (imp *importer) header(frags []semantic.Fragment) (string, captures) {
	var (
		sb   strings.Builder
		caps captures
	)
	for _, f := range frags {
		regex := f.Regex
		switch {
		case f.Flags.Has(semantic.IsAuxiliaryRegexPart):
		case f.Flags.Has(semantic.IsIgnorable):
			imp.reportIgnored(f)
		default:
			regex = "(?<" + caps.add(f) + ">" + regex + ")"
		}
		if regex != "" {
			sb.WriteString(regex)
			sb.WriteByte(' ')
		}
		sb.WriteString("# ")
		sb.WriteString(descriptionReplacer.Replace(f.Description))
		sb.WriteByte('\n')
	}
	return sb.String(), caps
}

func (imp *importer) reportIgnored(f semantic.Fragment) {
	defer imp.log.PushLayoutID(f.LayoutID)()
	b := imp.log.Warning(importlog.RendererIgnored).Text("Renderer ")
	semantic.LinkFragment(b, f)
	b.Text(" renders nothing a field can be taken from and is ignored").Emit()
}

func (imp *importer) reportUsage(c capture, field string) {
	defer imp.log.PushLayoutID(c.frag.LayoutID)()
	b := imp.log.Info(importlog.RendererUsageReport).Text("Renderer ")
	semantic.LinkFragment(b, c.frag)
	b.Text(" is used as " + field).Emit()
}

func (imp *importer) timeField(caps []capture) (Field, error) {
	var dateTime, date, timeOfDay *capture
	for i := range caps {
		c := &caps[i]
		if c.frag.Flags.Has(semantic.IsConditional) {
			continue
		}
		switch {
		case c.frag.Flags.Has(semantic.RepresentsDateOrTime):
			if dateTime == nil {
				dateTime = c
			}
		case c.frag.Flags.Has(semantic.RepresentsDate):
			if date == nil {
				date = c
			}
		case timeOfDay == nil:
			timeOfDay = c
		}
	}

	var (
		code string
		used []capture
	)
	switch {
	case dateTime != nil:
		code = toDateTimeCode(*dateTime)
		used = []capture{*dateTime}
	case date != nil && timeOfDay != nil:
		code = fmt.Sprintf("DATETIME_FROM_DATE_AND_TIMEOFDAY(%s, %s)", toDateTimeCode(*date), toDateTimeCode(*timeOfDay))
		used = []capture{*date, *timeOfDay}
	case date != nil:
		code = toDateTimeCode(*date)
		used = []capture{*date}
	case timeOfDay != nil:
		code = fmt.Sprintf("DATETIME_FROM_TIMEOFDAY(%s)", toDateTimeCode(*timeOfDay))
		used = []capture{*timeOfDay}
	case len(caps) == 0:
		imp.log.Error(importlog.NoDateTimeFound).
			Text("Layout does not contain a renderer that writes the date and time of a message").
			Emit()
	default:
		for _, c := range caps {
			imp.reportConditional(c, FieldTime)
		}
		imp.log.Error(importlog.DateTimeCannotBeParsed).
			Text("Date and time of messages can not be parsed because all renderers writing them are conditional").
			Emit()
	}
	if err := imp.log.FailIfThereIsError(); err != nil {
		return Field{}, err
	}

	for _, c := range used {
		imp.reportUsage(c, FieldTime)
	}
	if dateTime == nil && date != nil && timeOfDay == nil {
		defer imp.log.PushLayoutID(date.frag.LayoutID)()
		b := imp.log.Warning(importlog.NoTimeParsed).Text("Only the date is taken from ")
		semantic.LinkFragment(b, date.frag)
		b.Text("; messages are timestamped with a precision of one day").Emit()
	}
	return Field{Name: FieldTime, Code: code}, nil
}

func (imp *importer) reportConditional(c capture, field string) {
	defer imp.log.PushLayoutID(c.frag.LayoutID)()
	b := imp.log.Warning(importlog.ImportantFieldIsConditional).Text("Renderer ")
	semantic.LinkFragment(b, c.frag)
	b.Text(" can not be used as " + field + " because it is written only under some conditions")
	if w := c.frag.ConditionalBy; w != nil && w.Node != nil {
		b.Text(", see ").Link(w.Node.Description, w.Node.Span.Start, w.Node.Span.End)
	}
	b.Emit()
}

func toDateTimeCode(c capture) string {
	dt := c.frag.DateTime
	if dt == nil {
		dt = &semantic.DateTimeFormat{}
	}
	if dt.Ticks {
		return fmt.Sprintf("TICKS_TO_DATETIME(%s)", c.name)
	}
	args := c.name + ", " + envelope.StringLiteral(dt.Format)
	if dt.Culture != "" {
		args += ", " + envelope.StringLiteral(dt.Culture)
	}
	return fmt.Sprintf("TO_DATETIME(%s)", args)
}

// usedCaptures picks the captures a field is computed from: the first
// unconditional one, or else all of them in order.
func usedCaptures(caps []capture) []capture {
	for _, c := range caps {
		if !c.frag.Flags.Has(semantic.IsConditional) {
			return []capture{c}
		}
	}
	return caps
}

func (imp *importer) severityField(caps []capture) (Field, bool) {
	used := usedCaptures(caps)
	if len(used) == 0 {
		return Field{}, false
	}
	var sb strings.Builder
	for _, c := range used {
		imp.reportUsage(c, FieldSeverity)
		fmt.Fprintf(&sb, "if (%[1]s.Length > 0)\n{\n"+
			"  char c = %[1]s[0];\n"+
			"  if (c == 'E' || c == 'e' || c == 'F' || c == 'f')\n    return Severity.Error;\n"+
			"  if (c == 'W' || c == 'w')\n    return Severity.Warning;\n"+
			"  return Severity.Info;\n}\n", c.name)
	}
	sb.WriteString("return Severity.Info;")
	return Field{Name: FieldSeverity, CodeType: CodeTypeFunction, Code: sb.String()}, true
}

func (imp *importer) threadField(caps []capture) (Field, bool) {
	used := usedCaptures(caps)
	if len(used) == 0 {
		return Field{}, false
	}
	var sb strings.Builder
	for _, c := range used {
		imp.reportUsage(c, FieldThread)
		fmt.Fprintf(&sb, "if (%s.Length > 0)\n  return %s;\n", c.name, c.frag.Envelope.UnescapeCode(c.name))
	}
	sb.WriteString(`return "";`)
	return Field{Name: FieldThread, CodeType: CodeTypeFunction, Code: sb.String()}, true
}

const lowSignalRunes = "|-/\\ \t[]()\"'"

func isLowSignalLiteral(f semantic.Fragment) bool {
	if !f.Flags.Has(semantic.IsStringLiteral) || f.Literal == "" {
		return false
	}
	return strings.Trim(f.Literal, lowSignalRunes) == ""
}

// bodyField concatenates the content captures, minus a leading run of
// punctuation, with the text following the header.
func bodyField(caps []capture, env envelope.Envelope) Field {
	start := 0
	for start < len(caps) && isLowSignalLiteral(caps[start].frag) {
		start++
	}
	code := env.UnescapeCode("body")
	for i := len(caps) - 1; i >= start; i-- {
		code = fmt.Sprintf("CONCAT(%s, %s)", caps[i].frag.Envelope.UnescapeCode(caps[i].name), code)
	}
	return Field{Name: FieldBody, Code: code}
}
