package semantic

import (
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

// ValidateHeader reports layouts that can not produce a header: an empty
// fragment sequence, or one whose first fragment is not specific.
func ValidateHeader(frags []Fragment, log *importlog.Log) {
	if len(frags) == 0 {
		log.Error(importlog.NothingToMatch).
			Text("Layout has nothing to match").
			Emit()
		return
	}
	first := frags[0]
	if first.Flags.Has(IsNotSpecific) {
		defer log.PushLayoutID(first.LayoutID)()
		b := log.Error(importlog.FirstRegexIsNotSpecific).Text("Layout must start with text that can be matched precisely, but it starts with ")
		LinkFragment(b, first)
		b.Emit()
	}
}

// FieldName returns the name of the field a fragment feeds.
func FieldName(f Flags) string {
	switch {
	case f.Any(RepresentsDateOrTime):
		return "Time"
	case f.Has(RepresentsSeverity):
		return "Severity"
	case f.Has(RepresentsThread):
		return "Thread"
	}
	return "Body"
}

// FilterMatchable demotes field fragments that can not be matched precisely.
// A not-specific thread fragment survives when specific fragments surround
// it; the fragment after it is then marked as needed to capture it.
func FilterMatchable(frags []Fragment, log *importlog.Log) {
	for i := range frags {
		f := &frags[i]
		if !f.Flags.Any(RepresentsField) || !f.Flags.Has(IsNotSpecific) {
			continue
		}
		bounded := i > 0 && !frags[i-1].Flags.Has(IsNotSpecific) &&
			i+1 < len(frags) && !frags[i+1].Flags.Has(IsNotSpecific)
		if bounded && f.Flags.Has(RepresentsThread) {
			frags[i+1].Flags |= MakesPreviousCapturable
			continue
		}
		demote(f, log)
	}
}

func demote(f *Fragment, log *importlog.Log) {
	defer log.PushLayoutID(f.LayoutID)()
	field := FieldName(f.Flags)
	f.Flags &^= RepresentsField
	b := log.Warning(importlog.RendererIgnored).Text("Renderer ")
	LinkFragment(b, *f)
	b.Text(" can not be matched precisely and is not used for " + field)
	if w := f.NotHandleableBy; w != nil && w.Node != nil {
		b.Text(" because it is wrapped by ").
			Link(w.Node.Description, w.Node.Span.Start, w.Node.Span.End)
	}
	b.Emit()
}

type rating int

const (
	mandatoryUnconditional rating = iota
	mandatoryUnconditionalDuplicated
	mandatoryConditional
	mandatoryConditionalDuplicated
	interestingUnconditional
	interestingUnconditionalDuplicated
	interestingConditional
	interestingConditionalDuplicated
	noRating
)

func rate(f Flags, captured Flags) rating {
	var r rating
	switch {
	case f.Any(RepresentsDateOrTime):
		r = mandatoryUnconditional
	case f.Any(RepresentsSeverity | RepresentsThread):
		r = interestingUnconditional
	default:
		return noRating
	}
	if f.Has(IsConditional) {
		r += 2
	}
	if f.Any(captured & RepresentsField) {
		r++
	}
	return r
}

// SelectCapturable returns the length of the fragment prefix that becomes
// the header regex. A field fragment extends the prefix when its rating is
// good enough; only mandatory fields may be reached across a not-specific
// fragment. The cut never splits a conditional group, keeps a fragment that
// bounds a captured thread and keeps trailing literal separators.
func SelectCapturable(frags []Fragment) int {
	captured := 0
	var seen Flags
	gap := false
	for i, f := range frags {
		limit := interestingConditionalDuplicated
		if gap {
			limit = mandatoryConditionalDuplicated
		}
		if r := rate(f.Flags, seen); r <= limit {
			captured = i + 1
			seen |= f.Flags & RepresentsField
			gap = false
			continue
		}
		if f.Flags.Has(IsNotSpecific) {
			gap = true
		}
	}

	for captured < len(frags) && frags[captured].Flags.Has(IsNotTopLevel) {
		captured++
	}
	if captured < len(frags) && frags[captured].Flags.Has(MakesPreviousCapturable) {
		captured++
	}
	for captured < len(frags) && frags[captured].Flags.Has(IsStringLiteral) {
		captured++
	}
	return captured
}

// LinkFragment appends f to b as a link to its layout text, or as plain
// text when f has no span.
func LinkFragment(b *importlog.MessageBuilder, f Fragment) {
	if f.Span == nil {
		b.Text(f.Description)
		return
	}
	b.Link(f.Description, f.Span.Start, f.Span.End)
}
