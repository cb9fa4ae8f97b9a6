// Package semantic maps layout syntax trees to flat sequences of regex
// fragments and decides which prefix of that sequence can be matched
// precisely.
package semantic

import (
	"strings"

	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/syntax"
)

// Flags is a set of independent facts about a fragment.
type Flags uint32

const (
	RepresentsDate Flags = 1 << iota
	RepresentsTime
	RepresentsSeverity
	RepresentsThread
	IsNotTopLevel
	IsNotSpecific
	IsConditional
	IsIgnorable
	MakesPreviousCapturable
	IsAuxiliaryRegexPart
	IsUnknownRenderer
	IsStringLiteral
)

const (
	RepresentsDateOrTime = RepresentsDate | RepresentsTime
	RepresentsField      = RepresentsDate | RepresentsTime | RepresentsSeverity | RepresentsThread
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{RepresentsDate, "date"},
	{RepresentsTime, "time"},
	{RepresentsSeverity, "severity"},
	{RepresentsThread, "thread"},
	{IsNotTopLevel, "not-top-level"},
	{IsNotSpecific, "not-specific"},
	{IsConditional, "conditional"},
	{IsIgnorable, "ignorable"},
	{MakesPreviousCapturable, "makes-previous-capturable"},
	{IsAuxiliaryRegexPart, "auxiliary"},
	{IsUnknownRenderer, "unknown-renderer"},
	{IsStringLiteral, "string-literal"},
}

// Has reports whether every flag of x is set.
func (f Flags) Has(x Flags) bool { return f&x == x }

// Any reports whether at least one flag of x is set.
func (f Flags) Any(x Flags) bool { return f&x != 0 }

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// DateTimeFormat describes how a date/time fragment is converted to a
// timestamp.
type DateTimeFormat struct {
	Format  string
	Culture string
	// Ticks marks fragments rendering a tick count rather than formatted text.
	Ticks bool
}

// Fragment is one piece of the regex produced for a layout.
type Fragment struct {
	Regex       string
	Description string
	Flags       Flags
	// Span links the fragment back to the layout text; nil for fragments
	// that only exist to structure the regex.
	Span *syntax.Span

	// NotHandleableBy is the wrapper that made the fragment not specific.
	NotHandleableBy *Wrapper
	// ConditionalBy is the wrapper that made the fragment conditional.
	ConditionalBy *Wrapper

	// Literal is the text a string literal fragment matches.
	Literal  string
	DateTime *DateTimeFormat
	// Envelope is the encoding a captured value has to be unescaped from.
	Envelope envelope.Envelope
	// LayoutID names the CSV column or JSON attribute the fragment was
	// analyzed from; empty for plain layouts and structural fragments.
	LayoutID string
}
