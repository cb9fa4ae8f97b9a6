// Package importlog collects the diagnostics produced while a layout is
// converted into a regular log grammar.
//
// A Log is created fresh for every import call. Messages are append-only and
// keep the order in which the pipeline emitted them; that order is part of the
// importer's observable contract. Each message is made of display fragments:
// plain text, or a link to a slice of the layout text that caused it.
package importlog

import (
	"strings"
)

// Severity is the importance of a message.
type Severity int

const (
	// Info messages document decisions the importer made.
	Info Severity = iota
	// Warn messages report lost precision; the import still succeeds.
	Warn
	// Error messages make the import fail at the next checkpoint.
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// MessageType classifies a message.
type MessageType int

const (
	NoDateTimeFound MessageType = iota
	DateTimeCannotBeParsed
	NoTimeParsed
	NothingToMatch
	FirstRegexIsNotSpecific
	ImportantFieldIsConditional
	RendererUsageReport
	RendererIgnored
	UnknownRenderer
	BadLayout
)

var messageTypeNames = [...]string{
	NoDateTimeFound:             "NoDateTimeFound",
	DateTimeCannotBeParsed:      "DateTimeCannotBeParsed",
	NoTimeParsed:                "NoTimeParsed",
	NothingToMatch:              "NothingToMatch",
	FirstRegexIsNotSpecific:     "FirstRegexIsNotSpecific",
	ImportantFieldIsConditional: "ImportantFieldIsConditional",
	RendererUsageReport:         "RendererUsageReport",
	RendererIgnored:             "RendererIgnored",
	UnknownRenderer:             "UnknownRenderer",
	BadLayout:                   "BadLayout",
}

func (t MessageType) String() string {
	if t >= 0 && int(t) < len(messageTypeNames) {
		return messageTypeNames[t]
	}
	return "Unknown"
}

// Span is a half-open [Start,End) byte range of a layout string.
type Span struct {
	Start int
	End   int
}

// Fragment is one displayable piece of a message. Link is nil for plain text.
type Fragment struct {
	Text string
	Link *Span
}

// IsLink reports whether the fragment refers to a slice of the layout.
func (f Fragment) IsLink() bool { return f.Link != nil }

// Message is a single diagnostic.
type Message struct {
	Type      MessageType
	Severity  Severity
	Fragments []Fragment
	// LayoutID names the CSV column or JSON attribute the message belongs to.
	// It is empty for messages about a plain layout or the envelope itself.
	LayoutID string
}

// Text returns the message with link fragments inlined as plain text.
func (m Message) Text() string {
	var sb strings.Builder
	for _, f := range m.Fragments {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// Links returns the link fragments of the message in display order.
func (m Message) Links() []Fragment {
	var links []Fragment
	for _, f := range m.Fragments {
		if f.IsLink() {
			links = append(links, f)
		}
	}
	return links
}

// Log is an ordered, append-only list of messages.
// A Log is not safe for concurrent use; each import call owns its own.
type Log struct {
	messages []Message
	layoutID string
}

// New returns an empty Log.
func New() *Log {
	return &Log{}
}

// Messages returns the recorded messages in emission order.
// The returned slice must not be modified.
func (l *Log) Messages() []Message {
	return l.messages
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// OfType returns the messages of the given type in emission order.
func (l *Log) OfType(t MessageType) []Message {
	var out []Message
	for _, m := range l.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// HasErrors reports whether at least one Error message was recorded.
func (l *Log) HasErrors() bool {
	for i := range l.messages {
		if l.messages[i].Severity >= Error {
			return true
		}
	}
	return false
}

// HasWarnings reports whether at least one message of Warn or higher
// severity was recorded.
func (l *Log) HasWarnings() bool {
	for i := range l.messages {
		if l.messages[i].Severity >= Warn {
			return true
		}
	}
	return false
}

// CurrentLayoutID returns the layout id new messages are attributed to.
func (l *Log) CurrentLayoutID() string {
	return l.layoutID
}

// PushLayoutID attributes subsequent messages to id until the returned
// function is called, which restores the previous id. Use it with defer so the
// id is restored on every exit path:
//
//	defer log.PushLayoutID(column.ID)()
func (l *Log) PushLayoutID(id string) func() {
	prev := l.layoutID
	l.layoutID = id
	return func() {
		l.layoutID = prev
	}
}

// FailIfThereIsError returns an *AbortError carrying the log when any Error
// message has been recorded, and nil otherwise.
func (l *Log) FailIfThereIsError() error {
	if l.HasErrors() {
		return &AbortError{Log: l}
	}
	return nil
}

func (l *Log) add(m Message) {
	m.LayoutID = l.layoutID
	l.messages = append(l.messages, m)
}
