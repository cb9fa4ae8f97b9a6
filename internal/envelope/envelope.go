// Package envelope describes how rendered values are wrapped by the layout
// that writes them: plain text, CSV columns or JSON string values. It builds
// the regex of literal text for each envelope and knows how captured values
// are unescaped again.
package envelope

import (
	"fmt"
	"strings"
)

// Kind is the envelope format.
type Kind uint8

const (
	Plain Kind = iota
	CSV
	JSON
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	}
	return "unknown"
}

// Envelope is the encoding applied to a rendered value.
type Envelope struct {
	Kind Kind
	// Quote is the CSV quote character, zero when the column is never quoted.
	Quote rune
	// EscapeUnicode makes JSON values escape non-ASCII characters as \uXXXX.
	EscapeUnicode bool
}

// Anything is the regex matching arbitrary rendered text, non-greedy.
const Anything = `.*?`

// JSONStringAnything matches arbitrary text inside a JSON string without
// running past its closing quote.
const JSONStringAnything = `(?:[^"\\]|\\.)*?`

// AnythingRegex returns the "match anything" regex for values in e.
func (e Envelope) AnythingRegex() string {
	if e.Kind == JSON {
		return JSONStringAnything
	}
	return Anything
}

// LiteralRegex returns a regex matching text s once it has been written
// through the envelope.
func (e Envelope) LiteralRegex(s string) string {
	switch e.Kind {
	case JSON:
		return EscapeRegex(JSONEscape(s, e.EscapeUnicode))
	case CSV:
		if e.Quote == 0 {
			return EscapeRegex(s)
		}
		var sb strings.Builder
		for _, r := range s {
			if r == e.Quote {
				writeEscapedRune(&sb, r)
				sb.WriteString("{1,2}")
				continue
			}
			writeEscapedRune(&sb, r)
		}
		return sb.String()
	}
	return EscapeRegex(s)
}

// UnescapeCode wraps the field code expression expr into the call that
// unescapes a value captured from this envelope.
func (e Envelope) UnescapeCode(expr string) string {
	switch e.Kind {
	case JSON:
		return fmt.Sprintf("JSON_UNESCAPE(%s)", expr)
	case CSV:
		if e.Quote == 0 {
			return expr
		}
		return fmt.Sprintf("CSV_UNESCAPE(%s, %s)", expr, CharLiteral(e.Quote))
	}
	return expr
}

// Unescape is the Go counterpart of UnescapeCode.
func (e Envelope) Unescape(s string) string {
	switch e.Kind {
	case JSON:
		return JSONUnescape(s)
	case CSV:
		if e.Quote == 0 {
			return s
		}
		return CSVUnescape(s, e.Quote)
	}
	return s
}

// CharLiteral formats r as a character literal of the field code language.
func CharLiteral(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	}
	return "'" + string(r) + "'"
}

// StringLiteral formats s as a string literal of the field code language.
func StringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
