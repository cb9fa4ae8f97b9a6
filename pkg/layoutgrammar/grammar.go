package layoutgrammar

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vrclog/layoutgrammar/internal/envelope"
)

// Field names of the generated fields-config.
const (
	FieldTime     = "Time"
	FieldSeverity = "Severity"
	FieldThread   = "Thread"
	FieldBody     = "Body"
)

// CodeTypeFunction marks field code made of statements rather than a single
// expression.
const CodeTypeFunction = "function"

// Field is one extraction expression of the grammar.
type Field struct {
	Name     string `yaml:"name"`
	CodeType string `yaml:"code-type,omitempty"`
	Code     string `yaml:"code"`
}

// Grammar is the generated regular grammar: a header regex written with
// ignore-pattern-whitespace conventions plus the field extraction code.
type Grammar struct {
	HeadRe string  `yaml:"head-re"`
	Fields []Field `yaml:"fields-config"`

	// envelopes holds the encoding of captures written through CSV quoting
	// or JSON strings; plain captures are absent.
	envelopes map[string]envelope.Envelope
	body      envelope.Envelope
}

// Unescape decodes a value captured by the named header group the same way
// the generated field code does. Values of plain groups are returned as is.
func (g *Grammar) Unescape(group, value string) string {
	return g.envelopes[group].Unescape(value)
}

// UnescapeBody decodes the text following the header.
func (g *Grammar) UnescapeBody(s string) string {
	return g.body.Unescape(s)
}

func (g *Grammar) setEnvelope(group string, env envelope.Envelope) {
	if env.Kind == envelope.Plain {
		return
	}
	if g.envelopes == nil {
		g.envelopes = make(map[string]envelope.Envelope)
	}
	g.envelopes[group] = env
}

// Field returns the field named name.
func (g *Grammar) Field(name string) (Field, bool) {
	for _, f := range g.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type xmlCDATA struct {
	Text string `xml:",cdata"`
}

type xmlField struct {
	Name     string `xml:"name,attr"`
	CodeType string `xml:"code-type,attr,omitempty"`
	Code     string `xml:",cdata"`
}

type xmlGrammar struct {
	XMLName xml.Name   `xml:"regular-grammar"`
	HeadRe  xmlCDATA   `xml:"head-re"`
	Fields  []xmlField `xml:"fields-config>field"`
}

// MarshalXML writes the grammar as a regular-grammar element.
func (g Grammar) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	doc := xmlGrammar{HeadRe: xmlCDATA{Text: g.HeadRe}}
	for _, f := range g.Fields {
		doc.Fields = append(doc.Fields, xmlField(f))
	}
	return e.Encode(doc)
}

// XML returns the indented XML document fragment.
func (g *Grammar) XML() ([]byte, error) {
	return xml.MarshalIndent(g, "", "  ")
}

// YAML returns the grammar as a YAML document.
func (g *Grammar) YAML() ([]byte, error) {
	out, err := yaml.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshaling grammar: %w", err)
	}
	return out, nil
}

// Compile compiles the header regex for matching in Go. Comments and
// pattern whitespace are removed first; the result is anchored at the start
// of the input.
func (g *Grammar) Compile() (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + StripPatternWhitespace(g.HeadRe) + ")")
	if err != nil {
		return nil, fmt.Errorf("compiling header regex: %w", err)
	}
	return re, nil
}

// StripPatternWhitespace removes unescaped ASCII whitespace and #-comments outside
// character classes, turning an ignore-pattern-whitespace regex into an
// ordinary one.
func StripPatternWhitespace(pattern string) string {
	var sb strings.Builder
	inClass := false
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			sb.WriteRune(r)
			sb.WriteRune(rs[i+1])
			i++
		case inClass:
			if r == ']' {
				inClass = false
			}
			sb.WriteRune(r)
		case r == '[':
			inClass = true
			sb.WriteRune(r)
			// A ']' right after '[' or '[^' is a literal member.
			if i+1 < len(rs) && rs[i+1] == '^' {
				sb.WriteRune('^')
				i++
			}
			if i+1 < len(rs) && rs[i+1] == ']' {
				sb.WriteRune(']')
				i++
			}
		case r == '#':
			for i+1 < len(rs) && rs[i+1] != '\n' {
				i++
			}
		case isPatternSpace(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isPatternSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
