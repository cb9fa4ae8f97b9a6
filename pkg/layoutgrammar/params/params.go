// Package params holds the parameter structures the importer works on: a
// plain layout string, CSV layout columns or a JSON attribute tree. They can
// be built in code or loaded from a versioned YAML file.
package params

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Kind selects which layout flavor a parameter file describes.
type Kind string

const (
	KindPlain Kind = "plain"
	KindCSV   Kind = "csv"
	KindJSON  Kind = "json"
)

// File is the top-level structure of a parameter file.
//
// Example YAML:
//
//	version: 1
//	kind: csv
//	csv:
//	  quoting: auto
//	  quote: '"'
//	  delimiter: ";"
//	  columns:
//	    - id: time
//	      layout: ${longdate}
//	    - id: message
//	      layout: ${message}
type File struct {
	Version int         `yaml:"version"`
	Kind    Kind        `yaml:"kind"`
	Layout  string      `yaml:"layout,omitempty"`
	CSV     *CSVParams  `yaml:"csv,omitempty"`
	JSON    *JSONParams `yaml:"json,omitempty"`
}

// Quoting is the CSV column quoting mode.
type Quoting int

const (
	QuotingAuto Quoting = iota
	QuotingAlways
	QuotingNever
)

func (q Quoting) String() string {
	switch q {
	case QuotingAuto:
		return "auto"
	case QuotingAlways:
		return "always"
	case QuotingNever:
		return "never"
	}
	return fmt.Sprintf("Quoting(%d)", int(q))
}

// ParseQuoting parses a quoting mode name, case-insensitively.
func ParseQuoting(s string) (Quoting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return QuotingAuto, nil
	case "always", "all":
		return QuotingAlways, nil
	case "never", "nothing":
		return QuotingNever, nil
	}
	return 0, fmt.Errorf("unknown quoting mode %q", s)
}

func (q Quoting) MarshalYAML() (any, error) {
	return q.String(), nil
}

func (q *Quoting) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseQuoting(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// CSVColumn is one column of a CSV layout.
type CSVColumn struct {
	ID     string `yaml:"id"`
	Layout string `yaml:"layout"`
}

// CSVParams describes a CSV layout.
type CSVParams struct {
	Columns []CSVColumn
	Quoting Quoting
	// Quote is the quote character; required unless Quoting is QuotingNever.
	Quote rune
	// Delimiter separates columns. Empty means auto: comma or semicolon.
	Delimiter string
}

type csvParamsYAML struct {
	Columns   []CSVColumn `yaml:"columns"`
	Quoting   Quoting     `yaml:"quoting"`
	Quote     *string     `yaml:"quote"`
	Delimiter string      `yaml:"delimiter,omitempty"`
}

func (p CSVParams) MarshalYAML() (any, error) {
	out := csvParamsYAML{Columns: p.Columns, Quoting: p.Quoting, Delimiter: p.Delimiter}
	if p.Quote != 0 {
		q := string(p.Quote)
		out.Quote = &q
	}
	return out, nil
}

func (p *CSVParams) UnmarshalYAML(value *yaml.Node) error {
	var in csvParamsYAML
	if err := value.Decode(&in); err != nil {
		return err
	}
	*p = CSVParams{Columns: in.Columns, Quoting: in.Quoting, Delimiter: in.Delimiter, Quote: '"'}
	if in.Quote != nil {
		switch utf8.RuneCountInString(*in.Quote) {
		case 0:
			p.Quote = 0
		case 1:
			p.Quote, _ = utf8.DecodeRuneInString(*in.Quote)
		default:
			return fmt.Errorf("line %d: quote must be a single character, got %q", value.Line, *in.Quote)
		}
	}
	return nil
}

// JSONAttribute is one attribute of a JSON layout. Exactly one of Layout and
// Nested is used; Nested wins when both are set.
type JSONAttribute struct {
	Name   string      `yaml:"name"`
	Layout string      `yaml:"layout,omitempty"`
	Nested *JSONParams `yaml:"json,omitempty"`
	// Encode writes the value as a JSON string. When false the rendered text
	// is written raw, e.g. for numbers.
	Encode        bool `yaml:"encode"`
	EscapeUnicode bool `yaml:"escape_unicode"`
}

func (a *JSONAttribute) UnmarshalYAML(value *yaml.Node) error {
	type plain JSONAttribute
	out := plain{Encode: true, EscapeUnicode: true}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*a = JSONAttribute(out)
	return nil
}

// JSONParams describes a JSON layout object.
type JSONParams struct {
	Attributes           []JSONAttribute `yaml:"attributes"`
	SuppressSpaces       bool            `yaml:"suppress_spaces"`
	IncludeAllProperties bool            `yaml:"include_all_properties"`
	IncludeMDC           bool            `yaml:"include_mdc"`
	IncludeMDLC          bool            `yaml:"include_mdlc"`
	// RenderEmptyObject makes a nested object appear even when all of its
	// attributes render empty.
	RenderEmptyObject bool `yaml:"render_empty_object"`
}

func (p *JSONParams) UnmarshalYAML(value *yaml.Node) error {
	type plain JSONParams
	out := plain{RenderEmptyObject: true}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*p = JSONParams(out)
	return nil
}

// HasTrailingProperties reports whether properties not declared as
// attributes may follow the declared ones.
func (p *JSONParams) HasTrailingProperties() bool {
	return p.IncludeAllProperties || p.IncludeMDC || p.IncludeMDLC
}

// NewAttribute returns an attribute with the library defaults: encoded, with
// non-ASCII characters escaped.
func NewAttribute(name, layout string) JSONAttribute {
	return JSONAttribute{Name: name, Layout: layout, Encode: true, EscapeUnicode: true}
}
