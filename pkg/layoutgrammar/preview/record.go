package preview

import (
	"regexp"
	"strings"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
)

// Severity classes a record can be given.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Record is one log message cut out of the input.
type Record struct {
	// Line is the 1-based number of the first line of the record.
	Line int `json:"line"`
	// Captures holds the non-empty named groups of the header match.
	Captures map[string]string `json:"captures,omitempty"`
	Time     string            `json:"time,omitempty"`
	Severity string            `json:"severity,omitempty"`
	Thread   string            `json:"thread,omitempty"`
	// Body is the text after the header followed by continuation lines,
	// unescaped for CSV and JSON layouts. Captures keep the raw text.
	Body string `json:"body"`
	// Unmatched is set for lines seen before the first header match.
	Unmatched bool `json:"unmatched,omitempty"`
}

// Splitter groups lines into records. It is not safe for concurrent use.
type Splitter struct {
	grammar *layoutgrammar.Grammar
	re      *regexp.Regexp
	names   []string
	line    int
	pending *Record
	body    []string
}

// NewSplitter compiles the header of g.
func NewSplitter(g *layoutgrammar.Grammar) (*Splitter, error) {
	re, err := g.Compile()
	if err != nil {
		return nil, err
	}
	return &Splitter{grammar: g, re: re, names: re.SubexpNames()}, nil
}

// Feed consumes one line. When the line starts a new record, the previous
// record is complete and returned.
func (s *Splitter) Feed(line string) (Record, bool) {
	s.line++
	loc := s.re.FindStringSubmatchIndex(line)
	if loc == nil {
		if s.pending == nil {
			return Record{Line: s.line, Body: line, Unmatched: true}, true
		}
		s.body = append(s.body, line)
		return Record{}, false
	}

	done, ok := s.Flush()
	rec := &Record{Line: s.line, Captures: map[string]string{}}
	for i, name := range s.names {
		if name == "" || loc[2*i] < 0 || loc[2*i] == loc[2*i+1] {
			continue
		}
		rec.Captures[name] = line[loc[2*i]:loc[2*i+1]]
	}
	rec.Time = s.field(rec.Captures, "time")
	rec.Severity = classify(s.field(rec.Captures, "sev"))
	rec.Thread = s.field(rec.Captures, "thread")
	s.pending = rec
	s.body = append(s.body[:0], line[loc[1]:])
	return done, ok
}

// Flush returns the record in progress, if any.
func (s *Splitter) Flush() (Record, bool) {
	if s.pending == nil {
		return Record{}, false
	}
	rec := *s.pending
	rec.Body = s.grammar.UnescapeBody(strings.Join(s.body, "\n"))
	s.pending = nil
	s.body = s.body[:0]
	return rec, true
}

// Pending reports whether a record is in progress.
func (s *Splitter) Pending() bool { return s.pending != nil }

// field returns the first non-empty capture whose group name starts with
// prefix, unescaped like the generated field code does.
func (s *Splitter) field(caps map[string]string, prefix string) string {
	for _, name := range s.names {
		if strings.HasPrefix(name, prefix) {
			if v := caps[name]; v != "" {
				return s.grammar.Unescape(name, v)
			}
		}
	}
	return ""
}

// classify mirrors the generated Severity field: the first character of the
// captured level decides.
func classify(level string) string {
	if level == "" {
		return ""
	}
	switch level[0] {
	case 'E', 'e', 'F', 'f':
		return SeverityError
	case 'W', 'w':
		return SeverityWarning
	}
	return SeverityInfo
}
