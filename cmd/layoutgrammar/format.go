package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/preview"
)

// ValidFormats lists all valid record output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputRecord writes a record in the specified format to the writer.
func OutputRecord(format string, rec preview.Record, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(rec, out)
	case "pretty":
		return OutputPretty(rec, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a record as JSON Lines format.
func OutputJSON(rec preview.Record, out io.Writer) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a record in human-readable format: one header line
// with the extracted fields, then the body lines indented.
func OutputPretty(rec preview.Record, out io.Writer) error {
	var err error
	if rec.Unmatched {
		_, err = fmt.Fprintf(out, "%5d ? %s\n", rec.Line, rec.Body)
		return err
	}

	sev := "-"
	switch rec.Severity {
	case preview.SeverityError:
		sev = "E"
	case preview.SeverityWarning:
		sev = "W"
	case preview.SeverityInfo:
		sev = "I"
	}
	header := fmt.Sprintf("%5d %s [%s]", rec.Line, sev, rec.Time)
	if rec.Thread != "" {
		header += " thread=" + quoteIfNeeded(rec.Thread)
	}
	if extra := formatData(otherCaptures(rec.Captures)); extra != "" {
		header += " " + extra
	}
	if _, err = fmt.Fprintln(out, header); err != nil {
		return err
	}
	for _, line := range strings.Split(rec.Body, "\n") {
		if _, err = fmt.Fprintf(out, "      %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// otherCaptures drops the captures already shown as fields.
func otherCaptures(caps map[string]string) map[string]string {
	out := make(map[string]string, len(caps))
	for k, v := range caps {
		if strings.HasPrefix(k, "time") || strings.HasPrefix(k, "sev") || strings.HasPrefix(k, "thread") {
			continue
		}
		out[k] = v
	}
	return out
}

// formatData formats a map as sorted key=value pairs.
// Values are quoted if they contain spaces, equals signs, quotes, or control characters.
func formatData(data map[string]string) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(data))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteIfNeeded(k), quoteIfNeeded(data[k])))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains special characters or control characters.
// Returns the value unchanged if no quoting is needed.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	needsQuote := false
	for _, c := range v {
		if c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
