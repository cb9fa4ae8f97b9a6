package envelope

import (
	"fmt"
	"strings"
	"unicode"
)

// EscapeRegex escapes s so that it matches itself. The result never contains
// raw whitespace or '#', which keeps it valid in patterns compiled with
// ignore-pattern-whitespace semantics.
func EscapeRegex(s string) string {
	var sb strings.Builder
	for _, r := range s {
		writeEscapedRune(&sb, r)
	}
	return sb.String()
}

func writeEscapedRune(sb *strings.Builder, r rune) {
	switch r {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$', '#':
		sb.WriteByte('\\')
		sb.WriteRune(r)
	case ' ':
		sb.WriteString(`\x20`)
	case '\t':
		sb.WriteString(`\t`)
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\f':
		sb.WriteString(`\f`)
	case '\v':
		sb.WriteString(`\v`)
	default:
		switch {
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(sb, `\x%02x`, r)
		case unicode.IsSpace(r):
			fmt.Fprintf(sb, `\x{%04x}`, r)
		default:
			sb.WriteRune(r)
		}
	}
}
