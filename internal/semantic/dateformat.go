package semantic

import (
	"fmt"
	"strings"

	"github.com/vrclog/layoutgrammar/internal/envelope"
)

// DateFormat is the result of translating a date format string.
type DateFormat struct {
	Regex   string
	HasDate bool
	HasTime bool
}

// standardDateFormats expands single-letter standard format specifiers
// using invariant culture patterns.
var standardDateFormats = map[byte]string{
	'd': "MM/dd/yyyy",
	'D': "dddd, dd MMMM yyyy",
	'f': "dddd, dd MMMM yyyy HH:mm",
	'F': "dddd, dd MMMM yyyy HH:mm:ss",
	'g': "MM/dd/yyyy HH:mm",
	'G': "MM/dd/yyyy HH:mm:ss",
	'm': "MMMM dd",
	'M': "MMMM dd",
	'o': "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffK",
	'O': "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffK",
	'r': "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	'R': "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	's': "yyyy'-'MM'-'dd'T'HH':'mm':'ss",
	't': "HH:mm",
	'T': "HH:mm:ss",
	'u': "yyyy'-'MM'-'dd HH':'mm':'ss'Z'",
	'U': "dddd, dd MMMM yyyy HH:mm:ss",
	'y': "yyyy MMMM",
	'Y': "yyyy MMMM",
}

const (
	nameRegex     = `\p{L}+`
	abbrevRegex   = `\p{L}+\.?`
	designatorRgx = `[\p{L}\.]*`
)

// ParseDateFormat translates a date format string, either a single
// standard specifier or a custom pattern, into a regex that matches the
// dates it produces. literal turns the literal text of the format into a
// regex; nil means envelope.EscapeRegex.
func ParseDateFormat(format string, literal func(string) string) (DateFormat, error) {
	if literal == nil {
		literal = envelope.EscapeRegex
	}
	if format == "" {
		return DateFormat{}, fmt.Errorf("empty date format")
	}
	if len(format) == 1 {
		std, ok := standardDateFormats[format[0]]
		if !ok {
			return DateFormat{}, fmt.Errorf("unknown standard date format %q", format)
		}
		format = std
	}

	var (
		df DateFormat
		sb strings.Builder
	)
	rs := []rune(format)
	for i := 0; i < len(rs); {
		c := rs[i]
		n := 1
		for i+n < len(rs) && rs[i+n] == c {
			n++
		}
		switch c {
		case 'y':
			df.HasDate = true
			switch {
			case n == 1:
				sb.WriteString(`\d{1,2}`)
			case n == 2:
				sb.WriteString(`\d{2}`)
			case n == 3:
				sb.WriteString(`\d{3,4}`)
			default:
				fmt.Fprintf(&sb, `\d{%d}`, n)
			}
		case 'M':
			df.HasDate = true
			sb.WriteString(variableWidth(n, abbrevRegex, nameRegex))
		case 'd':
			if n <= 2 {
				df.HasDate = true
			}
			sb.WriteString(variableWidth(n, abbrevRegex, nameRegex))
		case 'H', 'h', 'm', 's':
			df.HasTime = true
			sb.WriteString(variableWidth(min(n, 2), "", ""))
		case 'f':
			if n > 7 {
				return DateFormat{}, fmt.Errorf("too many fraction digits in %q", format)
			}
			df.HasTime = true
			fmt.Fprintf(&sb, `\d{%d}`, n)
		case 'F':
			if n > 7 {
				return DateFormat{}, fmt.Errorf("too many fraction digits in %q", format)
			}
			df.HasTime = true
			fmt.Fprintf(&sb, `\d{0,%d}`, n)
		case 't':
			sb.WriteString(designatorRgx)
		case 'g':
			sb.WriteString(`[\p{L}\.]+`)
		case 'z':
			switch n {
			case 1:
				sb.WriteString(`[+-]\d{1,2}`)
			case 2:
				sb.WriteString(`[+-]\d{2}`)
			default:
				sb.WriteString(`[+-]\d{2}:\d{2}`)
			}
		case 'K':
			sb.WriteString(`(?:Z|[+-]\d{2}:\d{2})?`)
			n = 1
		case '\'', '"':
			end := i + 1
			for end < len(rs) && rs[end] != c {
				end++
			}
			if end == len(rs) {
				return DateFormat{}, fmt.Errorf("unterminated quote in %q", format)
			}
			sb.WriteString(literal(string(rs[i+1 : end])))
			i = end + 1
			continue
		case '\\':
			if i+1 == len(rs) {
				return DateFormat{}, fmt.Errorf("trailing escape in %q", format)
			}
			sb.WriteString(literal(string(rs[i+1])))
			i += 2
			continue
		case '%':
			i++
			continue
		default:
			sb.WriteString(literal(string(c)))
			n = 1
		}
		i += n
	}
	df.Regex = sb.String()
	return df, nil
}

// variableWidth renders the numeric-or-name pattern shared by month and
// day specifiers. Empty name patterns clamp to the two-digit form.
func variableWidth(n int, abbrev, name string) string {
	switch {
	case n == 1:
		return `\d{1,2}`
	case n == 2 || abbrev == "":
		return `\d{2}`
	case n == 3:
		return abbrev
	default:
		return name
	}
}
