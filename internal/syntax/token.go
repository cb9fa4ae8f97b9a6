// Package syntax turns layout template text into a syntax tree.
//
// A layout is literal text mixed with renderers: ${name}, ${name:param=value}
// or ${name:defaultValue}. Parameter values are themselves layouts and may
// contain nested renderers. Inside a renderer a backslash escapes the next
// character; outside of renderers backslash, ':' and '=' are plain text.
package syntax

import (
	"unicode/utf8"
)

// Kind is the category of a Token.
type Kind uint8

const (
	// Literal is an ordinary character.
	Literal Kind = iota
	// EscapedLiteral is a character preceded by a backslash inside a renderer.
	EscapedLiteral
	// RendererBegin is "${".
	RendererBegin
	// RendererEnd is the "}" closing the innermost open renderer.
	RendererEnd
	// ParamColon is ':' inside a renderer.
	ParamColon
	// ParamEq is '=' inside a renderer.
	ParamEq
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case EscapedLiteral:
		return "EscapedLiteral"
	case RendererBegin:
		return "RendererBegin"
	case RendererEnd:
		return "RendererEnd"
	case ParamColon:
		return "ParamColon"
	case ParamEq:
		return "ParamEq"
	}
	return "Invalid"
}

// Token is a single lexical element of a layout.
type Token struct {
	Kind   Kind
	Value  rune
	Offset int // byte offset of the token's first character
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	switch t.Kind {
	case RendererBegin:
		return t.Offset + 2
	case EscapedLiteral:
		return t.Offset + 1 + utf8.RuneLen(t.Value)
	}
	n := utf8.RuneLen(t.Value)
	if n < 0 {
		n = 1
	}
	return t.Offset + n
}
