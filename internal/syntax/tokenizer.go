package syntax

import "unicode/utf8"

// Tokenizer produces tokens from a layout string on demand.
type Tokenizer struct {
	src   string
	off   int
	depth int
}

// NewTokenizer returns a Tokenizer positioned at the start of src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Depth returns the number of renderers opened and not yet closed.
func (t *Tokenizer) Depth() int {
	return t.depth
}

// Next returns the next token. ok is false at the end of input.
func (t *Tokenizer) Next() (tok Token, ok bool) {
	if t.off >= len(t.src) {
		return Token{}, false
	}
	start := t.off
	r, size := utf8.DecodeRuneInString(t.src[t.off:])

	if r == '$' && t.off+1 < len(t.src) && t.src[t.off+1] == '{' {
		t.off += 2
		t.depth++
		return Token{Kind: RendererBegin, Value: '$', Offset: start}, true
	}

	t.off += size
	if t.depth == 0 {
		return Token{Kind: Literal, Value: r, Offset: start}, true
	}

	switch r {
	case '}':
		t.depth--
		return Token{Kind: RendererEnd, Value: r, Offset: start}, true
	case ':':
		return Token{Kind: ParamColon, Value: r, Offset: start}, true
	case '=':
		return Token{Kind: ParamEq, Value: r, Offset: start}, true
	case '\\':
		if t.off >= len(t.src) {
			return Token{Kind: Literal, Value: r, Offset: start}, true
		}
		esc, escSize := utf8.DecodeRuneInString(t.src[t.off:])
		t.off += escSize
		return Token{Kind: EscapedLiteral, Value: esc, Offset: start}, true
	}
	return Token{Kind: Literal, Value: r, Offset: start}, true
}

// Tokenize returns every token of src. It is meant for tests and debugging;
// the parser consumes a Tokenizer lazily.
func Tokenize(src string) []Token {
	tz := NewTokenizer(src)
	var out []Token
	for {
		tok, ok := tz.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}
