package syntax

import (
	"fmt"
	"strings"
	"unicode"
)

// SyntaxError reports a layout the parser could not consume.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("layout syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parse builds the syntax tree of layout. The root is a Layout node.
// Renderer and parameter names are not validated here.
func Parse(layout string) (*Node, error) {
	p := &parser{src: layout, tz: NewTokenizer(layout)}
	root, err := p.parseLayout(0, false)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, &SyntaxError{Offset: tok.Offset, Message: fmt.Sprintf("unexpected %s", tok.Kind)}
	}
	root.Span = Span{Start: 0, End: len(layout)}
	return root, nil
}

type parser struct {
	src     string
	tz      *Tokenizer
	pending []Token // tokens pushed back by unread, replayed first
	lastEnd int
}

func (p *parser) next() (Token, bool) {
	var tok Token
	if len(p.pending) > 0 {
		tok = p.pending[0]
		p.pending = p.pending[1:]
	} else {
		var ok bool
		tok, ok = p.tz.Next()
		if !ok {
			return Token{}, false
		}
	}
	p.lastEnd = tok.End()
	return tok, true
}

// unread pushes tokens back so that the next calls to next return them in
// their original order.
func (p *parser) unread(toks ...Token) {
	if len(toks) == 0 {
		return
	}
	p.pending = append(append([]Token(nil), toks...), p.pending...)
	p.lastEnd = toks[0].Offset
}

func (p *parser) peek() (Token, bool) {
	end := p.lastEnd
	tok, ok := p.next()
	if ok {
		p.unread(tok)
		p.lastEnd = end
	}
	return tok, ok
}

// parseLayout reads text and renderers starting at offset start. An embedded
// layout is a parameter value: it stops before the first unescaped ':' or '}'
// of its renderer and fails at end of input.
func (p *parser) parseLayout(start int, embedded bool) (*Node, error) {
	layout := &Node{Kind: LayoutNode, Description: "layout"}
	var text strings.Builder
	textStart, textEnd := -1, -1

	flush := func() {
		if textStart < 0 {
			return
		}
		s := text.String()
		layout.Children = append(layout.Children, &Node{
			Kind:        TextNode,
			Data:        s,
			Description: s,
			Span:        Span{Start: textStart, End: textEnd},
		})
		text.Reset()
		textStart = -1
	}

	for {
		tok, ok := p.peek()
		if !ok {
			if embedded {
				return nil, &SyntaxError{Offset: len(p.src), Message: "unterminated renderer"}
			}
			break
		}
		if embedded && (tok.Kind == ParamColon || tok.Kind == RendererEnd) {
			break
		}
		p.next()
		if tok.Kind == RendererBegin {
			flush()
			r, err := p.parseRenderer(tok)
			if err != nil {
				return nil, err
			}
			layout.Children = append(layout.Children, r)
			continue
		}
		if textStart < 0 {
			textStart = tok.Offset
		}
		text.WriteRune(tok.Value)
		textEnd = tok.End()
	}
	flush()
	layout.Span = Span{Start: start, End: p.lastEnd}
	if layout.Span.End < start {
		layout.Span.End = start
	}
	return layout, nil
}

func (p *parser) parseRenderer(begin Token) (*Node, error) {
	var name strings.Builder
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, &SyntaxError{Offset: begin.Offset, Message: "unterminated renderer"}
		}
		if tok.Kind == ParamColon || tok.Kind == RendererEnd {
			break
		}
		if tok.Kind == RendererBegin {
			return nil, &SyntaxError{Offset: tok.Offset, Message: "renderer name expected"}
		}
		p.next()
		name.WriteRune(tok.Value)
	}

	r := &Node{Kind: RendererNode, Data: strings.ToLower(strings.TrimSpace(name.String()))}
	r.Description = "${" + r.Data + "}"
	for {
		tok, ok := p.next()
		if !ok {
			return nil, &SyntaxError{Offset: begin.Offset, Message: "unterminated renderer"}
		}
		if tok.Kind == RendererEnd {
			r.Span = Span{Start: begin.Offset, End: tok.End()}
			return r, nil
		}
		param, err := p.parseParam(tok)
		if err != nil {
			return nil, err
		}
		r.Children = append(r.Children, param)
	}
}

// parseParam reads one parameter after its ':'. The name is scanned ahead; if
// no '=' follows a valid name the parameter is the default one and the
// scanned tokens are pushed back, so its value starts right after the colon.
func (p *parser) parseParam(colon Token) (*Node, error) {
	var consumed []Token
	var name strings.Builder
	named := false
	for {
		tok, ok := p.next()
		if !ok {
			return nil, &SyntaxError{Offset: colon.Offset, Message: "unterminated renderer"}
		}
		consumed = append(consumed, tok)
		if tok.Kind == Literal && isNameRune(tok.Value) {
			name.WriteRune(tok.Value)
			continue
		}
		named = tok.Kind == ParamEq && strings.TrimSpace(name.String()) != ""
		break
	}

	param := &Node{Kind: RendererParamNode}
	valueStart := colon.End()
	if named {
		param.Data = strings.ToLower(strings.TrimSpace(name.String()))
		param.Description = param.Data
		valueStart = consumed[len(consumed)-1].End()
	} else {
		p.unread(consumed...)
		param.Description = "default parameter"
	}

	value, err := p.parseLayout(valueStart, true)
	if err != nil {
		return nil, err
	}
	param.Children = []*Node{value}
	param.Span = Span{Start: colon.End(), End: value.Span.End}
	return param, nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == ' ' || r == '\t'
}
