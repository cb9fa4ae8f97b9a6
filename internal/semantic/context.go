package semantic

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vrclog/layoutgrammar/internal/envelope"
	"github.com/vrclog/layoutgrammar/internal/syntax"
)

// WrapperKind is the effect a wrapper renderer has on the regex of its
// content.
type WrapperKind uint8

const (
	UpperCase WrapperKind = iota
	LowerCase
	// NotHandleable wrappers transform their content in ways a regex can not
	// follow; everything inside matches "anything".
	NotHandleable
	// Conditional wrappers may render nothing at all.
	Conditional
)

// Wrapper is a renderer that modifies the regex of its inner layout.
type Wrapper struct {
	Kind    WrapperKind
	Node    *syntax.Node
	Culture string
}

type wrapperList struct {
	w    Wrapper
	next *wrapperList
}

// Context is the immutable state passed down the syntax tree: the active
// wrappers, innermost first, the nesting depth and the value envelope.
// Push and IncreaseDepth return new contexts and leave the receiver intact,
// so sibling subtrees never see each other's wrappers.
type Context struct {
	wrappers *wrapperList
	depth    int
	env      envelope.Envelope
}

// NewContext returns a top-level context for values written through env.
func NewContext(env envelope.Envelope) Context {
	return Context{env: env}
}

// Push returns a context with w as the innermost wrapper.
func (c Context) Push(w Wrapper) Context {
	c.wrappers = &wrapperList{w: w, next: c.wrappers}
	return c
}

// IncreaseDepth returns a context one nesting level deeper.
func (c Context) IncreaseDepth() Context {
	c.depth++
	return c
}

// WithEnvelope returns a context writing values through env.
func (c Context) WithEnvelope(env envelope.Envelope) Context {
	c.env = env
	return c
}

// Depth returns the nesting depth.
func (c Context) Depth() int { return c.depth }

// Envelope returns the value envelope.
func (c Context) Envelope() envelope.Envelope { return c.env }

// Wrappers returns the active wrappers, innermost first.
func (c Context) Wrappers() []Wrapper {
	var out []Wrapper
	for l := c.wrappers; l != nil; l = l.next {
		out = append(out, l.w)
	}
	return out
}

func (c Context) innermost(kind WrapperKind) *Wrapper {
	for l := c.wrappers; l != nil; l = l.next {
		if l.w.Kind == kind {
			w := l.w
			return &w
		}
	}
	return nil
}

// AnythingRegex returns the regex matching arbitrary text in this context.
func (c Context) AnythingRegex() string {
	return c.env.AnythingRegex()
}

// LiteralRegex returns the regex matching literal text s as it is written in
// this context: case wrappers are applied innermost first, then the text is
// escaped for the envelope. Under a not-handleable wrapper the result is the
// "anything" regex.
func (c Context) LiteralRegex(s string) string {
	if c.innermost(NotHandleable) != nil {
		return c.AnythingRegex()
	}
	for l := c.wrappers; l != nil; l = l.next {
		switch l.w.Kind {
		case UpperCase:
			s = cases.Upper(cultureTag(l.w.Culture)).String(s)
		case LowerCase:
			s = cases.Lower(cultureTag(l.w.Culture)).String(s)
		}
	}
	return c.env.LiteralRegex(s)
}

// Apply imposes the limitations of the active wrappers on f.
func (c Context) Apply(f Fragment) Fragment {
	f.Envelope = c.env
	if w := c.innermost(NotHandleable); w != nil && !f.Flags.Has(IsAuxiliaryRegexPart) {
		f.Regex = c.AnythingRegex()
		f.Flags |= IsNotSpecific
		f.Flags &^= IsStringLiteral
		f.NotHandleableBy = w
	}
	if w := c.innermost(Conditional); w != nil {
		f.Flags |= IsConditional
		f.ConditionalBy = w
	}
	if c.depth > 0 {
		f.Flags |= IsNotTopLevel
	}
	return f
}

func cultureTag(culture string) language.Tag {
	if culture == "" {
		return language.Und
	}
	tag, err := language.Parse(culture)
	if err != nil {
		return language.Und
	}
	return tag
}
