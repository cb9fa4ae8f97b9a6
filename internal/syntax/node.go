package syntax

import (
	"fmt"
	"strings"
)

// NodeKind is the kind of a syntax tree node.
type NodeKind uint8

const (
	// LayoutNode is a sequence of Text and Renderer children.
	LayoutNode NodeKind = iota
	// TextNode is literal text; Data holds the text.
	TextNode
	// RendererNode is ${...}; Data holds the lower-cased renderer name and
	// the children are RendererParam nodes.
	RendererNode
	// RendererParamNode is one renderer parameter; Data holds the lower-cased
	// parameter name (empty for the default parameter) and the only child is
	// the value Layout.
	RendererParamNode
)

func (k NodeKind) String() string {
	switch k {
	case LayoutNode:
		return "Layout"
	case TextNode:
		return "Text"
	case RendererNode:
		return "Renderer"
	case RendererParamNode:
		return "RendererParam"
	}
	return "Invalid"
}

// Span is a half-open [Start,End) byte range of the layout text.
type Span struct {
	Start int
	End   int
}

// Node is a syntax tree node. Each node is owned by exactly one parent.
type Node struct {
	Kind        NodeKind
	Data        string
	Description string
	Children    []*Node
	Span        Span
}

// Param returns the parameter named name, or nil.
func (n *Node) Param(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == RendererParamNode && c.Data == name {
			return c
		}
	}
	return nil
}

// ParamValue returns the value layout of the parameter named name, or nil.
func (n *Node) ParamValue(name string) *Node {
	p := n.Param(name)
	if p == nil || len(p.Children) == 0 {
		return nil
	}
	return p.Children[0]
}

// Text returns the literal text of a layout made only of Text nodes.
// ok is false when the layout contains renderers.
func (n *Node) Text() (text string, ok bool) {
	if n == nil {
		return "", true
	}
	switch n.Kind {
	case TextNode:
		return n.Data, true
	case LayoutNode:
		var sb strings.Builder
		for _, c := range n.Children {
			if c.Kind != TextNode {
				return "", false
			}
			sb.WriteString(c.Data)
		}
		return sb.String(), true
	}
	return "", false
}

// String renders the tree in a compact form used by tests:
// Layout[Text("a") Renderer(level)[Param(format)[Layout[...]]]].
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Kind {
	case LayoutNode:
		sb.WriteString("Layout")
	case TextNode:
		fmt.Fprintf(sb, "Text(%q)", n.Data)
		return
	case RendererNode:
		fmt.Fprintf(sb, "Renderer(%s)", n.Data)
	case RendererParamNode:
		fmt.Fprintf(sb, "Param(%s)", n.Data)
	}
	if len(n.Children) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		c.write(sb)
	}
	sb.WriteByte(']')
}
