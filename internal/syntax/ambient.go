package syntax

import "slices"

// ambientWrapper is a wrapper renderer whose own parameters may be written
// directly on any other renderer, e.g. ${message:padding=10}.
type ambientWrapper struct {
	name   string
	params []string
}

// ambientWrappers is ordered: wrappers later in the list end up outermost.
var ambientWrappers = []ambientWrapper{
	{name: "cached", params: []string{"cached", "clearcache", "cachekey"}},
	{name: "filesystem-normalize", params: []string{"fsnormalize"}},
	{name: "json-encode", params: []string{"jsonencode", "escapeunicode"}},
	{name: "lowercase", params: []string{"lowercase"}},
	{name: "pad", params: []string{"padding", "padcharacter", "fixedlength", "alignmentontruncation"}},
	{name: "trim-whitespace", params: []string{"trimwhitespace"}},
	{name: "uppercase", params: []string{"uppercase"}},
	{name: "when", params: []string{"when"}},
	{name: "whenempty", params: []string{"whenempty"}},
	{name: "xml-encode", params: []string{"xmlencode"}},
	{name: "wrapline", params: []string{"wrapline"}},
}

// IsAmbientWrapper reports whether name is a renderer that can be written as
// an ambient property.
func IsAmbientWrapper(name string) bool {
	for _, w := range ambientWrappers {
		if w.name == name {
			return true
		}
	}
	return false
}

// LiftAmbientProperties rewrites ambient properties into explicit wrapper
// renderers, bottom-up: ${message:padding=10} becomes
// ${pad:padding=10:inner=${message}}. The returned node replaces n.
func LiftAmbientProperties(n *Node) *Node {
	if n == nil {
		return nil
	}
	for i, c := range n.Children {
		n.Children[i] = LiftAmbientProperties(c)
	}
	if n.Kind != RendererNode {
		return n
	}

	result := n
	for _, w := range ambientWrappers {
		if w.name == n.Data {
			continue
		}
		detached := detachParams(n, w.params)
		if len(detached) == 0 {
			continue
		}
		inner := &Node{
			Kind:        RendererParamNode,
			Data:        "inner",
			Description: "inner",
			Span:        n.Span,
			Children: []*Node{{
				Kind:        LayoutNode,
				Description: "layout",
				Span:        n.Span,
				Children:    []*Node{result},
			}},
		}
		result = &Node{
			Kind:        RendererNode,
			Data:        w.name,
			Description: "${" + w.name + "}",
			Span:        n.Span,
			Children:    append(detached, inner),
		}
	}
	return result
}

// detachParams removes the parameters of n named in names and returns them
// in their original order.
func detachParams(n *Node, names []string) []*Node {
	var detached, kept []*Node
	for _, c := range n.Children {
		if c.Kind == RendererParamNode && slices.Contains(names, c.Data) {
			detached = append(detached, c)
			continue
		}
		kept = append(kept, c)
	}
	if len(detached) > 0 {
		n.Children = kept
	}
	return detached
}
