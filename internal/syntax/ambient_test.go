package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseLifted(t *testing.T, layout string) *Node {
	t.Helper()
	root, err := Parse(layout)
	require.NoError(t, err)
	return LiftAmbientProperties(root)
}

func TestLiftAmbientProperties(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{
			"no ambient properties",
			`${message}`,
			`Layout[Renderer(message)]`,
		},
		{
			"padding",
			`${message:padding=10}`,
			`Layout[Renderer(pad)[Param(padding)[Layout[Text("10")]] Param(inner)[Layout[Renderer(message)]]]]`,
		},
		{
			"uppercase keeps unrelated params",
			`${level:format=Name:uppercase=true}`,
			`Layout[Renderer(uppercase)[Param(uppercase)[Layout[Text("true")]] Param(inner)[Layout[Renderer(level)[Param(format)[Layout[Text("Name")]]]]]]]`,
		},
		{
			"later wrappers are outermost",
			`${message:uppercase=true:padding=3}`,
			`Layout[Renderer(uppercase)[Param(uppercase)[Layout[Text("true")]] Param(inner)[Layout[Renderer(pad)[Param(padding)[Layout[Text("3")]] Param(inner)[Layout[Renderer(message)]]]]]]]`,
		},
		{
			"wrapper own params stay",
			`${pad:padding=3:inner=${message}}`,
			`Layout[Renderer(pad)[Param(padding)[Layout[Text("3")]] Param(inner)[Layout[Renderer(message)]]]]`,
		},
		{
			"nested renderer is lifted too",
			`${when:when=1:inner=${logger:whenEmpty=x}}`,
			`Layout[Renderer(when)[Param(when)[Layout[Text("1")]] Param(inner)[Layout[Renderer(whenempty)[Param(whenempty)[Layout[Text("x")]] Param(inner)[Layout[Renderer(logger)]]]]]]]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLifted(t, tt.layout).String())
		})
	}
}

func TestLiftAmbientProperties_SyntheticSpan(t *testing.T) {
	layout := `x${message:padding=10}`
	root := parseLifted(t, layout)
	wrapper := root.Children[1]
	assert.Equal(t, "pad", wrapper.Data)
	assert.Equal(t, "${pad}", wrapper.Description)
	assert.Equal(t, layout[1:], layout[wrapper.Span.Start:wrapper.Span.End])
}

func TestIsAmbientWrapper(t *testing.T) {
	assert.True(t, IsAmbientWrapper("pad"))
	assert.True(t, IsAmbientWrapper("whenempty"))
	assert.False(t, IsAmbientWrapper("message"))
}
