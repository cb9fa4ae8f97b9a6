package importlog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

func TestLog_Empty(t *testing.T) {
	l := importlog.New()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.HasErrors())
	assert.False(t, l.HasWarnings())
	assert.NoError(t, l.FailIfThereIsError())
}

func TestLog_KeepsEmissionOrder(t *testing.T) {
	l := importlog.New()
	l.Info(importlog.RendererUsageReport).Text("first").Emit()
	l.Warning(importlog.RendererIgnored).Text("second").Emit()
	l.Info(importlog.RendererUsageReport).Text("third").Emit()

	msgs := l.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text())
	assert.Equal(t, "second", msgs[1].Text())
	assert.Equal(t, "third", msgs[2].Text())
	assert.Len(t, l.OfType(importlog.RendererUsageReport), 2)
}

func TestLog_SeverityQueries(t *testing.T) {
	l := importlog.New()
	l.Info(importlog.RendererUsageReport).Text("x").Emit()
	assert.False(t, l.HasWarnings())

	l.Warning(importlog.NoTimeParsed).Text("y").Emit()
	assert.True(t, l.HasWarnings())
	assert.False(t, l.HasErrors())
	assert.NoError(t, l.FailIfThereIsError())

	l.Error(importlog.NothingToMatch).Text("z").Emit()
	assert.True(t, l.HasErrors())
}

func TestLog_FailIfThereIsError(t *testing.T) {
	l := importlog.New()
	l.Warning(importlog.RendererIgnored).Text("kept").Emit()
	l.Error(importlog.NoDateTimeFound).Text("no time").Emit()

	err := l.FailIfThereIsError()
	require.Error(t, err)

	var abort *importlog.AbortError
	require.True(t, errors.As(err, &abort))
	assert.Same(t, l, abort.Log)
	assert.Contains(t, err.Error(), "NoDateTimeFound")
	// warnings recorded before the error stay visible
	assert.Len(t, abort.Log.OfType(importlog.RendererIgnored), 1)
}

func TestLog_Links(t *testing.T) {
	l := importlog.New()
	l.Warning(importlog.RendererIgnored).
		Text("Renderer ").Link("${level}", 3, 11).
		Text(" is wrapped by ").Link("${pad}", 0, 20).
		Emit()

	m := l.Messages()[0]
	assert.Equal(t, "Renderer ${level} is wrapped by ${pad}", m.Text())
	links := m.Links()
	require.Len(t, links, 2)
	assert.Equal(t, importlog.Span{Start: 3, End: 11}, *links[0].Link)
	assert.Equal(t, importlog.Span{Start: 0, End: 20}, *links[1].Link)
}

func TestLog_PushLayoutID(t *testing.T) {
	l := importlog.New()
	func() {
		defer l.PushLayoutID("column1")()
		l.Warning(importlog.RendererIgnored).Text("inside").Emit()
		func() {
			defer l.PushLayoutID("nested")()
			l.Warning(importlog.RendererIgnored).Text("nested").Emit()
		}()
		l.Warning(importlog.RendererIgnored).Text("inside again").Emit()
	}()
	l.Warning(importlog.RendererIgnored).Text("outside").Emit()

	msgs := l.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "column1", msgs[0].LayoutID)
	assert.Equal(t, "nested", msgs[1].LayoutID)
	assert.Equal(t, "column1", msgs[2].LayoutID)
	assert.Equal(t, "", msgs[3].LayoutID)
	assert.Equal(t, "", l.CurrentLayoutID())
}

func TestMessageBuilder_EmitOnce(t *testing.T) {
	l := importlog.New()
	b := l.Info(importlog.RendererUsageReport).Text("once")
	b.Emit()
	b.Emit()
	assert.Equal(t, 1, l.Len())
}

func TestMessageType_String(t *testing.T) {
	assert.Equal(t, "FirstRegexIsNotSpecific", importlog.FirstRegexIsNotSpecific.String())
	assert.Equal(t, "BadLayout", importlog.BadLayout.String())
	assert.Equal(t, "Unknown", importlog.MessageType(99).String())
	assert.Equal(t, "warning", importlog.Warn.String())
}
