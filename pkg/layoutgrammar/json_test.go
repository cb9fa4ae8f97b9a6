package layoutgrammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

func TestImportJSON_Attributes(t *testing.T) {
	p := params.JSONParams{
		Attributes: []params.JSONAttribute{
			params.NewAttribute("dt", "${longdate}"),
			params.NewAttribute("message", "${message}"),
			params.NewAttribute("level", "${level:upperCase=true}"),
		},
	}
	g, log, err := layoutgrammar.ImportJSON(p)
	require.NoError(t, err)
	assert.False(t, log.HasErrors())

	assert.Equal(t, `\{ # json`+"\n"+
		`(?:(?:\s*,)?\s*"dt"\s*:\s* # dt`+"\n"+
		`" # dt`+"\n"+
		"(?<time1>"+longDate+") # ${longdate}\n"+
		`" # dt`+"\n"+
		`)? # dt`+"\n"+
		`(?:(?:\s*,)?\s*"message"\s*:\s* # message`+"\n"+
		`" # message`+"\n"+
		`(?<content1>(?:[^"\\]|\\.)*?) # ${message}`+"\n"+
		`" # message`+"\n"+
		`)? # message`+"\n"+
		`(?:(?:\s*,)?\s*"level"\s*:\s* # level`+"\n"+
		`" # level`+"\n"+
		"(?<sev1>(?:TRACE|DEBUG|INFO|WARN|ERROR|FATAL)) # ${level}\n"+
		`" # level`+"\n"+
		`)? # level`+"\n"+
		`\s*\} # json`+"\n", g.HeadRe)

	assert.Equal(t, []string{"Time", "Severity", "Body"}, fieldNames(g))
	assert.Equal(t, `CONCAT(JSON_UNESCAPE(content1), JSON_UNESCAPE(body))`, field(t, g, "Body").Code)

	caps := match(t, g, `{ "dt": "2024-01-02 03:04:05.6789", "message": "hi \"there\"", "level": "ERROR" }`)
	assert.Equal(t, "2024-01-02 03:04:05.6789", caps["time1"])
	assert.Equal(t, `hi \"there\"`, caps["content1"])
	assert.Equal(t, "ERROR", caps["sev1"])
}

func TestImportJSON_SuppressSpacesRawValuesAndTrailingProperties(t *testing.T) {
	raw := params.NewAttribute("n", "${threadid}")
	raw.Encode = false
	p := params.JSONParams{
		Attributes:           []params.JSONAttribute{params.NewAttribute("dt", "${longdate}"), raw},
		SuppressSpaces:       true,
		IncludeAllProperties: true,
	}
	g, _, err := layoutgrammar.ImportJSON(p)
	require.NoError(t, err)
	assert.NotContains(t, g.HeadRe, `\s*`)
	assert.Contains(t, g.HeadRe, `(?<thread1>\d+) # ${threadid}`)
	assert.Equal(t, "if (thread1.Length > 0)\n  return thread1;\nreturn \"\";", field(t, g, "Thread").Code)

	caps := match(t, g, `{"dt":"2024-01-02 03:04:05.6789","n":42,"extra":"x"}`)
	assert.Equal(t, "42", caps["thread1"])
}

func TestImportJSON_Nested(t *testing.T) {
	nested := params.JSONAttribute{
		Name: "ctx",
		Nested: &params.JSONParams{
			Attributes: []params.JSONAttribute{params.NewAttribute("thread", "${threadid}")},
		},
	}
	p := params.JSONParams{
		Attributes: []params.JSONAttribute{params.NewAttribute("time", "${longdate}"), nested},
	}
	g, _, err := layoutgrammar.ImportJSON(p)
	require.NoError(t, err)

	caps := match(t, g, `{"time": "2024-01-02 03:04:05.6789", "ctx": {"thread": "7"}}`)
	assert.Equal(t, "7", caps["thread1"])

	caps = match(t, g, `{"time": "2024-01-02 03:04:05.6789"}`)
	assert.Empty(t, caps["thread1"])
}

func TestImportJSON_EscapeUnicode(t *testing.T) {
	attr := params.NewAttribute("m", "é ${longdate}")
	g, _, err := layoutgrammar.ImportJSON(params.JSONParams{Attributes: []params.JSONAttribute{attr}})
	require.NoError(t, err)
	assert.Contains(t, g.HeadRe, `\\u00e9\x20`)
	match(t, g, `{"m": "\u00e9 2024-01-02 03:04:05.6789"}`)

	attr.EscapeUnicode = false
	g, _, err = layoutgrammar.ImportJSON(params.JSONParams{Attributes: []params.JSONAttribute{attr}})
	require.NoError(t, err)
	assert.Contains(t, g.HeadRe, `é\x20`)
}

func TestImportJSON_BadLayout(t *testing.T) {
	_, log, err := layoutgrammar.ImportJSON(params.JSONParams{})
	requireAbort(t, err)
	assert.Len(t, log.OfType(importlog.BadLayout), 1)

	p := params.JSONParams{Attributes: []params.JSONAttribute{
		params.NewAttribute("a", "${longdate}"),
		params.NewAttribute("a", "${message}"),
	}}
	_, log, err = layoutgrammar.ImportJSON(p)
	requireAbort(t, err)
	assert.Len(t, log.OfType(importlog.BadLayout), 1)
}
