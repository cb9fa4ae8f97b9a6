package layoutgrammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/params"
)

func TestImportCSV_AutoQuoting(t *testing.T) {
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "level", Layout: "${level:upperCase=true}"},
			{ID: "message", Layout: "${message}"},
		},
		Quoting: params.QuotingAuto,
		Quote:   '"',
	}
	g, log, err := layoutgrammar.ImportCSV(p)
	require.NoError(t, err)
	assert.False(t, log.HasWarnings())

	assert.Equal(t, `"? # quote`+"\n"+
		"(?<time1>"+longDate+") # ${longdate}\n"+
		`"? # quote`+"\n"+
		`[,;] # delimiter`+"\n"+
		`"? # quote`+"\n"+
		"(?<sev1>(?:TRACE|DEBUG|INFO|WARN|ERROR|FATAL)) # ${level}\n"+
		`"? # quote`+"\n"+
		`[,;] # delimiter`+"\n"+
		`"? # quote`+"\n", g.HeadRe)
	assert.Equal(t, `CSV_UNESCAPE(body, '"')`, field(t, g, "Body").Code)

	caps := match(t, g, `"2024-01-02 03:04:05.6789";"ERROR";"disk ""full"""`)
	assert.Equal(t, "2024-01-02 03:04:05.6789", caps["time1"])
	assert.Equal(t, "ERROR", caps["sev1"])

	caps = match(t, g, `2024-01-02 03:04:05.6789,INFO,started`)
	assert.Equal(t, "INFO", caps["sev1"])
}

func TestImportCSV_AlwaysQuotedWithDelimiter(t *testing.T) {
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "thread", Layout: "T${threadid}"},
			{ID: "message", Layout: "${message}"},
		},
		Quoting:   params.QuotingAlways,
		Quote:     '"',
		Delimiter: ";",
	}
	g, _, err := layoutgrammar.ImportCSV(p)
	require.NoError(t, err)

	assert.Equal(t, "if (thread1.Length > 0)\n  return CSV_UNESCAPE(thread1, '\"');\nreturn \"\";", field(t, g, "Thread").Code)
	assert.Equal(t, `CONCAT(CSV_UNESCAPE(content1, '"'), CSV_UNESCAPE(body, '"'))`, field(t, g, "Body").Code)

	caps := match(t, g, `"2024-01-02 03:04:05.6789";"T17";"hello"`)
	assert.Equal(t, "T", caps["content1"])
	assert.Equal(t, "17", caps["thread1"])
}

func TestImportCSV_NeverQuoted(t *testing.T) {
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "level", Layout: "${level}"},
		},
		Quoting:   params.QuotingNever,
		Delimiter: "|",
	}
	g, _, err := layoutgrammar.ImportCSV(p)
	require.NoError(t, err)
	assert.NotContains(t, g.HeadRe, "quote")
	assert.Equal(t, "body", field(t, g, "Body").Code)

	caps := match(t, g, "2024-01-02 03:04:05.6789|Warn")
	assert.Equal(t, "Warn", caps["sev1"])
}

func TestImportCSV_BadLayout(t *testing.T) {
	_, log, err := layoutgrammar.ImportCSV(params.CSVParams{Quote: '"'})
	requireAbort(t, err)
	assert.Len(t, log.OfType(importlog.BadLayout), 1)

	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "level", Layout: "${level:format=Name"},
		},
		Quote: '"',
	}
	_, log, err = layoutgrammar.ImportCSV(p)
	requireAbort(t, err)
	bad := log.OfType(importlog.BadLayout)
	require.Len(t, bad, 1)
	assert.Equal(t, "level", bad[0].LayoutID)
	assert.Empty(t, log.CurrentLayoutID())
}

func TestImportCSV_LayoutIDOnDiagnostics(t *testing.T) {
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "custom", Layout: "${nonexistent}"},
		},
		Quote: '"',
	}
	_, log, err := layoutgrammar.ImportCSV(p)
	require.NoError(t, err)
	unknown := log.OfType(importlog.UnknownRenderer)
	require.Len(t, unknown, 1)
	assert.Equal(t, "custom", unknown[0].LayoutID)
	usage := log.OfType(importlog.RendererUsageReport)
	require.Len(t, usage, 1)
	assert.Equal(t, "time", usage[0].LayoutID)
	assert.Empty(t, log.CurrentLayoutID())
}

func TestImportCSV_LayoutIDOnSelectionDiagnostics(t *testing.T) {
	lvl := "${filesystem-normalize:inner=${level}}"
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "time", Layout: "${longdate}"},
			{ID: "lvl", Layout: lvl},
			{ID: "message", Layout: "${message}"},
		},
		Quote: '"',
	}
	_, log, err := layoutgrammar.ImportCSV(p)
	require.NoError(t, err)

	ignored := log.OfType(importlog.RendererIgnored)
	require.Len(t, ignored, 1)
	assert.Equal(t, "lvl", ignored[0].LayoutID)
	links := ignored[0].Links()
	require.Len(t, links, 2)
	assert.Equal(t, "${level}", lvl[links[0].Link.Start:links[0].Link.End])

	usage := log.OfType(importlog.RendererUsageReport)
	require.Len(t, usage, 1)
	assert.Equal(t, "time", usage[0].LayoutID)

	p = params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "message", Layout: "${message}"},
			{ID: "time", Layout: "${longdate}"},
		},
		Quoting: params.QuotingNever,
		Quote:   '"',
	}
	_, log, err = layoutgrammar.ImportCSV(p)
	requireAbort(t, err)
	first := log.OfType(importlog.FirstRegexIsNotSpecific)
	require.Len(t, first, 1)
	assert.Equal(t, "message", first[0].LayoutID)
	assert.Empty(t, log.CurrentLayoutID())
}

func TestImportCSV_LayoutIDOnConditionalTime(t *testing.T) {
	p := params.CSVParams{
		Columns: []params.CSVColumn{
			{ID: "level", Layout: "${level}"},
			{ID: "stamp", Layout: "${when:when=x:inner=${longdate}}"},
		},
		Quote: '"',
	}
	_, log, err := layoutgrammar.ImportCSV(p)
	requireAbort(t, err)
	cond := log.OfType(importlog.ImportantFieldIsConditional)
	require.Len(t, cond, 1)
	assert.Equal(t, "stamp", cond[0].LayoutID)
}
