// Package layoutgrammar converts NLog layouts into regular grammars: a
// header regex with named captures plus small extraction expressions for
// the Time, Severity, Thread and Body fields of each log message.
//
// # Basic Usage
//
//	g, log, err := layoutgrammar.Import("${longdate}|${level}|${message}")
//	for _, m := range log.Messages() {
//	    fmt.Printf("%s: %s\n", m.Severity, m.Text())
//	}
//	if err != nil {
//	    return err
//	}
//	out, _ := g.XML()
//
// The diagnostics log is returned even when the import fails; it explains
// which renderers were used for which field and which were ignored.
//
// # CSV and JSON layouts
//
// [ImportCSV] and [ImportJSON] take the column or attribute structure of
// CSV and JSON layouts. Values are matched as they are written through the
// quoting or JSON string encoding, and the extraction code unescapes them
// with CSV_UNESCAPE or JSON_UNESCAPE.
//
// # Parameter files
//
// The [params] subpackage loads layouts from versioned YAML files:
//
//	f, err := params.Load("layout.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, diag, err := layoutgrammar.ImportFile(f)
//
// # Previewing
//
// [Grammar.Compile] turns the header into a Go regexp, which the
// layoutgrammar command uses to split real log files into messages.
package layoutgrammar
