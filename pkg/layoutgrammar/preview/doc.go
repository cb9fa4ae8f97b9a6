// Package preview runs a generated grammar against a real log file.
//
// A Splitter cuts a stream of lines into records: every line the header
// regex matches starts a new record, other lines continue the body of the
// current one. A Watcher feeds a Splitter from a file, optionally following
// it as it grows and switching to newer files in the same directory.
//
// Typical use:
//
//	g, _, err := layoutgrammar.Import("${longdate} ${level} ${message}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, err := preview.NewWatcher(g, preview.WithPath("/var/log/app"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	records, errs, err := w.Watch(ctx)
//	...
package preview
