package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRunImport_XML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := importOptions{source: grammarSource{layout: "${longdate}|${level}|${message}"}, output: "xml"}
	if err := runImport(opts, &stdout, &stderr, newLogger(io.Discard, false)); err != nil {
		t.Fatalf("runImport() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "<regular-grammar>") {
		t.Errorf("stdout = %q, want XML grammar", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want no diagnostics", stderr.String())
	}
}

func TestRunImport_YAMLFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	data := "version: 1\nkind: plain\nlayout: \"${longdate} ${message}\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	opts := importOptions{source: grammarSource{config: path}, output: "yaml"}
	if err := runImport(opts, &stdout, &stderr, newLogger(io.Discard, false)); err != nil {
		t.Fatalf("runImport() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "head-re:") {
		t.Errorf("stdout = %q, want YAML grammar", stdout.String())
	}
}

func TestRunImport_Abort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := importOptions{source: grammarSource{layout: "${message}"}, output: "xml"}
	err := runImport(opts, &stdout, &stderr, newLogger(io.Discard, false))

	var abort *importlog.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("runImport() error = %v, want *importlog.AbortError", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "error[FirstRegexIsNotSpecific]: ") {
		t.Errorf("stderr = %q, want the error diagnostic", stderr.String())
	}
}

func TestRunImport_Strict(t *testing.T) {
	opts := importOptions{source: grammarSource{layout: "${longdate} ${foo} ${message}"}, output: "xml"}

	var stdout, stderr bytes.Buffer
	if err := runImport(opts, &stdout, &stderr, newLogger(io.Discard, false)); err != nil {
		t.Fatalf("runImport() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "warning[UnknownRenderer]: Unknown renderer ${foo} @12:18") {
		t.Errorf("stderr = %q, want the warning", stderr.String())
	}

	opts.strict = true
	stdout.Reset()
	if err := runImport(opts, &stdout, io.Discard, newLogger(io.Discard, false)); !errors.Is(err, errStrictWarnings) {
		t.Errorf("runImport() error = %v, want errStrictWarnings", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty in strict mode", stdout.String())
	}
}

func TestRunImport_BadInput(t *testing.T) {
	tests := []struct {
		name string
		opts importOptions
		want string
	}{
		{"no source", importOptions{output: "xml"}, "--layout or --config"},
		{"bad output", importOptions{source: grammarSource{layout: "${longdate}"}, output: "toml"}, "unknown output format"},
		{"missing config", importOptions{source: grammarSource{config: filepath.Join(t.TempDir(), "none.yaml")}, output: "xml"}, "loading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runImport(tt.opts, io.Discard, io.Discard, newLogger(io.Discard, false))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("runImport() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFormatMessage(t *testing.T) {
	log := importlog.New()
	restore := log.PushLayoutID("level")
	log.Warning(importlog.RendererIgnored).Text("Renderer ").Link("${level}", 3, 11).Text(" is ignored").Emit()
	restore()

	got := formatMessage(log.Messages()[0])
	want := "warning[RendererIgnored]: (level) Renderer ${level} @3:11 is ignored"
	if got != want {
		t.Errorf("formatMessage() = %q, want %q", got, want)
	}
}

func TestPrintDiagnostics_HidesInfoUnlessVerbose(t *testing.T) {
	log := importlog.New()
	log.Info(importlog.RendererUsageReport).Text("used").Emit()

	var buf bytes.Buffer
	printDiagnostics(&buf, log, false)
	if buf.Len() != 0 {
		t.Errorf("printDiagnostics() = %q, want nothing", buf.String())
	}
	printDiagnostics(&buf, log, true)
	if !strings.Contains(buf.String(), "info[RendererUsageReport]: used") {
		t.Errorf("printDiagnostics() = %q", buf.String())
	}
}
