package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/importlog"
)

var (
	errorTag   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoTag    = color.New(color.FgCyan).SprintFunc()
	linkText   = color.New(color.Underline).SprintFunc()
	layoutTag  = color.New(color.Faint).SprintFunc()
)

// printDiagnostics writes one line per message. Info messages are only
// written when verbose is set.
func printDiagnostics(w io.Writer, log *importlog.Log, verbose bool) {
	if log == nil {
		return
	}
	for _, m := range log.Messages() {
		if m.Severity == importlog.Info && !verbose {
			continue
		}
		fmt.Fprintln(w, formatMessage(m))
	}
}

// formatMessage renders a message as "severity[Type]: text", with links
// underlined and followed by the layout offsets they point at.
func formatMessage(m importlog.Message) string {
	var sb strings.Builder
	tag := fmt.Sprintf("%s[%s]", m.Severity, m.Type)
	switch m.Severity {
	case importlog.Error:
		sb.WriteString(errorTag(tag))
	case importlog.Warn:
		sb.WriteString(warningTag(tag))
	default:
		sb.WriteString(infoTag(tag))
	}
	sb.WriteString(": ")
	if m.LayoutID != "" {
		sb.WriteString(layoutTag("(" + m.LayoutID + ") "))
	}
	for _, f := range m.Fragments {
		if !f.IsLink() {
			sb.WriteString(f.Text)
			continue
		}
		sb.WriteString(linkText(f.Text))
		fmt.Fprintf(&sb, " @%d:%d", f.Link.Start, f.Link.End)
	}
	return sb.String()
}
