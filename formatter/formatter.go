// Package formatter renders diagnostics as colored, rustc-style console
// reports with a source snippet and an underline for the flagged range.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/nasalint/nasalint/internal"
	tt "github.com/nasalint/nasalint/internal/types"
)

const tabWidth = 8

var (
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	codeStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

const reportTemplate = `{{header .Code .Filename .StartLine .StartColumn .MaxLineNumWidth}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .Padding}}{{underline .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines}}
`

type reportData struct {
	Code            string
	Filename        string
	Message         string
	StartLine       int // 1-based
	StartColumn     int // 1-based
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Padding         string
	SnippetLines    []string
}

// GenerateFormattedReport renders every diagnostic of one file.
func GenerateFormattedReport(path string, diags []tt.Diagnostic, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(buildReport(path, d, snippet))
	}
	return builder.String()
}

func buildReport(path string, d tt.Diagnostic, snippet *internal.SourceCode) string {
	startLine := d.Range.Start.Line + 1
	endLine := d.Range.End.Line + 1
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine))

	data := reportData{
		Code:            d.Code,
		Filename:        path,
		Message:         d.Message,
		StartLine:       startLine,
		StartColumn:     d.Range.Start.Character + 1,
		EndLine:         endLine,
		EndColumn:       d.Range.End.Character + 1,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		SnippetLines:    snippet.Lines,
	}

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   codeSnippet,
		"underline": underlineAndMessage,
	}

	tmpl := template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("error formatting diagnostic: %v\n", err)
	}
	return buf.String()
}

func header(code, filename string, startLine, startColumn, maxLineNumWidth int) string {
	out := warningStyle.Sprint("warning: ")
	out += codeStyle.Sprintf("%s\n", code)
	out += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	out += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	return out
}

func codeSnippet(lines []string, startLine, endLine, maxLineNumWidth int, padding string) string {
	out := lineStyle.Sprintf("%s|\n", padding)
	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(lines) {
			continue
		}
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		out += lineStyle.Sprintf("%s | ", lineNum)
		out += fmt.Sprintf("%s\n", lines[i-1])
	}
	return out
}

func underlineAndMessage(message, padding string, startLine, endLine, startColumn, endColumn int, lines []string) string {
	out := lineStyle.Sprintf("%s| ", padding)

	if startLine < 1 || startLine > len(lines) {
		out += messageStyle.Sprintf("%s\n", message)
		return out
	}

	underlineStart := visualColumn(lines[startLine-1], startColumn)
	underlineEnd := visualColumn(lines[startLine-1], endColumn)
	if endLine > startLine {
		// multi-line range: underline to the end of the first line
		underlineEnd = visualColumn(lines[startLine-1], len(lines[startLine-1])+1)
	}
	width := underlineEnd - underlineStart
	if width < 1 {
		width = 1
	}

	out += strings.Repeat(" ", underlineStart)
	out += messageStyle.Sprintf("%s\n", strings.Repeat("~", width))
	out += lineStyle.Sprintf("%s= ", padding)
	out += messageStyle.Sprintf("%s\n", message)
	return out
}

// visualColumn expands tabs when computing the on-screen offset of a
// 1-based column.
func visualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visual := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual
}
