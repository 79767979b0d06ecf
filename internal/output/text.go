package output

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// TextFormatter prints one verdict per line, optionally prefixed with the
// item label.
type TextFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(config Config) *TextFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TextFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats every outcome of the report.
func (f *TextFormatter) Format(report *batch.Report) ([]byte, error) {
	var buf bytes.Buffer

	for i := range report.Outcomes {
		f.formatOutcome(&buf, &report.Outcomes[i])
	}

	if f.config.Verbose {
		buf.WriteString("\n")
		buf.WriteString(f.FormatSummary(report))
	}

	return buf.Bytes(), nil
}

// FormatOutcome formats a single outcome and returns it as a string.
// This can be used for streaming output.
func (f *TextFormatter) FormatOutcome(o *batch.Outcome) string {
	var buf bytes.Buffer
	f.formatOutcome(&buf, o)
	return buf.String()
}

// FormatSummary returns the one line run summary.
func (f *TextFormatter) FormatSummary(report *batch.Report) string {
	s := report.Summary
	line := fmt.Sprintf("%d checked, %d passed, %d failed", s.Total, s.Passed, s.Failed)
	if s.Errors > 0 {
		line += fmt.Sprintf(" (%d could not be validated)", s.Errors)
	}
	return line + "\n"
}

// formatOutcome writes "PASS" or "<label> -> PASS".
func (f *TextFormatter) formatOutcome(buf *bytes.Buffer, o *batch.Outcome) {
	if f.config.Verbose {
		label := o.Item.Label
		if f.colors != nil {
			label = f.colors.Label.Sprint(label)
		}
		fmt.Fprintf(buf, "%s -> ", label)
	}

	buf.WriteString(f.verdict(o.Verdict()))
	buf.WriteString("\n")
}

// verdict returns the colored verdict text.
func (f *TextFormatter) verdict(v validate.Verdict) string {
	str := v.String()
	if f.colors == nil {
		return str
	}
	if v == validate.Pass {
		return f.colors.Pass.Sprint(str)
	}
	return f.colors.Fail.Sprint(str)
}

// ContentType returns the MIME type for text output.
func (f *TextFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for text output.
func (f *TextFormatter) FileExtension() string {
	return "txt"
}

// ColorScheme defines colors for different output elements.
type ColorScheme struct {
	Pass     *color.Color
	Fail     *color.Color
	Label    *color.Color
	Checksum *color.Color
	Error    *color.Color
	Header   *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Pass:     color.New(color.FgGreen, color.Bold),
		Fail:     color.New(color.FgRed, color.Bold),
		Label:    color.New(color.FgCyan),
		Checksum: color.New(color.FgMagenta),
		Error:    color.New(color.FgYellow),
		Header:   color.New(color.FgWhite, color.Bold),
	}
}
