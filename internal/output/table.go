package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// TableFormatter formats validation reports as a detailed table.
type TableFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(config Config) *TableFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TableFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the report as a detailed table.
func (f *TableFormatter) Format(report *batch.Report) ([]byte, error) {
	var buf bytes.Buffer

	f.writeHeader(&buf, report)

	table := tablewriter.NewWriter(&buf)
	f.configureTable(table)
	table.SetHeader([]string{"#", "Item", "Source", "Destination", "Length", "Embedded", "Computed", "Verdict", "Note"})

	for i := range report.Outcomes {
		table.Append(f.formatRow(&report.Outcomes[i]))
	}

	table.Render()

	f.writeSummary(&buf, report)

	return buf.Bytes(), nil
}

// writeHeader writes the report header information.
func (f *TableFormatter) writeHeader(buf *bytes.Buffer, report *batch.Report) {
	mode := "lenient"
	if report.Strict {
		mode = "strict"
	}

	header := fmt.Sprintf("Source: %s\n", report.Source)
	header += fmt.Sprintf("Mode: %s | Time: %s\n\n", mode, report.Timestamp.Format("2006-01-02 15:04:05"))

	if f.colors != nil {
		header = f.colors.Header.Sprint(header)
	}
	buf.WriteString(header)
}

// configureTable sets up the table appearance.
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("│")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetTablePadding(" ")
}

// formatRow formats a single outcome as a table row.
func (f *TableFormatter) formatRow(o *batch.Outcome) []string {
	src, dst := addresses(o)
	embedded, computed := checksums(o)

	length := "-"
	if o.Checked {
		length = strconv.Itoa(o.Result.Length)
	}

	note := truncateString(errorText(o), 40)
	if f.colors != nil && note != "" {
		note = f.colors.Error.Sprint(note)
	}

	embedded, computed = f.formatChecksum(embedded), f.formatChecksum(computed)

	return []string{
		strconv.Itoa(o.Item.Index + 1),
		truncateString(o.Item.Label, 40),
		orDash(src),
		orDash(dst),
		length,
		embedded,
		computed,
		f.formatVerdict(o.Verdict()),
		orDash(note),
	}
}

// formatChecksum returns a checksum cell, colored when it holds a value.
func (f *TableFormatter) formatChecksum(sum string) string {
	if sum == "" {
		return "-"
	}
	if f.colors == nil {
		return sum
	}
	return f.colors.Checksum.Sprint(sum)
}

// formatVerdict returns the verdict with optional coloring.
func (f *TableFormatter) formatVerdict(v validate.Verdict) string {
	str := v.String()
	if f.colors == nil {
		return str
	}
	if v == validate.Pass {
		return f.colors.Pass.Sprint(str)
	}
	return f.colors.Fail.Sprint(str)
}

// writeSummary writes the run summary.
func (f *TableFormatter) writeSummary(buf *bytes.Buffer, report *batch.Report) {
	s := report.Summary

	buf.WriteString("\nSummary:\n")
	fmt.Fprintf(buf, "  Total:         %d\n", s.Total)
	fmt.Fprintf(buf, "  Passed:        %d\n", s.Passed)
	fmt.Fprintf(buf, "  Failed:        %d\n", s.Failed)
	fmt.Fprintf(buf, "  Errors:        %d\n", s.Errors)
	fmt.Fprintf(buf, "  Duration:      %.2f ms\n", s.DurationMs)

	buf.WriteString("  Status:        ")
	status := "All segments valid"
	if s.Failed > 0 {
		status = "Checksum failures found"
	}
	if f.colors != nil {
		if s.Failed > 0 {
			status = f.colors.Fail.Sprint(status)
		} else {
			status = f.colors.Pass.Sprint(status)
		}
	}
	buf.WriteString(status)
	buf.WriteString("\n")
}

// ContentType returns the MIME type for table output.
func (f *TableFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for table output.
func (f *TableFormatter) FileExtension() string {
	return "txt"
}
