package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
)

// CSVFormatter formats validation reports as CSV.
type CSVFormatter struct {
	config  Config
	columns []string
}

// Default CSV columns
var defaultCSVColumns = []string{
	"index", "label", "addr_file", "data_file", "source_ip", "destination_ip",
	"length", "embedded_checksum", "computed_checksum", "verdict", "error",
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(config Config) *CSVFormatter {
	return &CSVFormatter{
		config:  config,
		columns: defaultCSVColumns,
	}
}

// Format formats the report as CSV.
func (f *CSVFormatter) Format(report *batch.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(f.columns); err != nil {
		return nil, err
	}

	for i := range report.Outcomes {
		if err := writer.Write(f.formatRow(&report.Outcomes[i])); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatRow formats a single outcome as a CSV row.
func (f *CSVFormatter) formatRow(o *batch.Outcome) []string {
	row := make([]string, len(f.columns))

	for i, col := range f.columns {
		row[i] = f.getValue(o, col)
	}

	return row
}

// getValue returns the value for a specific column.
func (f *CSVFormatter) getValue(o *batch.Outcome, column string) string {
	switch column {
	case "index":
		return strconv.Itoa(o.Item.Index)

	case "label":
		return o.Item.Label

	case "addr_file":
		return o.Item.AddrFile

	case "data_file":
		return o.Item.DataFile

	case "source_ip":
		src, _ := addresses(o)
		return src

	case "destination_ip":
		_, dst := addresses(o)
		return dst

	case "length":
		if o.Checked {
			return strconv.Itoa(o.Result.Length)
		}
		return ""

	case "embedded_checksum":
		embedded, _ := checksums(o)
		return embedded

	case "computed_checksum":
		_, computed := checksums(o)
		return computed

	case "verdict":
		return o.Verdict().String()

	case "error":
		return errorText(o)

	default:
		return ""
	}
}

// ContentType returns the MIME type for CSV output.
func (f *CSVFormatter) ContentType() string {
	return "text/csv"
}

// FileExtension returns the file extension for CSV output.
func (f *CSVFormatter) FileExtension() string {
	return "csv"
}
