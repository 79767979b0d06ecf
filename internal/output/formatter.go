// Package output provides formatting and output functionality for
// validation reports.
package output

import (
	"fmt"
	"strings"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
)

// Format represents the output format type.
type Format int

const (
	// FormatText is the classic one verdict per line output
	FormatText Format = iota
	// FormatVerbose is the detailed table output
	FormatVerbose
	// FormatJSON is JSON output
	FormatJSON
	// FormatCSV is CSV output
	FormatCSV
	// FormatHTML is HTML report output
	FormatHTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatVerbose:
		return "table"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as used in the config file.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "table", "verbose":
		return FormatVerbose, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q", name)
	}
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format converts a Report to formatted output bytes.
	Format(report *batch.Report) ([]byte, error)

	// ContentType returns the MIME type for the output.
	ContentType() string

	// FileExtension returns the typical file extension for the output.
	FileExtension() string
}

// Config holds configuration for formatters.
type Config struct {
	// Colors enables ANSI color output
	Colors bool

	// Verbose prints the item label next to each verdict in text output
	Verbose bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Colors: true,
	}
}

// NewFormatter creates a formatter based on the specified format.
func NewFormatter(format Format, config Config) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter(config)
	case FormatVerbose:
		return NewTableFormatter(config)
	case FormatJSON:
		return NewJSONFormatter(config)
	case FormatCSV:
		return NewCSVFormatter(config)
	case FormatHTML:
		return NewHTMLFormatter(config)
	default:
		return NewTextFormatter(config)
	}
}

// Helper functions

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04x", v)
}

// checksums returns the embedded and computed values, or empty strings when
// the item could not be checked.
func checksums(o *batch.Outcome) (embedded, computed string) {
	if !o.Checked || o.Err != nil {
		return "", ""
	}
	return hex16(o.Result.Embedded), hex16(o.Result.Computed)
}

// addresses returns the parsed source and destination, or empty strings.
func addresses(o *batch.Outcome) (src, dst string) {
	if !o.Checked {
		return "", ""
	}
	return o.Result.Source.String(), o.Result.Destination.String()
}

func errorText(o *batch.Outcome) string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// orDash replaces an empty string with "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
