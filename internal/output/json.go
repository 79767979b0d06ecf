package output

import (
	"encoding/json"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
)

// JSONFormatter formats validation reports as JSON.
type JSONFormatter struct {
	config Config
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: true, // Default to pretty-printed
	}
}

// NewJSONFormatterCompact creates a JSON formatter with compact output.
func NewJSONFormatterCompact(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: false,
	}
}

// Format formats the report as JSON.
func (f *JSONFormatter) Format(report *batch.Report) ([]byte, error) {
	output := f.toJSONOutput(report)

	if f.pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

// JSONOutput is the JSON-serializable representation of a report.
type JSONOutput struct {
	Source    string       `json:"source"`
	Timestamp string       `json:"timestamp"`
	Strict    bool         `json:"strict"`
	Results   []JSONResult `json:"results"`
	Summary   JSONSummary  `json:"summary"`
}

// JSONResult represents the validation of a single segment.
type JSONResult struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	AddrFile    string `json:"addr_file,omitempty"`
	DataFile    string `json:"data_file,omitempty"`
	Source      string `json:"source_ip,omitempty"`
	Destination string `json:"destination_ip,omitempty"`
	Length      int    `json:"length,omitempty"`
	Embedded    string `json:"embedded_checksum,omitempty"`
	Computed    string `json:"computed_checksum,omitempty"`
	Verdict     string `json:"verdict"`
	Error       string `json:"error,omitempty"`
}

// JSONSummary represents the run summary in JSON format.
type JSONSummary struct {
	Total      int     `json:"total"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Errors     int     `json:"errors"`
	DurationMs float64 `json:"duration_ms"`
}

// toJSONOutput converts a Report to JSONOutput.
func (f *JSONFormatter) toJSONOutput(report *batch.Report) *JSONOutput {
	output := &JSONOutput{
		Source:    report.Source,
		Timestamp: report.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Strict:    report.Strict,
		Results:   make([]JSONResult, len(report.Outcomes)),
		Summary: JSONSummary{
			Total:      report.Summary.Total,
			Passed:     report.Summary.Passed,
			Failed:     report.Summary.Failed,
			Errors:     report.Summary.Errors,
			DurationMs: roundFloat(report.Summary.DurationMs, 3),
		},
	}

	for i := range report.Outcomes {
		output.Results[i] = f.toJSONResult(&report.Outcomes[i])
	}

	return output
}

// toJSONResult converts an Outcome to JSONResult.
func (f *JSONFormatter) toJSONResult(o *batch.Outcome) JSONResult {
	jr := JSONResult{
		Index:    o.Item.Index,
		Label:    o.Item.Label,
		AddrFile: o.Item.AddrFile,
		DataFile: o.Item.DataFile,
		Verdict:  o.Verdict().String(),
		Error:    errorText(o),
	}

	jr.Source, jr.Destination = addresses(o)
	jr.Embedded, jr.Computed = checksums(o)
	if o.Checked {
		jr.Length = o.Result.Length
	}

	return jr
}

// ContentType returns the MIME type for JSON output.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// FileExtension returns the file extension for JSON output.
func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// Helper function to round floats
func roundFloat(val float64, precision int) float64 {
	if precision == 0 {
		return float64(int(val + 0.5))
	}
	p := float64(1)
	for i := 0; i < precision; i++ {
		p *= 10
	}
	return float64(int(val*p+0.5)) / p
}
