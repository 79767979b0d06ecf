package output

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// HTMLFormatter formats validation reports as an HTML report.
type HTMLFormatter struct {
	config   Config
	template *template.Template
}

// NewHTMLFormatter creates a new HTML formatter.
func NewHTMLFormatter(config Config) *HTMLFormatter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
	}).Parse(htmlTemplate))

	return &HTMLFormatter{
		config:   config,
		template: tmpl,
	}
}

// Format formats the report as an HTML document.
func (f *HTMLFormatter) Format(report *batch.Report) ([]byte, error) {
	data := f.prepareData(report)

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// htmlData holds the data for the HTML template.
type htmlData struct {
	Title       string
	Source      string
	Mode        string
	Timestamp   time.Time
	Rows        []htmlRow
	Summary     htmlSummary
	GeneratedAt time.Time
}

// htmlRow represents one outcome for HTML rendering.
type htmlRow struct {
	Number       int
	Label        string
	Source       string
	Destination  string
	Length       string
	Embedded     string
	Computed     string
	Verdict      string
	VerdictClass string
	Error        string
}

// htmlSummary holds summary data for HTML.
type htmlSummary struct {
	Total       int
	Passed      int
	Failed      int
	Errors      int
	Duration    string
	Status      string
	StatusClass string
}

// prepareData converts a Report to template data.
func (f *HTMLFormatter) prepareData(report *batch.Report) *htmlData {
	mode := "Lenient"
	if report.Strict {
		mode = "Strict"
	}

	data := &htmlData{
		Title:       fmt.Sprintf("TCP checksum validation of %s", report.Source),
		Source:      report.Source,
		Mode:        mode,
		Timestamp:   report.Timestamp,
		Rows:        make([]htmlRow, len(report.Outcomes)),
		GeneratedAt: time.Now(),
	}

	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		src, dst := addresses(o)
		embedded, computed := checksums(o)

		row := htmlRow{
			Number:       o.Item.Index + 1,
			Label:        o.Item.Label,
			Source:       orDash(src),
			Destination:  orDash(dst),
			Length:       "-",
			Embedded:     orDash(embedded),
			Computed:     orDash(computed),
			Verdict:      o.Verdict().String(),
			VerdictClass: verdictClass(o),
			Error:        errorText(o),
		}
		if o.Checked {
			row.Length = strconv.Itoa(o.Result.Length)
		}

		data.Rows[i] = row
	}

	s := report.Summary
	data.Summary = htmlSummary{
		Total:    s.Total,
		Passed:   s.Passed,
		Failed:   s.Failed,
		Errors:   s.Errors,
		Duration: fmt.Sprintf("%.2f ms", s.DurationMs),
	}

	if s.Failed == 0 {
		data.Summary.Status = "All segments valid"
		data.Summary.StatusClass = "success"
	} else {
		data.Summary.Status = "Checksum failures found"
		data.Summary.StatusClass = "warning"
	}

	return data
}

// verdictClass returns the CSS class for an outcome.
func verdictClass(o *batch.Outcome) string {
	switch {
	case o.Err != nil:
		return "error"
	case o.Verdict() == validate.Pass:
		return "pass"
	default:
		return "fail"
	}
}

// ContentType returns the MIME type for HTML output.
func (f *HTMLFormatter) ContentType() string {
	return "text/html"
}

// FileExtension returns the file extension for HTML output.
func (f *HTMLFormatter) FileExtension() string {
	return "html"
}

// HTML template
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - tcpvalidator Report</title>
    <style>
        :root {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --text-muted: #565f89;
            --accent: #7aa2f7;
            --success: #9ece6a;
            --warning: #e0af68;
            --error: #f7768e;
            --border: #3b4261;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
            padding: 2rem;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
        }

        header {
            text-align: center;
            margin-bottom: 2rem;
            padding-bottom: 1rem;
            border-bottom: 1px solid var(--border);
        }

        h1 {
            color: var(--accent);
            font-size: 1.8rem;
            margin-bottom: 0.5rem;
        }

        .subtitle {
            color: var(--text-muted);
            font-size: 0.9rem;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            background: var(--bg-secondary);
            border-radius: 8px;
            overflow: hidden;
            margin-bottom: 2rem;
        }

        th, td {
            padding: 0.75rem 1rem;
            text-align: left;
            border-bottom: 1px solid var(--border);
        }

        th {
            background: var(--bg-tertiary);
            color: var(--text-secondary);
            font-weight: 600;
            font-size: 0.85rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
        }

        .mono {
            font-family: 'Monaco', 'Menlo', monospace;
        }

        .verdict { font-weight: 600; }
        .verdict.pass { color: var(--success); }
        .verdict.fail { color: var(--error); }
        .verdict.error { color: var(--warning); }

        .note {
            color: var(--text-muted);
            font-size: 0.85rem;
        }

        .summary {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
            gap: 1rem;
            background: var(--bg-secondary);
            padding: 1.5rem;
            border-radius: 8px;
            border: 1px solid var(--border);
        }

        .summary-item {
            text-align: center;
        }

        .summary-item .value {
            font-size: 1.5rem;
            font-weight: 600;
            color: var(--accent);
        }

        .summary-item .label {
            color: var(--text-muted);
            font-size: 0.8rem;
            text-transform: uppercase;
        }

        .status.success { color: var(--success); }
        .status.warning { color: var(--warning); }

        footer {
            text-align: center;
            margin-top: 2rem;
            color: var(--text-muted);
            font-size: 0.8rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{.Title}}</h1>
            <p class="subtitle">{{.Mode}} mode | started {{formatTime .Timestamp}}</p>
        </header>

        <table>
            <thead>
                <tr>
                    <th>#</th>
                    <th>Item</th>
                    <th>Source</th>
                    <th>Destination</th>
                    <th>Length</th>
                    <th>Embedded</th>
                    <th>Computed</th>
                    <th>Verdict</th>
                </tr>
            </thead>
            <tbody>
                {{range .Rows}}
                <tr>
                    <td>{{.Number}}</td>
                    <td>{{.Label}}{{if .Error}}<div class="note">{{.Error}}</div>{{end}}</td>
                    <td class="mono">{{.Source}}</td>
                    <td class="mono">{{.Destination}}</td>
                    <td>{{.Length}}</td>
                    <td class="mono">{{.Embedded}}</td>
                    <td class="mono">{{.Computed}}</td>
                    <td class="verdict {{.VerdictClass}}">{{.Verdict}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <div class="summary">
            <div class="summary-item">
                <div class="value">{{.Summary.Total}}</div>
                <div class="label">Total Segments</div>
            </div>
            <div class="summary-item">
                <div class="value">{{.Summary.Passed}}</div>
                <div class="label">Passed</div>
            </div>
            <div class="summary-item">
                <div class="value">{{.Summary.Failed}}</div>
                <div class="label">Failed</div>
            </div>
            <div class="summary-item">
                <div class="value">{{.Summary.Errors}}</div>
                <div class="label">Errors</div>
            </div>
            <div class="summary-item">
                <div class="value">{{.Summary.Duration}}</div>
                <div class="label">Duration</div>
            </div>
            <div class="summary-item">
                <div class="value status {{.Summary.StatusClass}}">{{.Summary.Status}}</div>
                <div class="label">Status</div>
            </div>
        </div>

        <footer>
            Generated {{formatTime .GeneratedAt}} from {{.Source}}
        </footer>
    </div>
</body>
</html>
`
