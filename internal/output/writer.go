package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
)

// Writer formats reports and writes them to an output stream.
type Writer struct {
	formatter Formatter
	output    io.Writer
}

// NewWriterWithFormatter creates a writer with a specific formatter.
func NewWriterWithFormatter(formatter Formatter, output io.Writer) *Writer {
	return &Writer{
		formatter: formatter,
		output:    output,
	}
}

// Write formats and writes the report.
func (w *Writer) Write(report *batch.Report) error {
	data, err := w.formatter.Format(report)
	if err != nil {
		return err
	}

	_, err = w.output.Write(data)
	return err
}

// IsTerminal checks if the given file is a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteToFile writes the report to a file.
func WriteToFile(report *batch.Report, filename string, formatter Formatter) error {
	data, err := formatter.Format(report)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
