package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// ContentType is the MIME type served for rendered CSV exports.
const ContentType = "text/csv"

// Dataset is tabular export content. Rows are keyed by header name so
// callers can build them without tracking column order; missing cells
// render empty.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders datasets such as class broadsheets into CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV bytes for a dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := e.RenderTo(buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo streams the dataset as CSV to w.
func (e *CSVExporter) RenderTo(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("csv requires at least one header")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
