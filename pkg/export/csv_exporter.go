package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Rows are keyed by header name so a
// renderer can reorder or drop columns without touching the producer.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// ForceQuoted lists headers whose values are always quoted in CSV output,
	// matching the legacy report layout where free-text columns carry quotes
	// even when empty.
	ForceQuoted []string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. encoding/csv is not used
// here because it cannot force-quote selected columns.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	forced := make(map[string]bool, len(data.ForceQuoted))
	for _, h := range data.ForceQuoted {
		forced[h] = true
	}

	buf := &bytes.Buffer{}
	writeRecord(buf, data.Headers, nil)
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		writeRecord(buf, record, func(i int) bool { return forced[data.Headers[i]] })
	}
	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, fields []string, forceQuote func(int) bool) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(encodeField(field, forceQuote != nil && forceQuote(i)))
	}
	buf.WriteByte('\n')
}

func encodeField(value string, force bool) string {
	if force || strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
