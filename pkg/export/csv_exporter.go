package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Record is one parsed CSV data row keyed by header.
type Record struct {
	Line   int
	Fields map[string]string
}

// RowError describes a CSV row that could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// CSVExporter renders Dataset records into CSV bytes and parses them back.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse reads a CSV stream whose first line is a header. Data rows are mapped
// positionally onto columns; rows with fewer fields than columns, or that the
// CSV reader rejects, are returned as RowErrors instead of failing the parse.
// Blank lines are skipped.
func (e *CSVExporter) Parse(r io.Reader, columns []string) ([]Record, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	var (
		records []Record
		rowErrs []RowError
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, RowError{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return records, rowErrs, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(fields) < len(columns) {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("insufficient data fields: want %d, got %d", len(columns), len(fields))})
			continue
		}
		record := Record{Line: line, Fields: make(map[string]string, len(columns))}
		for i, column := range columns {
			record.Fields[column] = strings.TrimSpace(fields[i])
		}
		records = append(records, record)
	}
	return records, rowErrs, nil
}
