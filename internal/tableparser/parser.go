// =============================================================================
// SVG Badge Generator - Table Parser Module
// =============================================================================
//
// This module parses the delimited attendee table into an ordered sequence of
// records. The first row carries the column headers, every following row is
// one attendee. It handles:
//   - Different delimiters (tab by default, comma, pipe, semicolon, ...)
//   - Quoted fields with lax quoting rules
//   - Fully empty rows (skipped)
//
// A data row whose field count does not match the header is a fatal parse
// error. Exports from spreadsheet tools sometimes append empty trailing
// columns; those are tolerated as long as the extra cells are empty.
//
// =============================================================================

package tableparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// TABLE DATA STRUCTURES
// =============================================================================

// Record is one attendee row, keyed by column header. Records are never
// mutated after parsing.
type Record map[string]string

// Table represents the parsed attendee table.
type Table struct {
	// Headers contains the column headers in file order.
	Headers []string

	// Records contains the data rows in file order, one map per attendee.
	Records []Record

	// SourceFile is the path to the source table file.
	SourceFile string
}

// =============================================================================
// ERRORS
// =============================================================================

// ParseError describes a malformed table file. Row is the 1-based file row
// at fault, or 0 when the file as a whole is the problem.
type ParseError struct {
	File string
	Row  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited table file and returns the parsed data.
//
// The first row is the header row; headers are trimmed and empty trailing
// headers are dropped. Every following non-empty row becomes a Record. A row
// with a different field count than the header fails with a *ParseError.
func Parse(path string, delimiter rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = delimiter
	// Field counts are checked against the header below, with a better
	// error message than csv.ErrFieldCount produces.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: path, Msg: err.Error()}
	}

	if len(rows) == 0 {
		return nil, &ParseError{File: path, Msg: "missing header row"}
	}

	headers, err := extractHeaders(rows[0], path)
	if err != nil {
		return nil, err
	}

	records, err := extractRecords(rows, headers, path)
	if err != nil {
		return nil, err
	}

	return &Table{
		Headers:    headers,
		Records:    records,
		SourceFile: path,
	}, nil
}

// extractHeaders trims the header row and drops empty trailing columns.
// An empty header between named ones is a parse error: records are keyed by
// header, so every data-bearing column needs a name.
func extractHeaders(row []string, path string) ([]string, error) {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}

	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}

	if len(headers) == 0 {
		return nil, &ParseError{File: path, Msg: "missing header row"}
	}

	for i, h := range headers {
		if h == "" {
			return nil, &ParseError{
				File: path,
				Row:  1,
				Msg:  fmt.Sprintf("empty header in column %d", i+1),
			}
		}
	}

	return headers, nil
}

// extractRecords converts the data rows to Records, skipping fully empty
// rows and validating field counts against the header.
func extractRecords(rows [][]string, headers []string, path string) ([]Record, error) {
	records := make([]Record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1

		if isRowEmpty(row) {
			continue
		}

		// Tolerate empty trailing cells beyond the header width; spreadsheet
		// exports pad rows that way.
		for len(row) > len(headers) && strings.TrimSpace(row[len(row)-1]) == "" {
			row = row[:len(row)-1]
		}

		if len(row) != len(headers) {
			return nil, &ParseError{
				File: path,
				Row:  rowNum,
				Msg:  fmt.Sprintf("has %d fields, header has %d", len(row), len(headers)),
			}
		}

		record := make(Record, len(headers))
		for col, header := range headers {
			record[header] = strings.TrimSpace(row[col])
		}

		records = append(records, record)
	}

	return records, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// DELIMITER HANDLING
// =============================================================================

// DelimiterRune maps a delimiter setting to the rune the CSV reader expects.
// Handles aliases for common delimiters.
func DelimiterRune(s string) (rune, error) {
	switch s {
	case "", "\t", "\\t", "tab", "TAB":
		return '\t', nil
	case ",", "comma":
		return ',', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("invalid delimiter %q (want a single character or tab/comma/pipe/semicolon)", s)
}
