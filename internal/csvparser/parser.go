// =============================================================================
// Payment Auditor - CSV Parser Module
// =============================================================================
//
// This module reads payment ledgers exported as delimited text and turns
// them into a Dataset. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Multi-line headers
//   - Custom data start rows
//   - Latin-1 and Windows-1252 exports, and a leading UTF-8 BOM
//
// Every non-empty cell is loaded as Text. Typing (amounts, dates) is left to
// the audit engine, so a malformed cell is reported there rather than
// failing the load.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("CSV file is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its rows as a Dataset.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The dataset, with Source set to filePath.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*dataset.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	ds.Source = filePath

	return ds, nil
}

// ParseReader reads CSV from r.
//
// PARSING PROCESS:
//   1. Decode the configured encoding to UTF-8
//   2. Read the header rows and merge them
//   3. Skip to the data start row
//   4. Load each non-empty record, remembering its line number
func ParseReader(r io.Reader, settings config.CSVSettings) (*dataset.Dataset, error) {
	decoded, err := decode(r, settings)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(decoded))
	configureReader(csvReader, settings)

	headerRows := make([][]string, 0, settings.HeaderRows)
	for len(headerRows) < max(settings.HeaderRows, 1) {
		record, err := csvReader.Read()
		if err == io.EOF {
			if len(headerRows) == 0 {
				return nil, ErrEmptyFile
			}
			return nil, fmt.Errorf("unexpected end of file while reading headers")
		}
		if err != nil {
			return nil, fmt.Errorf("error reading header row %d: %w", len(headerRows)+1, err)
		}
		headerRows = append(headerRows, record)
	}

	headers, err := extractHeaders(headerRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	ds := dataset.New(headers)
	columns := ds.Columns()

	startLine := settings.DataStartRow
	if startLine <= settings.HeaderRows {
		startLine = settings.HeaderRows + 1
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := csvReader.FieldPos(0)
		if line < startLine || isRowEmpty(record) {
			continue
		}

		values := make([]dataset.Value, len(columns))
		for i := range columns {
			values[i] = dataset.Missing()
			if i < len(record) {
				values[i] = cell(record[i])
			}
		}

		if err := ds.AppendValues(line, values...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return ds, nil
}

// decode wraps r so it yields UTF-8.
func decode(r io.Reader, settings config.CSVSettings) (io.Reader, error) {
	enc, err := settings.Decoder()
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = settings.Comma()

	// Ledgers exported by hand often have ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders merges the header rows into one label per column.
//
// MULTI-LINE HEADER HANDLING:
//   Non-empty values of a column are joined with a space.
//
//   Row 1: "Factura", "",      "Fecha", ""
//   Row 2: "Número",  "Monto", "Pago",  "Estado"
//   Result: "Factura Número", "Monto", "Fecha Pago", "Estado"
func extractHeaders(headerRows [][]string) ([]string, error) {
	if len(headerRows) == 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}

	if len(headerRows) == 1 {
		return headerRows[0], nil
	}

	maxCols := 0
	for _, row := range headerRows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for _, row := range headerRows {
			if col < len(row) {
				if value := strings.TrimSpace(row[col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return headers, nil
}

// cell converts one raw field. Blank fields are Missing.
func cell(raw string) dataset.Value {
	value := strings.TrimSpace(raw)
	if value == "" {
		return dataset.Missing()
	}
	return dataset.Text(value)
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
