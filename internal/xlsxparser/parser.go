// =============================================================================
// Payment Auditor - XLSX Parser
// =============================================================================
//
// This module reads a payment ledger from an Excel workbook. The first row of
// the sheet is the header; every following non-empty row is a payment.
//
// CELL TYPES:
//
//   | Stored in the workbook                 | Loaded as |
//   |----------------------------------------|-----------|
//   | shared / inline string, formula string | Text      |
//   | number with a date number format       | Date      |
//   | any other number                       | Number    |
//   | ISO date cell (t="d")                  | Date      |
//   | boolean                                | Text      |
//   | empty                                  | Missing   |
//
// Numeric-looking strings such as invoice "00123" stay Text, so leading
// zeros survive.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

var (
	// ErrEmptySheet is returned when the sheet has no header row.
	ErrEmptySheet = errors.New("sheet is empty")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a sheet from an xlsx file.
//
// PARAMETERS:
//   - path: The workbook path.
//   - sheet: The sheet name, or "" for the first sheet.
//
// RETURNS:
//   - The dataset, with Source set to path.
//   - An error if the workbook cannot be opened or the sheet read.
func Parse(path, sheet string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds, err := parseFile(f, sheet)
	if err != nil {
		return nil, err
	}
	ds.Source = path

	return ds, nil
}

// ParseReader reads a sheet from a workbook held in r.
func ParseReader(r io.Reader, sheet string) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, sheet)
}

// Sheets lists the sheet names of a workbook in tab order.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// parseFile loads one sheet of an open workbook.
func parseFile(f *excelize.File, sheet string) (*dataset.Dataset, error) {
	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("%w: %q has no header row", ErrEmptySheet, sheetName)
	}

	ds := dataset.New(rows[0])
	columns := ds.Columns()
	reader := &cellReader{f: f, sheet: sheetName, dateStyles: make(map[int]bool)}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		line := i + 1
		values := make([]dataset.Value, len(columns))
		for col := range columns {
			raw := ""
			if col < len(row) {
				raw = row[col]
			}
			v, err := reader.value(col+1, line, raw)
			if err != nil {
				return nil, err
			}
			values[col] = v
		}

		if err := ds.AppendValues(line, values...); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
	}

	return ds, nil
}

// resolveSheet returns the requested sheet name, or the first sheet.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrSheetNotFound
	}
	if sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(name, sheet) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
}

// =============================================================================
// CELL CONVERSION
// =============================================================================

// cellReader converts raw cell values, caching the date check per style.
type cellReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (r *cellReader) value(col, row int, raw string) (dataset.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return dataset.Missing(), nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return dataset.Missing(), err
	}

	cellType, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return dataset.Missing(), fmt.Errorf("cell %s: %w", cell, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return dataset.Text(strings.TrimSpace(raw)), nil
	case excelize.CellTypeBool:
		if raw == "1" {
			return dataset.Text("TRUE"), nil
		}
		return dataset.Text("FALSE"), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return dataset.Date(t), nil
		}
		return dataset.Text(raw), nil
	}

	num, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return dataset.Text(strings.TrimSpace(raw)), nil
	}

	isDate, err := r.isDateStyled(cell)
	if err != nil {
		return dataset.Missing(), err
	}
	if isDate {
		serial, _ := num.Float64()
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return dataset.Date(t), nil
		}
	}

	return dataset.Number(num), nil
}

func (r *cellReader) isDateStyled(cell string) (bool, error) {
	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("cell %s: %w", cell, err)
	}
	if isDate, ok := r.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := r.f.GetStyle(styleID)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", styleID, err)
	}

	isDate := IsDateFormat(style)
	r.dateStyles[styleID] = isDate
	return isDate, nil
}

// IsDateFormat reports whether a cell style displays numbers as dates.
// Built-in formats 14-22 and 45-47 are date and time formats; a custom
// format is a date format when it has a year or day token outside quoted
// literals and bracketed sections.
func IsDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return customFormatHasDate(*style.CustomNumFmt)
	}
	n := style.NumFmt
	return (n >= 14 && n <= 22) || (n >= 45 && n <= 47)
}

func customFormatHasDate(format string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
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
