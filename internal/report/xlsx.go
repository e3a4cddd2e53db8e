package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

// SummarySheet is the first sheet of the workbook report.
const SummarySheet = "Resumen"

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// WriteXLSX writes the result set as a workbook: a summary sheet with one
// line per rule, then one sheet per rule holding its flagged rows.
func WriteXLSX(w io.Writer, rs *audit.ResultSet, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummary(f, styles, rs, meta); err != nil {
		return err
	}

	used := map[string]bool{strings.ToLower(SummarySheet): true}
	for _, r := range rs.Results {
		name := SheetName(r.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := writeRuleSheet(f, styles, name, rs.Columns, r); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

type workbookStyles struct {
	header int
	date   int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	dateFormat := "yyyy-mm-dd"
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("failed to create date style: %w", err)
	}

	return workbookStyles{header: header, date: date}, nil
}

func writeSummary(f *excelize.File, styles workbookStyles, rs *audit.ResultSet, meta Meta) error {
	rows := [][]interface{}{
		{"Regla", "Registros", "Observación"},
	}
	for _, r := range rs.Results {
		note := "OK"
		switch {
		case r.Err != nil:
			note = "Error: " + r.Err.Error()
		case r.Count() > 0:
			note = "Revisar"
		}
		rows = append(rows, []interface{}{r.Name, r.Count(), note})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Archivo", meta.Source},
		[]interface{}{"Año fiscal", meta.FiscalYear},
		[]interface{}{"Ventana", rs.Window.String()},
		[]interface{}{"Ejecución", meta.RunID.String()},
		[]interface{}{"Generado", meta.GeneratedAt.Format("2006-01-02 15:04:05")},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SetCellStyle(SummarySheet, "A1", "C1", styles.header); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "C", 34)
}

func writeRuleSheet(f *excelize.File, styles workbookStyles, sheet string, columns []string, r audit.RuleResult) error {
	headers := make([]interface{}, 0, len(columns)+1)
	headers = append(headers, "Línea")
	for _, col := range columns {
		headers = append(headers, header(col))
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}

	if r.Err != nil {
		return f.SetCellValue(sheet, "A2", "Error: "+r.Err.Error())
	}
	if r.Count() == 0 {
		return f.SetCellValue(sheet, "A2", NoIssues)
	}

	for i, row := range r.Rows {
		excelRow := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, excelRow)
		if err := f.SetCellValue(sheet, cell, row.Line); err != nil {
			return err
		}
		for j, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(j+2, excelRow)
			if err := setValue(f, styles, sheet, cell, row.Get(col)); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}

	return f.SetColWidth(sheet, "A", lastCol, 16)
}

// setValue writes a cell keeping its type, so amounts stay numeric and
// dates stay dates in the workbook.
func setValue(f *excelize.File, styles workbookStyles, sheet, cell string, v dataset.Value) error {
	switch v.Kind() {
	case dataset.KindMissing:
		return nil
	case dataset.KindNumber:
		d, _ := v.AsNumber()
		return f.SetCellValue(sheet, cell, d.InexactFloat64())
	case dataset.KindDate:
		t, _ := v.AsDate()
		if err := f.SetCellValue(sheet, cell, t); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, styles.date)
	default:
		return f.SetCellValue(sheet, cell, v.String())
	}
}

// SheetName turns a rule name into a valid, unused sheet name: characters
// Excel forbids are replaced, the name is cut to 31 characters and a
// numeric suffix is added on collision. The chosen name is recorded in used
// (lowercased, since Excel compares sheet names case-insensitively).
func SheetName(name string, used map[string]bool) string {
	clean := strings.NewReplacer(
		"[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", "\\", "-",
	).Replace(strings.TrimSpace(name))
	if clean == "" {
		clean = "Regla"
	}

	candidate := truncateRunes(clean, maxSheetName)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(clean, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}

	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
