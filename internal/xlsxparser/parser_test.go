package xlsxparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

// writeLedger saves a small payment workbook and returns its path.
func writeLedger(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Proveedor", "Monto", "Nº Factura", "Fecha pago", "Estado"}))

	require.NoError(t, f.SetCellValue(sheet, "A2", "ACME"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 100.5))
	require.NoError(t, f.SetCellValue(sheet, "C2", "00123"))
	require.NoError(t, f.SetCellValue(sheet, "D2", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "E2", "Activo"))

	// Row 3 left empty.

	require.NoError(t, f.SetCellValue(sheet, "A4", "Globex"))
	require.NoError(t, f.SetCellValue(sheet, "B4", -20))
	require.NoError(t, f.SetCellValue(sheet, "C4", "F-2"))
	require.NoError(t, f.SetCellValue(sheet, "D4", 45658))
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "D4", "D4", dateStyle))

	require.NoError(t, f.SetCellValue(sheet, "A5", "Initech"))
	require.NoError(t, f.SetCellValue(sheet, "B5", "n/d"))
	require.NoError(t, f.SetCellValue(sheet, "D5", "15/02/2025"))

	_, err = f.NewSheet("Pagos 2024")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Pagos 2024", "A1", &[]interface{}{"Proveedor", "Monto"}))
	require.NoError(t, f.SetSheetRow("Pagos 2024", "A2", &[]interface{}{"Umbrella", 5}))

	_, err = f.NewSheet("Vacía")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pagos.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseFirstSheet(t *testing.T) {
	path := writeLedger(t)

	ds, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, path, ds.Source)
	assert.Equal(t, []string{"Proveedor", "Monto", "Nº Factura", "Fecha pago", "Estado"}, ds.Columns())
	require.Equal(t, 3, ds.Len(), "empty rows are skipped")
	assert.Equal(t, []int{2, 4, 5}, []int{ds.Row(0).Line, ds.Row(1).Line, ds.Row(2).Line})

	first := ds.Row(0)
	assert.Equal(t, dataset.Text("ACME"), first.Get("Proveedor"))
	assert.Equal(t, dataset.KindNumber, first.Get("Monto").Kind())
	assert.Equal(t, "100.5", first.Get("Monto").String())
	assert.Equal(t, dataset.Text("00123"), first.Get("Nº Factura"), "numeric-looking strings stay text")

	date, ok := first.Get("Fecha pago").AsDate()
	require.True(t, ok, "time values are stored with a date format")
	assert.Equal(t, "2025-03-01", date.Format("2006-01-02"))

	second := ds.Row(1)
	assert.Equal(t, "-20", second.Get("Monto").String())
	date, ok = second.Get("Fecha pago").AsDate()
	require.True(t, ok, "serial with a built-in date format")
	assert.Equal(t, "2025-01-01", date.Format("2006-01-02"))

	third := ds.Row(2)
	assert.Equal(t, dataset.Text("n/d"), third.Get("Monto"))
	assert.True(t, third.Get("Nº Factura").IsMissing())
	assert.Equal(t, dataset.Text("15/02/2025"), third.Get("Fecha pago"))
	assert.True(t, third.Get("Estado").IsMissing())
}

func TestParseNamedSheet(t *testing.T) {
	path := writeLedger(t)

	ds, err := Parse(path, "pagos 2024")
	require.NoError(t, err)

	assert.Equal(t, []string{"Proveedor", "Monto"}, ds.Columns())
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "5", ds.Row(0).Get("Monto").String())
}

func TestParseSheetErrors(t *testing.T) {
	path := writeLedger(t)

	_, err := Parse(path, "Resumen")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = Parse(path, "Vacía")
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Parse(filepath.Join(t.TempDir(), "none.xlsx"), "")
	assert.Error(t, err)
}

func TestParseReader(t *testing.T) {
	path := writeLedger(t)
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	ds, err := ParseReader(file, "")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestSheets(t *testing.T) {
	sheets, err := Sheets(writeLedger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Pagos 2024", "Vacía"}, sheets)
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name  string
		style *excelize.Style
		want  bool
	}{
		{"nil", nil, false},
		{"general", &excelize.Style{NumFmt: 0}, false},
		{"thousands", &excelize.Style{NumFmt: 4}, false},
		{"short date", &excelize.Style{NumFmt: 14}, true},
		{"date time", &excelize.Style{NumFmt: 22}, true},
		{"custom day first", &excelize.Style{CustomNumFmt: custom("dd/mm/yyyy")}, true},
		{"custom money", &excelize.Style{CustomNumFmt: custom(`"$"#,##0.00`)}, false},
		{"quoted days", &excelize.Style{CustomNumFmt: custom(`0 "days"`)}, false},
		{"colour section", &excelize.Style{CustomNumFmt: custom("[Red]0.00")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateFormat(tt.style))
		})
	}
}
