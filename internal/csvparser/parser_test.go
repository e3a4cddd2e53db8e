package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

func defaults() config.CSVSettings {
	return config.Default().Input.CSV
}

func TestParseReader(t *testing.T) {
	in := "Proveedor,Monto,Nº Factura,Fecha pago,Estado\n" +
		"ACME,100,F-1,2025-01-10,Activo\n" +
		"\n" +
		"Globex, -5 ,F-2,,Inactivo\n" +
		"Initech,7\n"

	ds, err := ParseReader(strings.NewReader(in), defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"Proveedor", "Monto", "Nº Factura", "Fecha pago", "Estado"}, ds.Columns())
	require.Equal(t, 3, ds.Len())

	assert.Equal(t, []int{2, 4, 5}, []int{ds.Row(0).Line, ds.Row(1).Line, ds.Row(2).Line})
	assert.Equal(t, dataset.Text("-5"), ds.Row(1).Get("Monto"))
	assert.True(t, ds.Row(1).Get("Fecha pago").IsMissing())
	assert.True(t, ds.Row(2).Get("Estado").IsMissing(), "short rows are padded with missing cells")
}

func TestParseReaderSemicolonAndQuotes(t *testing.T) {
	settings := defaults()
	settings.Delimiter = ";"
	in := "Proveedor;Concepto;Monto\n\"Pérez; Hijos\";\"línea 1\nlínea 2\";10\nACME;x;20\n"

	ds, err := ParseReader(strings.NewReader(in), settings)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Pérez; Hijos", ds.Row(0).Get("Proveedor").String())
	assert.Equal(t, 2, ds.Row(0).Line)
	assert.Equal(t, 4, ds.Row(1).Line, "line numbers follow multi-line records")
}

func TestParseReaderMultiLineHeader(t *testing.T) {
	settings := defaults()
	settings.HeaderRows = 2
	settings.DataStartRow = 3
	in := "Factura,,Fecha,\nNúmero,Monto,Pago,\nF-1,10,2025-01-01,x\n"

	ds, err := ParseReader(strings.NewReader(in), settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"Factura Número", "Monto", "Fecha Pago", "Column_4"}, ds.Columns())
	assert.Equal(t, 1, ds.Len())
}

func TestParseReaderDataStartRow(t *testing.T) {
	settings := defaults()
	settings.DataStartRow = 4
	in := "Proveedor,Monto\nGenerado por ERP,\n---,---\nACME,1\n"

	ds, err := ParseReader(strings.NewReader(in), settings)
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, 4, ds.Row(0).Line)
}

func TestParseReaderEncodings(t *testing.T) {
	t.Run("utf-8 bom", func(t *testing.T) {
		ds, err := ParseReader(strings.NewReader("\ufeffProveedor,Monto\nACME,1\n"), defaults())
		require.NoError(t, err)
		assert.Equal(t, []string{"Proveedor", "Monto"}, ds.Columns())
	})

	t.Run("windows-1252", func(t *testing.T) {
		raw, err := charmap.Windows1252.NewEncoder().String("Razón social,Año\nPeña,2025\n")
		require.NoError(t, err)

		settings := defaults()
		settings.Encoding = "Windows-1252"
		ds, err := ParseReader(strings.NewReader(raw), settings)
		require.NoError(t, err)

		assert.Equal(t, []string{"Razón social", "Año"}, ds.Columns())
		assert.Equal(t, "Peña", ds.Row(0).Get("Razón social").String())
	})
}

func TestParseReaderEmpty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), defaults())
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Proveedor,Monto\nACME,1\n"), 0o644))

	ds, err := Parse(path, defaults())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, 1, ds.Len())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), defaults())
	assert.Error(t, err)
}
