package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

func sampleResults(t *testing.T) *audit.ResultSet {
	t.Helper()

	ds := dataset.New([]string{"Provider", "Status", "PaymentDate", "Amount", "InvoiceNumber", "Comentario"})
	txt := dataset.Text
	require.NoError(t, ds.AppendValues(2, txt("ACME"), txt("Activo"), txt("2025-01-10"), txt("100"), txt("F-1"), txt("")))
	require.NoError(t, ds.AppendValues(3, txt("Globex"), txt("Activo"), txt("2025-02-01"), txt("-20"), txt("F-2"), dataset.Missing()))
	require.NoError(t, ds.AppendValues(4, txt("Initech"), txt("Inactivo"), txt("2024-12-01"), txt("50"), txt(`F<3>&"x"`), txt("revisar")))

	logger := log.New()
	logger.SetOutput(io.Discard)

	rs, err := audit.NewEngine(audit.WithLogger(logger)).Run(ds)
	require.NoError(t, err)
	return rs
}

func sampleMeta() Meta {
	return Meta{
		RunID:       uuid.MustParse("7f1d7a52-6c1e-4b8e-9a57-2f4c8a0e9d11"),
		Source:      "/data/pagos enero.xlsx",
		GeneratedAt: time.Date(2025, 2, 3, 10, 15, 0, 0, time.UTC),
		FiscalYear:  2025,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResults(t), sampleMeta()))
	out := buf.String()

	assert.Contains(t, out, "Año fiscal:  2025 (2025-01-01..2025-12-31)")
	assert.Contains(t, out, "== Montos negativos no autorizados (1 registros encontrados) ==")
	assert.Contains(t, out, "== Pagos duplicados (0 registros encontrados) ==\n"+NoIssues)
	assert.Contains(t, out, "Pagos a proveedores inactivos (1 registros encontrados)")
	assert.Contains(t, out, "Fechas fuera del rango permitido (1 registros encontrados)")

	assert.Regexp(t, `Línea\s+Proveedor\s+Estado\s+Fecha pago\s+Monto\s+Nº Factura\s+Comentario`, out)
	assert.Regexp(t, `\n3\s+Globex\s+Activo\s+2025-02-01\s+-20\s+F-2`, out)
}

func TestWriteTextShowsRuleErrors(t *testing.T) {
	rs := &audit.ResultSet{
		Window:  audit.FiscalYear(2025),
		Results: []audit.RuleResult{{Name: "Regla rota", Err: errors.New("boom")}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rs, sampleMeta()))
	assert.Contains(t, buf.String(), "Error: boom")
	assert.NotContains(t, buf.String(), NoIssues)
}

type xmlReport struct {
	XMLName    xml.Name `xml:"auditReport"`
	Run        string   `xml:"run,attr"`
	Source     string   `xml:"source,attr"`
	FiscalYear int      `xml:"fiscalYear,attr"`
	Rules      []struct {
		Name  string `xml:"name,attr"`
		Count int    `xml:"count,attr"`
		Rows  []struct {
			Line  int `xml:"line,attr"`
			Cells []struct {
				Column string `xml:"column,attr"`
				Value  string `xml:",chardata"`
			} `xml:"cell"`
		} `xml:"row"`
	} `xml:"rule"`
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleResults(t), sampleMeta()))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var doc xmlReport
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "7f1d7a52-6c1e-4b8e-9a57-2f4c8a0e9d11", doc.Run)
	assert.Equal(t, 2025, doc.FiscalYear)
	require.Len(t, doc.Rules, 5)

	assert.Equal(t, audit.RuleNegativeAmounts, doc.Rules[0].Name)
	assert.Equal(t, 1, doc.Rules[0].Count)
	require.Len(t, doc.Rules[0].Rows, 1)
	assert.Equal(t, 3, doc.Rules[0].Rows[0].Line)
	assert.Equal(t, "Amount", doc.Rules[0].Rows[0].Cells[3].Column)
	assert.Equal(t, "-20", doc.Rules[0].Rows[0].Cells[3].Value)

	assert.Equal(t, 0, doc.Rules[2].Count)
	assert.Empty(t, doc.Rules[2].Rows)

	inactive := doc.Rules[3]
	require.Len(t, inactive.Rows, 1)
	assert.Equal(t, `F<3>&"x"`, inactive.Rows[0].Cells[4].Value, "special characters round-trip")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResults(t), sampleMeta()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SummarySheet,
		"Montos negativos no autorizados",
		"Datos faltantes o incompletos",
		"Pagos duplicados",
		"Pagos a proveedores inactivos",
		"Fechas fuera del rango permitid",
	}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Regla", "Registros", "Observación"}, summary[0])
	assert.Equal(t, []string{audit.RuleNegativeAmounts, "1", "Revisar"}, summary[1])
	assert.Equal(t, []string{audit.RuleMissingData, "0", "OK"}, summary[2])

	negatives, err := f.GetRows("Montos negativos no autorizados")
	require.NoError(t, err)
	require.Len(t, negatives, 2)
	assert.Equal(t, "Línea", negatives[0][0])
	assert.Equal(t, "Monto", negatives[0][4])
	assert.Equal(t, "3", negatives[1][0])
	assert.Equal(t, "Globex", negatives[1][1])
	assert.Equal(t, "2025-02-01", negatives[1][3])
	assert.Equal(t, "-20", negatives[1][4])

	duplicates, err := f.GetRows("Pagos duplicados")
	require.NoError(t, err)
	assert.Equal(t, NoIssues, duplicates[1][0])
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"resumen": true}

	assert.Equal(t, "Pagos duplicados", SheetName("Pagos duplicados", used))
	assert.Equal(t, "pagos duplicados (2)", SheetName("pagos duplicados", used))
	assert.Equal(t, "Resumen (2)", SheetName("Resumen", used))
	assert.Equal(t, "Fechas fuera del rango permitid", SheetName(audit.RuleDatesOutOfRange, used))
	assert.Equal(t, "Fechas fuera del rango perm (2)", SheetName(audit.RuleDatesOutOfRange, used))
	assert.Equal(t, "a-b (c)", SheetName("a/b [c]?", used))
	assert.Equal(t, "Regla", SheetName("  ", used))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	settings := config.ReportSettings{
		OutputDir:      dir,
		Formats:        []string{"text", "XLSX", "xml"},
		FileNameFormat: "audit_{source}_{timestamp}",
	}

	hook := logtest.NewGlobal()
	defer hook.Reset()

	paths, err := Save(settings, sampleResults(t), sampleMeta())
	require.NoError(t, err)

	var logged []int64
	for _, e := range hook.AllEntries() {
		if e.Message == "report written" {
			logged = append(logged, e.Data["bytes"].(int64))
		}
	}
	require.Len(t, logged, 3)

	assert.Equal(t, []string{
		filepath.Join(dir, "audit_pagos_enero_20250203_101500.txt"),
		filepath.Join(dir, "audit_pagos_enero_20250203_101500.xlsx"),
		filepath.Join(dir, "audit_pagos_enero_20250203_101500.xml"),
	}, paths)
	for i, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
		assert.Equal(t, info.Size(), logged[i], "logged size of %s", p)
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	settings := config.ReportSettings{OutputDir: t.TempDir(), Formats: []string{"text", "pdf"}, FileNameFormat: "{uuid}"}

	paths, err := Save(settings, sampleResults(t), sampleMeta())
	assert.Error(t, err)
	assert.Len(t, paths, 1, "formats before the bad one are written")
}
