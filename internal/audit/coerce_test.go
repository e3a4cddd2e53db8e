package audit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name string
		in   dataset.Value
		want string // "" means Missing
	}{
		{"number kept", dataset.NumberFromFloat(12.5), "12.5"},
		{"plain text", dataset.Text("  -40.10 "), "-40.1"},
		{"thousands separator", dataset.Text("1,250.50"), "1250.5"},
		{"currency sign", dataset.Text("$-30"), "-30"},
		{"currency and spaces", dataset.Text("$ 2,000"), "2000"},
		{"negative grouped", dataset.Text("-12,000"), "-12000"},
		{"decimal comma", dataset.Text("1,5"), ""},
		{"negative decimal comma", dataset.Text("-1,5"), ""},
		{"dotted thousands with decimal comma", dataset.Text("1.250,50"), ""},
		{"irregular groups", dataset.Text("12,34,56"), ""},
		{"garbage", dataset.Text("n/a"), ""},
		{"blank text", dataset.Text("   "), ""},
		{"date", dataset.Date(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), ""},
		{"missing", dataset.Missing(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceAmount(tt.in)
			if tt.want == "" {
				assert.True(t, got.IsMissing(), "got %s", got.Kind())
				return
			}
			d, ok := got.AsNumber()
			require.True(t, ok)
			assert.True(t, d.Equal(decimal.RequireFromString(tt.want)), "got %s", d)
		})
	}
}

func TestCoerceStatus(t *testing.T) {
	assert.Equal(t, dataset.Text(""), CoerceStatus(dataset.Missing()))
	assert.Equal(t, dataset.Text("Activo"), CoerceStatus(dataset.Text("  Activo\t")))
	assert.Equal(t, dataset.Text("1"), CoerceStatus(dataset.NumberFromFloat(1)))
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name string
		in   dataset.Value
		want string // "" means Missing
	}{
		{"iso", dataset.Text("2025-03-01"), "2025-03-01"},
		{"iso unpadded", dataset.Text("2025-1-5"), "2025-01-05"},
		{"iso with time", dataset.Text("2025-03-01 10:30:00"), "2025-03-01"},
		{"day first", dataset.Text("15/03/2025"), "2025-03-15"},
		{"day first short", dataset.Text("5/3/2025"), "2025-03-05"},
		{"day first dashes", dataset.Text("31-12-2024"), "2024-12-31"},
		{"excel serial", dataset.NumberFromFloat(45658), "2025-01-01"},
		{"date kept", dataset.Date(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)), "2025-06-30"},
		{"serial out of range", dataset.NumberFromFloat(0), ""},
		{"garbage", dataset.Text("ayer"), ""},
		{"missing", dataset.Missing(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceDate(tt.in)
			if tt.want == "" {
				assert.True(t, got.IsMissing(), "got %s", got.Kind())
				return
			}
			d, ok := got.AsDate()
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Format("2006-01-02"))
		})
	}
}

func TestCoerceLeavesInputAlone(t *testing.T) {
	ds := dataset.New([]string{"Amount", "Status", "PaymentDate", "Nota"})
	require.NoError(t, ds.AppendValues(2, dataset.Text("$10"), dataset.Missing(), dataset.Text("01/02/2025"), dataset.Text("x")))

	out := Coerce(ds)

	assert.Equal(t, dataset.KindText, ds.Row(0).Get("Amount").Kind())
	assert.Equal(t, dataset.KindNumber, out.Row(0).Get("Amount").Kind())
	assert.Equal(t, dataset.Text(""), out.Row(0).Get("Status"))
	assert.Equal(t, dataset.KindDate, out.Row(0).Get("PaymentDate").Kind())
	assert.Equal(t, dataset.Text("x"), out.Row(0).Get("Nota"))
	assert.Equal(t, 2, out.Row(0).Line)
}

func TestWindowContains(t *testing.T) {
	w := FiscalYear(2025)

	assert.True(t, w.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-01..2025-12-31", w.String())
}
