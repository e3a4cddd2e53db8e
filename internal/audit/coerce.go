// =============================================================================
// Payment Auditor - Cell Coercion
// =============================================================================
//
// Before the rules run, three logical fields are coerced to the type the
// rules expect. Coercion never fails: a cell that cannot be understood
// becomes Missing and is reported by the missing-data rule instead.
//
//   | Field       | Target | Missing when                                  |
//   |-------------|--------|-----------------------------------------------|
//   | Amount      | Number | text is not a decimal, value is a date        |
//   | Status      | Text   | never (Missing becomes "")                    |
//   | PaymentDate | Date   | text matches no layout, number not a serial   |
//
// =============================================================================

package audit

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/mapper"
)

// dateLayouts are tried in order for text payment dates. Slash and dash
// forms are day-first, as written in Spanish-language ledgers.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006 15:04:05",
	"02.01.2006",
	"20060102",
}

// groupedAmount matches amounts written with "," thousands separators in
// groups of three, such as "1,250.50" or "-12,000".
var groupedAmount = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Excel serial numbers accepted as dates: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Coerce returns a new dataset with Amount, Status and PaymentDate coerced.
// Columns not present in ds are left out; all other cells are copied as-is.
func Coerce(ds *dataset.Dataset) *dataset.Dataset {
	return ds.Derive(ds.Columns(), func(cells map[string]dataset.Value) map[string]dataset.Value {
		if ds.HasColumn(string(mapper.Amount)) {
			cells[string(mapper.Amount)] = CoerceAmount(cells[string(mapper.Amount)])
		}
		if ds.HasColumn(string(mapper.Status)) {
			cells[string(mapper.Status)] = CoerceStatus(cells[string(mapper.Status)])
		}
		if ds.HasColumn(string(mapper.PaymentDate)) {
			cells[string(mapper.PaymentDate)] = CoerceDate(cells[string(mapper.PaymentDate)])
		}
		return cells
	})
}

// CoerceAmount converts a cell to a Number.
//
// Text is trimmed and a currency sign and spaces are removed before parsing
// ("$ 1,250.50" -> 1250.50). Commas are only accepted as thousands
// separators; "1,5" or "1.250,50" become Missing rather than a guess.
func CoerceAmount(v dataset.Value) dataset.Value {
	switch v.Kind() {
	case dataset.KindNumber:
		return v
	case dataset.KindText:
		s, _ := v.AsText()
		s = strings.TrimSpace(s)
		if s == "" {
			return dataset.Missing()
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return dataset.Number(d)
		}
		cleaned := strings.NewReplacer("$", "", " ", "").Replace(s)
		if groupedAmount.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
		if d, err := decimal.NewFromString(cleaned); err == nil {
			return dataset.Number(d)
		}
		return dataset.Missing()
	default:
		return dataset.Missing()
	}
}

// CoerceStatus converts a cell to trimmed Text. Missing becomes "".
func CoerceStatus(v dataset.Value) dataset.Value {
	if v.IsMissing() {
		return dataset.Text("")
	}
	return dataset.Text(strings.TrimSpace(v.String()))
}

// CoerceDate converts a cell to a Date.
//
// Numbers are read as Excel serial dates. Text is tried against
// dateLayouts. Anything else becomes Missing.
func CoerceDate(v dataset.Value) dataset.Value {
	switch v.Kind() {
	case dataset.KindDate:
		return v
	case dataset.KindNumber:
		d, _ := v.AsNumber()
		serial, _ := d.Float64()
		if serial < minExcelSerial || serial > maxExcelSerial {
			return dataset.Missing()
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return dataset.Missing()
		}
		return dataset.Date(t)
	case dataset.KindText:
		s, _ := v.AsText()
		s = strings.TrimSpace(s)
		if s == "" {
			return dataset.Missing()
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dataset.Date(t)
			}
		}
		return dataset.Missing()
	default:
		return dataset.Missing()
	}
}
