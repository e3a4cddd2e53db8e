// =============================================================================
// Payment Auditor - Irregularity Rules
// =============================================================================
//
// Every rule is an independent detector over the same coerced dataset. A
// rule returns the rows it flags in dataset order and never sees the result
// of another rule.
//
// DEFAULT RULES (in report order):
//   1. Montos negativos no autorizados   Amount < 0
//   2. Datos faltantes o incompletos     any mapped logical field Missing
//   3. Pagos duplicados                  same Provider/Amount/Invoice/Date
//   4. Pagos a proveedores inactivos     Status is not "activo"
//   5. Fechas fuera del rango permitido  PaymentDate outside the window
//
// =============================================================================

package audit

import (
	"strings"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/mapper"
)

// Rule names as shown to auditors.
const (
	RuleNegativeAmounts   = "Montos negativos no autorizados"
	RuleMissingData       = "Datos faltantes o incompletos"
	RuleDuplicatePayments = "Pagos duplicados"
	RuleInactiveProviders = "Pagos a proveedores inactivos"
	RuleDatesOutOfRange   = "Fechas fuera del rango permitido"
)

// ActiveStatus is the only status value, compared case-insensitively after
// trimming, that marks a provider as active.
const ActiveStatus = "activo"

// Params carries the run settings a rule may read.
type Params struct {
	Window Window
}

// DetectFunc returns the rows of a coerced dataset that break a rule.
type DetectFunc func(ds *dataset.Dataset, p Params) []dataset.Row

// Rule is one named detector.
type Rule struct {
	// Name is the key of the rule in the result set.
	Name string

	// Requires lists the logical fields the rule reads. The rule is skipped
	// (absent from the result set) when any of them is not in the dataset.
	Requires []mapper.Field

	Detect DetectFunc
}

// applies reports whether every field the rule needs is present.
func (r Rule) applies(ds *dataset.Dataset) bool {
	for _, f := range r.Requires {
		if !ds.HasColumn(string(f)) {
			return false
		}
	}
	return true
}

// DefaultRules returns the five payment audit rules in report order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     RuleNegativeAmounts,
			Requires: []mapper.Field{mapper.Amount},
			Detect:   detectNegativeAmounts,
		},
		{
			Name:   RuleMissingData,
			Detect: detectMissingData,
		},
		{
			Name:     RuleDuplicatePayments,
			Requires: duplicateKeyFields,
			Detect:   detectDuplicatePayments,
		},
		{
			Name:     RuleInactiveProviders,
			Requires: []mapper.Field{mapper.Status},
			Detect:   detectInactiveProviders,
		},
		{
			Name:     RuleDatesOutOfRange,
			Requires: []mapper.Field{mapper.PaymentDate},
			Detect:   detectDatesOutOfRange,
		},
	}
}

// =============================================================================
// DETECTORS
// =============================================================================

func detectNegativeAmounts(ds *dataset.Dataset, _ Params) []dataset.Row {
	return filterRows(ds, func(r dataset.Row) bool {
		amount, ok := r.Get(string(mapper.Amount)).AsNumber()
		return ok && amount.IsNegative()
	})
}

// detectMissingData flags rows where any logical field present in the
// dataset is Missing. An unmapped Status is not checked.
func detectMissingData(ds *dataset.Dataset, _ Params) []dataset.Row {
	var present []string
	for _, f := range mapper.Fields {
		if ds.HasColumn(string(f)) {
			present = append(present, string(f))
		}
	}

	return filterRows(ds, func(r dataset.Row) bool {
		for _, col := range present {
			if r.Get(col).IsMissing() {
				return true
			}
		}
		return false
	})
}

var duplicateKeyFields = []mapper.Field{mapper.Provider, mapper.Amount, mapper.InvoiceNumber, mapper.PaymentDate}

// detectDuplicatePayments returns every member of every group of two or
// more rows sharing the duplicate key. Missing cells compare equal.
func detectDuplicatePayments(ds *dataset.Dataset, _ Params) []dataset.Row {
	rows := ds.Rows()
	keys := make([]string, len(rows))
	counts := make(map[string]int, len(rows))

	for i, r := range rows {
		parts := make([]string, len(duplicateKeyFields))
		for j, f := range duplicateKeyFields {
			parts[j] = r.Get(string(f)).Key()
		}
		keys[i] = strings.Join(parts, "\x1f")
		counts[keys[i]]++
	}

	var out []dataset.Row
	for i, r := range rows {
		if counts[keys[i]] > 1 {
			out = append(out, r)
		}
	}
	return out
}

func detectInactiveProviders(ds *dataset.Dataset, _ Params) []dataset.Row {
	return filterRows(ds, func(r dataset.Row) bool {
		status := strings.ToLower(strings.TrimSpace(r.Get(string(mapper.Status)).String()))
		return status != ActiveStatus
	})
}

// detectDatesOutOfRange skips Missing dates; the missing-data rule
// reports those.
func detectDatesOutOfRange(ds *dataset.Dataset, p Params) []dataset.Row {
	return filterRows(ds, func(r dataset.Row) bool {
		date, ok := r.Get(string(mapper.PaymentDate)).AsDate()
		return ok && !p.Window.Contains(date)
	})
}

func filterRows(ds *dataset.Dataset, match func(dataset.Row) bool) []dataset.Row {
	var out []dataset.Row
	for _, r := range ds.Rows() {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}
