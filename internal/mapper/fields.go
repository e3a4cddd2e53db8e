// =============================================================================
// Payment Auditor - Logical Fields
// =============================================================================
//
// The audit rules are written against five logical fields. A source
// spreadsheet may label its columns however it likes; the mapper's job is to
// tie each logical field to one actual column.
//
//   | Field         | Label       | Required | Example source headers          |
//   |---------------|-------------|----------|---------------------------------|
//   | Provider      | Proveedor   | yes      | Proveedor, Supplier, Vendor     |
//   | Status        | Estado      | no       | Estado proveedor, Status        |
//   | PaymentDate   | Fecha pago  | yes      | Fecha de pago, Payment Date     |
//   | Amount        | Monto       | yes      | Monto, Importe, Amount          |
//   | InvoiceNumber | Nº Factura  | yes      | Nº Factura, Invoice #           |
//
// =============================================================================

package mapper

import (
	"fmt"
	"strings"
)

// Field is a logical field name.
type Field string

const (
	Provider      Field = "Provider"
	Status        Field = "Status"
	PaymentDate   Field = "PaymentDate"
	Amount        Field = "Amount"
	InvoiceNumber Field = "InvoiceNumber"
)

// Fields lists every logical field in canonical order.
var Fields = []Field{Provider, Status, PaymentDate, Amount, InvoiceNumber}

// RequiredFields lists the fields that must always be mapped.
var RequiredFields = []Field{Provider, PaymentDate, Amount, InvoiceNumber}

// labels are the display names used in reports and prompts.
var labels = map[Field]string{
	Provider:      "Proveedor",
	Status:        "Estado",
	PaymentDate:   "Fecha pago",
	Amount:        "Monto",
	InvoiceNumber: "Nº Factura",
}

// Keywords holds, per field, the keywords used to suggest a column. Order is
// priority: earlier keywords win over later ones regardless of column order.
// Keywords are compared against accent-folded, lowercased column labels.
var Keywords = map[Field][]string{
	Provider:      {"proveedor", "proveedores", "supplier", "vendor", "beneficiario", "payee"},
	Status:        {"estado", "status", "situacion"},
	PaymentDate:   {"fecha pago", "fecha de pago", "payment date", "fecha", "date"},
	Amount:        {"monto", "importe", "amount", "valor", "total"},
	InvoiceNumber: {"nº factura", "n° factura", "no. factura", "numero de factura", "num factura", "factura", "invoice"},
}

// String returns the field name.
func (f Field) String() string { return string(f) }

// Label returns the display label, or the field name if none is defined.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Optional reports whether the caller may leave the field unmapped.
func (f Field) Optional() bool { return f == Status }

// Valid reports whether f is one of the logical fields.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseField resolves a field from its name or display label,
// case-insensitively ("amount", "Monto", "PAYMENTDATE", "fecha pago").
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for _, f := range Fields {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.Label()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q (expected one of %s)", s, fieldList(Fields))
}

// fieldList joins field names for messages.
func fieldList(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
