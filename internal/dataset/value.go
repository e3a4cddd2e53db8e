// =============================================================================
// Payment Auditor - Cell Values
// =============================================================================
//
// Every cell of a dataset holds a Value. A Value is a small tagged union:
//
//   | Kind        | Payload            | Produced by                          |
//   |-------------|--------------------|--------------------------------------|
//   | KindMissing | none               | empty cells, failed coercions        |
//   | KindNumber  | decimal.Decimal    | numeric xlsx cells, Amount coercion  |
//   | KindText    | string             | csv cells, string xlsx cells         |
//   | KindDate    | time.Time          | date-styled xlsx cells, date coercion|
//
// Missing is a first-class kind: a cell that could not be understood is
// Missing, it never silently keeps a half-parsed payload.
//
// =============================================================================

package dataset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND
// =============================================================================

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindDate
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// =============================================================================
// VALUE
// =============================================================================

// Value is a single cell value. The zero Value is Missing.
type Value struct {
	kind Kind
	num  decimal.Decimal
	text string
	date time.Time
}

// Missing returns the missing value.
func Missing() Value {
	return Value{}
}

// Number wraps a decimal.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// NumberFromFloat wraps a float64. Spreadsheet libraries hand numbers out as
// floats, so this is the common entry point for loaders.
func NumberFromFloat(f float64) Value {
	return Value{kind: KindNumber, num: decimal.NewFromFloat(f)}
}

// Text wraps a string as-is (no trimming).
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Date wraps a point in time.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is Missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsNumber returns the decimal payload and true for Number values.
func (v Value) AsNumber() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Decimal{}, false
	}
	return v.num, true
}

// AsText returns the string payload and true for Text values.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsDate returns the time payload and true for Date values.
func (v Value) AsDate() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String renders the value for display. Missing renders as "".
// Dates without a time-of-day component render as YYYY-MM-DD.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindText:
		return v.text
	case KindDate:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 && v.date.Nanosecond() == 0 {
			return v.date.Format("2006-01-02")
		}
		return v.date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Key returns an identity string for equality grouping.
//
// Two values have the same key exactly when they are equal: same kind and
// same payload. Numbers compare by decimal value (100 == 100.00), dates by
// instant. Missing values share a single key, so two missing cells are equal.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + v.num.String()
	case KindText:
		return "t:" + v.text
	case KindDate:
		return "d:" + v.date.UTC().Format(time.RFC3339Nano)
	default:
		return "m:"
	}
}

// Equal reports whether two values have the same key.
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}
