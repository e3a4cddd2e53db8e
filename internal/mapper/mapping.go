// =============================================================================
// Payment Auditor - Column Mapping
// =============================================================================
//
// A Mapping ties logical fields to source column labels. The caller builds
// one (usually starting from SuggestMapping), confirms it with Validate and
// then produces the normalized dataset with Apply.
//
// RULES:
//   - Every required field must be mapped (IncompleteMappingError).
//   - No two fields may share a column (AmbiguousMappingError).
//   - Status may be left out; the inactive-provider rule is then skipped.
//
// =============================================================================

package mapper

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
)

// Mapping maps a logical field to a source column label.
// A field that is absent or maps to "" is unmapped.
type Mapping map[Field]string

// Clone returns a copy of the mapping.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Column returns the column mapped to f.
func (m Mapping) Column(f Field) (string, bool) {
	col, ok := m[f]
	if !ok || strings.TrimSpace(col) == "" {
		return "", false
	}
	return col, true
}

// Includes reports whether f is mapped.
func (m Mapping) Includes(f Field) bool {
	_, ok := m.Column(f)
	return ok
}

// MappedFields returns the mapped fields in canonical order.
func (m Mapping) MappedFields() []Field {
	var out []Field
	for _, f := range Fields {
		if m.Includes(f) {
			out = append(out, f)
		}
	}
	return out
}

// Set assigns a column, parsing the field from its name or label.
func (m Mapping) Set(field, column string) error {
	f, err := ParseField(field)
	if err != nil {
		return err
	}
	m[f] = strings.TrimSpace(column)
	return nil
}

// Validate checks that all required fields are mapped and that no column
// is used twice. Keys that are not logical fields are rejected.
func (m Mapping) Validate() error {
	for f := range m {
		if !f.Valid() {
			return fmt.Errorf("unknown field %q in mapping", string(f))
		}
	}

	var missing []Field
	for _, f := range RequiredFields {
		if !m.Includes(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &IncompleteMappingError{Fields: missing}
	}

	byColumn := make(map[string][]Field)
	var order []string
	for _, f := range Fields {
		col, ok := m.Column(f)
		if !ok {
			continue
		}
		if _, seen := byColumn[col]; !seen {
			order = append(order, col)
		}
		byColumn[col] = append(byColumn[col], f)
	}

	var collisions []Collision
	for _, col := range order {
		if fields := byColumn[col]; len(fields) > 1 {
			collisions = append(collisions, Collision{Column: col, Fields: fields})
		}
	}
	if len(collisions) > 0 {
		return &AmbiguousMappingError{Collisions: collisions}
	}

	return nil
}

// String renders the mapping as "Field=Column" pairs in canonical order.
func (m Mapping) String() string {
	var parts []string
	for _, f := range m.MappedFields() {
		parts = append(parts, fmt.Sprintf("%s=%s", f, m[f]))
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// APPLY
// =============================================================================

// Apply returns a new dataset whose mapped columns are renamed to their
// logical field names. The logical columns come first in canonical order,
// followed by the remaining source columns in their original order. A
// leftover source column whose label equals a logical field name is dropped
// so it cannot shadow the mapped one. The input dataset is not modified.
//
// Apply does not validate the mapping; call Validate first.
func Apply(ds *dataset.Dataset, m Mapping) (*dataset.Dataset, error) {
	rename := make(map[string]Field)
	var columns []string

	for _, f := range m.MappedFields() {
		col, _ := m.Column(f)
		if !ds.HasColumn(col) {
			return nil, &UnknownColumnError{Field: f, Column: col}
		}
		rename[col] = f
		columns = append(columns, string(f))
	}

	var extras []string
	for _, col := range ds.Columns() {
		if _, mapped := rename[col]; mapped {
			continue
		}
		if Field(col).Valid() {
			continue
		}
		extras = append(extras, col)
	}
	columns = append(columns, extras...)

	out := ds.Derive(columns, func(cells map[string]dataset.Value) map[string]dataset.Value {
		next := make(map[string]dataset.Value, len(columns))
		for col, f := range rename {
			next[string(f)] = cells[col]
		}
		for _, col := range extras {
			next[col] = cells[col]
		}
		return next
	})

	return out, nil
}
