package mapper

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Suggest proposes a column for a logical field using the field's keyword
// list. It returns false when no column matches; there is no fallback to an
// arbitrary column.
func Suggest(columns []string, field Field) (string, bool) {
	return SuggestWith(columns, Keywords[field])
}

// SuggestWith scans the keywords in priority order. For the first keyword
// contained in any column label, the leftmost such column is returned.
// Later keywords are only tried when no column matches an earlier one.
//
//	SuggestWith([]string{"Vendor Name", "Proveedor"}, []string{"proveedor", "vendor"})
//	// "Proveedor", true
func SuggestWith(columns []string, keywords []string) (string, bool) {
	folded := make([]string, len(columns))
	for i, c := range columns {
		folded[i] = fold(c)
	}

	for _, kw := range keywords {
		kw = fold(kw)
		if kw == "" {
			continue
		}
		for i, c := range folded {
			if strings.Contains(c, kw) {
				return columns[i], true
			}
		}
	}

	return "", false
}

// SuggestMapping runs Suggest for every logical field. Fields without a
// suggestion are left out of the mapping. The result is advisory and may
// contain collisions; Validate reports them.
func SuggestMapping(columns []string) Mapping {
	m := make(Mapping, len(Fields))
	for _, f := range Fields {
		if col, ok := Suggest(columns, f); ok {
			m[f] = col
		}
	}
	return m
}

// fold lowercases s and strips combining marks, so "Situación" and
// "situacion" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
