package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/mapper"
	"github.com/ginjaninja78/payment-auditor/internal/source"
)

// noSuggestion is shown for a field that no column matched.
const noSuggestion = "(sin sugerencia)"

// loadSource reads the ledger, letting --sheet override input.sheet.
func loadSource(path, sheet string) (*dataset.Dataset, error) {
	input := appConfig.Input
	if sheet != "" {
		input.Sheet = sheet
	}

	ds, err := source.Load(path, input)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"source":  path,
		"rows":    ds.Len(),
		"columns": len(ds.Columns()),
	}).Debug("source loaded")

	return ds, nil
}

// resolveMapping builds the mapping for a run.
//
// RESOLUTION ORDER (later wins):
//   1. Suggestion from the column labels
//   2. mapping section of the config file
//   3. --map Field=Column flags
//   4. --skip-status / skip_status removes Status
func resolveMapping(columns []string, cfg *config.Config, overrides []string, skipStatus bool) (mapper.Mapping, error) {
	m := mapper.SuggestMapping(columns)

	fromConfig, err := cfg.FieldMapping()
	if err != nil {
		return nil, err
	}
	for f, col := range fromConfig {
		m[f] = col
	}

	for _, o := range overrides {
		field, column, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --map %q, expected Field=Column", o)
		}
		if err := m.Set(field, column); err != nil {
			return nil, err
		}
	}

	if skipStatus || cfg.SkipStatus {
		delete(m, mapper.Status)
	}

	return m, nil
}

// remediation explains how to fix a mapping error.
func remediation(err error) string {
	switch {
	case errors.Is(err, mapper.ErrAmbiguousMapping):
		return "elija columnas distintas para cada campo (--map Campo=Columna)"
	case errors.Is(err, mapper.ErrIncompleteMapping):
		return "indique la columna de cada campo requerido (--map Campo=Columna)"
	case errors.Is(err, mapper.ErrUnknownColumn):
		return "revise el nombre de la columna; use 'auditor suggest' para ver las disponibles"
	default:
		return ""
	}
}

// mappingError wraps a mapping error with its remediation.
func mappingError(err error) error {
	if hint := remediation(err); hint != "" {
		return fmt.Errorf("%w\n  %s", err, hint)
	}
	return err
}

// printMapping writes one line per logical field with its column.
func printMapping(w io.Writer, m mapper.Mapping) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Campo\tEtiqueta\tColumna")
	for _, f := range mapper.Fields {
		col, ok := m.Column(f)
		if !ok {
			col = noSuggestion
			if f.Optional() {
				col += " - opcional"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f, f.Label(), col)
	}
	return tw.Flush()
}
