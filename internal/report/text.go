package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
)

// WriteText prints the result set for a terminal: a run header, then each
// rule with its count and flagged rows, or NoIssues when it flagged none.
func WriteText(w io.Writer, rs *audit.ResultSet, meta Meta) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Auditoría de pagos")
	fmt.Fprintf(bw, "Archivo:     %s\n", meta.Source)
	fmt.Fprintf(bw, "Año fiscal:  %d (%s)\n", meta.FiscalYear, rs.Window)
	fmt.Fprintf(bw, "Ejecución:   %s\n", meta.RunID)
	fmt.Fprintf(bw, "Generado:    %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, r := range rs.Results {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "== %s ==\n", CountLine(r))

		switch {
		case r.Err != nil:
			fmt.Fprintf(bw, "Error: %v\n", r.Err)
		case r.Count() == 0:
			fmt.Fprintln(bw, NoIssues)
		default:
			if err := writeTable(bw, rs.Columns, r); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// writeTable prints the flagged rows as aligned columns, prefixed with the
// source line number.
func writeTable(w io.Writer, columns []string, r audit.RuleResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "Línea")
	for _, col := range columns {
		headers = append(headers, header(col))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range r.Rows {
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, strconv.Itoa(row.Line))
		for _, col := range columns {
			cells = append(cells, sanitize(cellText(row, col)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// sanitize keeps a cell on one table line.
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
