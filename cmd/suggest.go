// =============================================================================
// Payment Auditor - Suggest Command
// =============================================================================
//
// COMMAND USAGE:
//   auditor suggest <file> [--sheet NAME]
//
// Prints the columns found in the ledger, the column proposed for each
// field, and whether that proposal can be used as-is.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/payment-auditor/internal/mapper"
	"github.com/ginjaninja78/payment-auditor/internal/source"
	"github.com/ginjaninja78/payment-auditor/internal/xlsxparser"
)

var suggestSheet string

// suggestCmd represents the 'suggest' command.
var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Propose a column mapping for a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggest(cmd, args[0])
	},
}

func runSuggest(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	ds, err := loadSource(path, suggestSheet)
	if err != nil {
		return err
	}

	if format, _ := source.DetectFormat(path); format == source.FormatXLSX {
		if sheets, err := xlsxparser.Sheets(path); err == nil {
			fmt.Fprintf(out, "Hojas:    %s\n", strings.Join(sheets, ", "))
		}
	}
	fmt.Fprintf(out, "Columnas: %s\n", strings.Join(ds.Columns(), ", "))
	fmt.Fprintf(out, "Filas:    %d\n\n", ds.Len())

	m := mapper.SuggestMapping(ds.Columns())
	if err := printMapping(out, m); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := m.Validate(); err != nil {
		fmt.Fprintf(out, "Mapeo incompleto: %v\n", mappingError(err))
		return nil
	}
	fmt.Fprintln(out, "Mapeo válido.")
	if !m.Includes(mapper.Status) {
		fmt.Fprintln(out, "Estado sin columna: la regla de proveedores inactivos no se ejecutará.")
	}

	return nil
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVar(&suggestSheet, "sheet", "", "Worksheet to read from an xlsx file (default: first sheet)")
}
