// =============================================================================
// Payment Auditor - Audit Command
// =============================================================================
//
// This file defines the 'audit' command, which runs the whole pipeline on
// one ledger.
//
// COMMAND USAGE:
//   auditor audit <file> [flags]
//
// FLAGS:
//   --sheet           : Worksheet to read from an xlsx file
//   --map             : Field=Column override (repeatable)
//   --skip-status     : Leave Status unmapped; skips the inactive-provider rule
//   --fiscal-year     : Year payment dates must fall in
//   --dry-run         : Resolve and validate the mapping only
//   --save            : Write report files besides printing the results
//   --format          : Report formats to save (text, xlsx, xml)
//   --output-dir      : Directory for saved reports
//   --fail-on-issues  : Exit with status 2 when any rule flags a row
//
// PIPELINE:
//   1. Load the ledger
//   2. Resolve the mapping (suggestion, config, flags)
//   3. Validate the mapping; a bad mapping stops here
//   4. Run the rules
//   5. Print the results and save the requested reports
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/report"
)

// errIssuesFound is returned with --fail-on-issues when rows were flagged.
var errIssuesFound = errors.New("irregularities found")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	auditSheet   string
	mapOverrides []string
	skipStatus   bool
	fiscalYear   int
	dryRun       bool
	saveReports  bool
	formats      []string
	outputDir    string
	failOnIssues bool
)

// auditCmd represents the 'audit' command.
var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Audit a payment ledger",
	Long: `The audit command loads a ledger, maps its columns to the fields the
checks need and runs the five irregularity rules. Results are printed per
rule: the number of rows found and the rows themselves, or a note that no
irregularities were detected.

A mapping where two fields share a column, or a required field has no
column, stops the run before any rule executes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd, args[0])
	},
}

func runAudit(cmd *cobra.Command, path string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	if err := applyAuditFlags(cmd); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: LOAD THE LEDGER
	// =========================================================================

	ds, err := loadSource(path, auditSheet)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2-3: RESOLVE AND VALIDATE THE MAPPING
	// =========================================================================

	m, err := resolveMapping(ds.Columns(), appConfig, mapOverrides, skipStatus)
	if err != nil {
		return err
	}
	log.WithField("mapping", m.String()).Info("column mapping")

	if err := m.Validate(); err != nil {
		return mappingError(err)
	}

	if dryRun {
		if err := printMapping(out, m); err != nil {
			return err
		}
		fmt.Fprintln(out, "\nMapeo válido. No se ejecutaron reglas (--dry-run).")
		return nil
	}

	// =========================================================================
	// STEP 4: RUN THE RULES
	// =========================================================================

	engine := audit.NewEngine(
		audit.WithFiscalYear(appConfig.FiscalYear),
		audit.WithLogger(log.StandardLogger()),
	)

	rs, err := engine.Process(ds, m)
	if err != nil {
		return mappingError(err)
	}

	// =========================================================================
	// STEP 5: REPORT
	// =========================================================================

	meta := report.NewMeta(path, appConfig.FiscalYear)
	if err := report.WriteText(out, rs, meta); err != nil {
		return err
	}

	if saveReports {
		paths, err := report.Save(appConfig.Report, rs, meta)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, p := range paths {
			fmt.Fprintf(out, "Reporte guardado: %s\n", p)
		}
	}

	log.WithFields(log.Fields{
		"run":     meta.RunID,
		"flagged": rs.Flagged(),
		"elapsed": time.Since(startTime),
	}).Info("audit complete")

	if failed := rs.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d rule(s) could not finish: %w", len(failed), failed[0].Err)
	}
	if failOnIssues && rs.Flagged() > 0 {
		return fmt.Errorf("%w: %d row(s) flagged", errIssuesFound, rs.Flagged())
	}

	return nil
}

// applyAuditFlags lays explicitly set flags over the loaded configuration.
func applyAuditFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("fiscal-year") {
		appConfig.FiscalYear = fiscalYear
	}
	if flags.Changed("format") {
		for _, f := range formats {
			if err := config.ValidateFormat(f); err != nil {
				return err
			}
		}
		appConfig.Report.Formats = formats
	}
	if flags.Changed("output-dir") {
		appConfig.Report.OutputDir = outputDir
	}

	return appConfig.Validate()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(auditCmd)

	f := auditCmd.Flags()
	f.StringVar(&auditSheet, "sheet", "", "Worksheet to read from an xlsx file (default: first sheet)")
	f.StringArrayVar(&mapOverrides, "map", nil, "Map a field to a column, e.g. --map Amount=Importe (repeatable)")
	f.BoolVar(&skipStatus, "skip-status", false, "Do not map Status; skips the inactive-provider rule")
	f.IntVar(&fiscalYear, "fiscal-year", audit.DefaultFiscalYear, "Year payment dates must fall in")
	f.BoolVar(&dryRun, "dry-run", false, "Resolve and validate the mapping without running the rules")
	f.BoolVar(&saveReports, "save", false, "Write report files to the output directory")
	f.StringSliceVar(&formats, "format", nil, "Report formats to save: text, xlsx, xml")
	f.StringVar(&outputDir, "output-dir", "", "Directory for saved reports (default from config: ./reports)")
	f.BoolVar(&failOnIssues, "fail-on-issues", false, "Exit with status 2 when any irregularity is found")
}
