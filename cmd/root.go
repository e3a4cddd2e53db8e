// =============================================================================
// Payment Auditor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (auditor)
//   ├── suggestCmd (auditor suggest <file>)
//   ├── auditCmd   (auditor audit <file>)
//   └── versionCmd (auditor version)
//
// Before any subcommand runs, the root command loads the optional
// configuration file and sets up logging.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/payment-auditor/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means defaults.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded before a subcommand runs.
var appConfig = config.Default()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Payment Auditor - detect irregular payments in a spreadsheet ledger",
	Long: `Payment Auditor checks a payment ledger (xlsx or csv) for five kinds of
accounting irregularity:

  - Montos negativos no autorizados
  - Datos faltantes o incompletos
  - Pagos duplicados
  - Pagos a proveedores inactivos
  - Fechas fuera del rango permitido

Columns are matched to the fields the checks need by name; the suggested
mapping can be corrected with --map or the mapping section of the config.

Example Usage:
  auditor suggest pagos.xlsx                      # Show the proposed column mapping
  auditor audit pagos.xlsx                        # Audit and print the results
  auditor audit pagos.csv --map Amount="Importe"  # Correct one column
  auditor audit pagos.xlsx --save --format xlsx   # Also write a workbook report`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		return setupLogging(cmd, cfg)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// setupLogging configures the standard logrus logger.
func setupLogging(cmd *cobra.Command, cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = log.DebugLevel
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    true,
	})

	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with a non-zero status on error:
// 2 when --fail-on-issues found irregularities, 1 for anything else.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errIssuesFound) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
