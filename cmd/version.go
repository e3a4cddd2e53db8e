// =============================================================================
// Payment Auditor - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   auditor version
//
// OUTPUT:
//   Payment Auditor
//   Version:     1.0.0
//   Build Date:  2025-01-15
//   Fiscal Year: 2025
//   Go Version:  go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/payment-auditor/cmd.Version=1.1.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, default fiscal year and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Payment Auditor")
		fmt.Fprintf(out, "Version:     %s\n", Version)
		fmt.Fprintf(out, "Build Date:  %s\n", BuildDate)
		fmt.Fprintf(out, "Fiscal Year: %d\n", appConfig.FiscalYear)
		fmt.Fprintf(out, "Go Version:  %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
