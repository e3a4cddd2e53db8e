// =============================================================================
// Payment Auditor - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Payment Auditor CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   auditor suggest <file>  - Show the proposed column mapping for a ledger
//   auditor audit <file>    - Run the irregularity checks on a ledger
//   auditor version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Ledger loading, column mapping, rules and reports
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/payment-auditor/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
