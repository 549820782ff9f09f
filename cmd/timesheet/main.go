// Command timesheet tracks clients, projects, timesheets and invoices in a
// SQLite database and renders invoices to PDF.
//
// Usage:
//
//	timesheet [flags] <command>
//
// Commands:
//   - serve: run the connect API and the invoice document route
//   - migrate: create or upgrade the database schema
//   - invoice number: print the next invoice number
//   - invoice pdf: render an invoice to a PDF file
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
