package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/pdf"
)

var (
	numberDate string
	pdfOutDir  string
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Invoice numbering and documents",
}

var invoiceNumberCmd = &cobra.Command{
	Use:   "number",
	Short: "Print the next invoice number",
	Example: `  # Next number for the current month
  timesheet invoice number

  # Next number for May 2024
  timesheet invoice number --date 2024-05-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC()
		if numberDate != "" {
			d, err := model.ParseDate(numberDate)
			if err != nil {
				return err
			}
			day = d.Time
		}

		conn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		n, err := invoice.NewService(conn, log).NextNumber(cmd.Context(), day)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var invoicePDFCmd = &cobra.Command{
	Use:   "pdf <invoice-id>",
	Short: "Render an invoice to PDF",
	Example: `  timesheet invoice pdf 12 --out ./invoices`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice id %q", args[0])
		}
		dir := pdfOutDir
		if dir == "" {
			dir = cfg.PDF.OutputDir
		}

		conn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		data, err := invoice.NewService(conn, log).Load(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("unable to load invoice data: %w", err)
		}
		path, err := pdf.WriteFile(dir, data)
		if err != nil {
			return fmt.Errorf("failed to generate PDF: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s generated successfully\n", path)
		return nil
	},
}

func init() {
	invoiceNumberCmd.Flags().StringVar(&numberDate, "date", "", "day in the month to number for (YYYY-MM-DD)")
	invoicePDFCmd.Flags().StringVarP(&pdfOutDir, "out", "o", "", "output directory (default pdf.output_dir)")

	invoiceCmd.AddCommand(invoiceNumberCmd)
	invoiceCmd.AddCommand(invoicePDFCmd)
}
