package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicer/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Generate numbered PDF invoices from a spreadsheet of orders",
	Long: `invoicer reads orders from a spreadsheet (Google Sheets or a local .xlsx
workbook), assigns gap-free invoice numbers per month, renders a German
invoice PDF for every order marked in the Run column and optionally uploads
the PDFs to Google Drive or S3.

The spreadsheet needs four tabs: Products, Customers, Company and Orders.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
