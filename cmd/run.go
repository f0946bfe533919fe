package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"invoicer/internal/config"
	"invoicer/internal/logger"
	"invoicer/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate invoices for every order marked in the Run column",
	Long: `Generate invoices for every order whose Run cell is checked.

The whole Orders tab is validated and numbered first. Only when every row is
valid are the assigned invoice ids and dates written back, the Run cells
cleared, and one PDF per selected order written to the output directory.

Required environment variables (Google Sheets):
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Spreadsheet with the Products, Customers, Company and Orders tabs

Optional environment variables:
  ROW_SOURCE - sheets (default) or xlsx together with WORKBOOK_PATH
  OUTPUT_DIR - Where PDFs are written (default: ./out/)
  DELIVERY - none, drive (DRIVE_FOLDER_ID) or s3 (S3_BUCKET, ...)
  UPLOAD - Upload generated PDFs (default: false)
  BATCH_WORKERS - Parallel render/upload workers (default: 1)`,
	Example: `  # Generate invoices into ./out/
  invoicer run

  # Generate and upload to the configured Drive folder
  invoicer run --upload

  # Show what would be generated without touching the sheet
  invoicer run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runInvoices,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("dry-run", false, "Validate and number the batch but write nothing")
	runCmd.Flags().String("out", "", "Output directory (overrides OUTPUT_DIR)")
	runCmd.Flags().Bool("upload", false, "Upload generated invoices (overrides UPLOAD)")
}

func runInvoices(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("run")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := pipelineOptions(cfg)
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		opts.OutputDir = out
	}
	if cmd.Flags().Changed("upload") {
		opts.Upload, _ = cmd.Flags().GetBool("upload")
	}
	if opts.Upload && cfg.Delivery == config.DeliveryNone {
		return fmt.Errorf("--upload needs DELIVERY set to drive or s3")
	}

	log.Info().
		Str("source", cfg.RowSource).
		Str("output_dir", opts.OutputDir).
		Bool("upload", opts.Upload).
		Bool("dry_run", opts.DryRun).
		Msg("Starting invoice run")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	report, err := runBatch(ctx, cfg, opts)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *pipeline.Report) {
	if len(report.Invoices) > 0 {
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("%-10s  %-28s  %14s  %s\n", "Invoice", "Customer", "Total", "File")
		fmt.Println(strings.Repeat("-", 80))
		for _, g := range report.Invoices {
			target := g.Path
			if g.Delivery != nil {
				target += " -> " + g.Delivery.String()
			}
			if report.DryRun {
				target = "(dry run)"
			}
			fmt.Printf("%-10s  %-28s  %14s  %s\n",
				g.Invoice.Order.InvoiceID,
				truncate(g.Invoice.Customer.BusinessName, 28),
				g.Invoice.Order.Total,
				target,
			)
			if !g.Invoice.NoticeKnown {
				fmt.Printf("%-10s  warning: unknown VAT procedure %q, no VAT notice printed\n", "", g.Invoice.Customer.VatProcedure)
			}
		}
		fmt.Println(strings.Repeat("=", 80))
	}
	fmt.Println(report.Message)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
