package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"invoicer/internal/config"
	"invoicer/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the spreadsheet and show the invoice ids a run would assign",
	Long: `Read all four tabs, validate every order, assign invoice numbers and
resolve customers and products exactly like run does, then print the
result. Nothing is written to the spreadsheet, the disk or any upload target.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	log := logger.WithComponent("check")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := pipelineOptions(cfg)
	opts.DryRun = true

	log.Info().Str("source", cfg.RowSource).Msg("Checking spreadsheet")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := runBatch(ctx, cfg, opts)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}
