package cmd

import (
	"context"
	"fmt"

	"invoicer/internal/config"
	"invoicer/internal/drive"
	"invoicer/internal/pipeline"
	"invoicer/internal/sheets"
	"invoicer/internal/storage"
	"invoicer/internal/workbook"
	"invoicer/pkg/services"
)

// pipelineOptions maps the configuration onto run options
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Tabs: pipeline.Tabs{
			Products:  cfg.Tabs.Products,
			Customers: cfg.Tabs.Customers,
			Company:   cfg.Tabs.Company,
			Orders:    cfg.Tabs.Orders,
		},
		OutputDir:           cfg.OutputDir,
		Upload:              cfg.Upload,
		Workers:             cfg.BatchWorkers,
		SeedFromExistingIDs: cfg.SeedFromExistingIDs,
	}
}

// newRowSource opens the configured spreadsheet. The returned func releases it.
func newRowSource(ctx context.Context, cfg *config.Config) (services.RowSource, func(), error) {
	switch cfg.RowSource {
	case config.SourceXLSX:
		w, err := workbook.Open(cfg.WorkbookPath)
		if err != nil {
			return nil, nil, err
		}
		return w, func() { _ = w.Close() }, nil
	default:
		s, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// newSink creates the configured delivery sink, or nil when there is none
func newSink(ctx context.Context, cfg *config.Config) (services.DeliverySink, error) {
	switch cfg.Delivery {
	case config.DeliveryDrive:
		return drive.NewSink(ctx, cfg.DriveFolderID)
	case config.DeliveryS3:
		return storage.NewS3Sink(ctx, storage.Config{
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return nil, nil
	}
}

// runBatch wires the collaborators for one batch and runs it
func runBatch(ctx context.Context, cfg *config.Config, opts pipeline.Options) (*pipeline.Report, error) {
	source, release, err := newRowSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer release()

	var options []pipeline.Option
	if opts.Upload && !opts.DryRun {
		sink, err := newSink(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create delivery sink: %w", err)
		}
		if sink != nil {
			options = append(options, pipeline.WithSink(sink))
		}
	}

	return pipeline.New(source, opts, options...).Run(ctx)
}
