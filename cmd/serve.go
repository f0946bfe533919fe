package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoicer/internal/config"
	"invoicer/internal/logger"
	"invoicer/internal/pipeline"
)

// cloudOutputDir is the only writable directory on serverless runtimes
const cloudOutputDir = "/tmp/"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP endpoint that runs one batch per request",
	Long: `Start an HTTP server for serverless deployments. Every GET / runs one
batch with upload enabled and PDFs written to /tmp/. The response is the
result message (200) or the error message (400). A request arriving while a
batch is still running is rejected with 409.

GET /healthz answers ok.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Listen port (overrides PORT)")
}

// batchFunc runs one batch
type batchFunc func(ctx context.Context) (*pipeline.Report, error)

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Delivery == config.DeliveryNone {
		return fmt.Errorf("serve uploads every batch, set DELIVERY to drive or s3")
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}

	opts := pipelineOptions(cfg)
	opts.OutputDir = cloudOutputDir
	opts.Upload = true

	run := func(ctx context.Context) (*pipeline.Report, error) {
		return runBatch(ctx, cfg, opts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + strconv.Itoa(cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(run, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRouter builds the HTTP handler around a batch function
func newRouter(run batchFunc, log zerolog.Logger) http.Handler {
	var running sync.Mutex

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if !running.TryLock() {
			writeText(w, http.StatusConflict, "A batch is already running, try again later.")
			return
		}
		defer running.Unlock()

		started := time.Now()
		report, err := run(req.Context())
		if err != nil {
			log.Error().
				Err(err).
				Str("request_id", middleware.GetReqID(req.Context())).
				Msg("Batch failed")
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Info().
			Str("request_id", middleware.GetReqID(req.Context())).
			Str("run_id", report.RunID).
			Int("invoices", len(report.Invoices)).
			Dur("duration", time.Since(started)).
			Msg("Batch finished")
		writeText(w, http.StatusOK, report.Message)
	})

	return r
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
