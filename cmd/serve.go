package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/config"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the PDF parsing function over HTTP",
	Long: `Start an HTTP server that accepts {"pdf_base64": "..."} on POST / and
POST /parse, and reports OCR engine availability on GET /health.

The OCR engine is initialized once at startup. If initialization fails the
server still starts and every response carries
"OCR unavailable: initialization failed" in place of the OCR results.

Configuration is read from the environment (and .env):
  PORT, HOST, MAX_REQUEST_BYTES
  OCR_ENGINE (tesseract|vision|documentai|none), OCR_LANGUAGE, OCR_ANGLE_CLS,
  OCR_USE_GPU, OCR_DET_BOX_THRESH, RENDER_DPI`,
	Example: `  # Serve on the default port 8080
  pdfocr serve

  # Serve with Google Cloud Vision as OCR engine
  OCR_ENGINE=vision GOOGLE_APPLICATION_CREDENTIALS=key.json pdfocr serve --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, engines := buildHandler(ctx, cfg)
	defer func() {
		if closeErr := engines.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	srv := server.New(server.Config{
		Addr:            cfg.Addr(),
		MaxRequestBytes: cfg.MaxRequestBytes,
		OCREngine:       cfg.OCREngine,
		ShutdownTimeout: shutdownTimeout,
	}, h, engines, logger.WithComponent("server"))

	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
