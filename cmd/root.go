package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "pdfocr",
	Short: "PDF text extraction and OCR function",
	Long: `pdfocr accepts a base64-encoded PDF, extracts its embedded text layer and
runs OCR over every page rendered at 300 DPI, returning both results as JSON.

Run "pdfocr serve" to host the function over HTTP, or "pdfocr parse" to run
the same request locally against a PDF file.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
