package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/config"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse [pdf-file]",
	Short: "Run the PDF parsing function against a local file",
	Long: `Read a PDF file, wrap it in the {"pdf_base64": "..."} request body and run
it through the same handler the HTTP server uses. The JSON response body is
written to stdout (or --output), and the command fails when the response
status is not 200. Logs go to stderr unless LOG_OUTPUT is set.`,
	Example: `  # Print the JSON response
  pdfocr parse invoice.pdf

  # Save an indented response to a file
  pdfocr parse invoice.pdf --indent -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().Bool("indent", false, "Indent the JSON output")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	outputPath, _ := cmd.Flags().GetString("output")
	indent, _ := cmd.Flags().GetBool("indent")
	pdfPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := logger.Setup(parseLogConfig(cfg.GetLoggerConfig(), os.Getenv("LOG_OUTPUT") != "")); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = logger.WithComponent("parse")

	body, err := requestBodyFromFile(pdfPath, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	h, engines := buildHandler(ctx, cfg)
	defer engines.Close()

	start := time.Now()
	resp := h.Handle(ctx, body)
	log.Info().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("PDF parsed")

	out := resp.Body
	if indent {
		var pretty strings.Builder
		var v any
		if err := json.Unmarshal(resp.Body, &v); err == nil {
			enc := json.NewEncoder(&pretty)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(v); err == nil {
				out = []byte(pretty.String())
			}
		}
	}

	if err := writeOutput(outputPath, out, log); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("parse failed with status %d", resp.StatusCode)
	}
	return nil
}

// parseLogConfig moves logs to stderr so stdout carries only the response
// body. An explicit LOG_OUTPUT is kept.
func parseLogConfig(cfg logger.LogConfig, outputSet bool) logger.LogConfig {
	if !outputSet {
		cfg.Output = "stderr"
	}
	return cfg
}

// requestBodyFromFile validates the file and encodes it into a request body.
func requestBodyFromFile(pdfPath string, log zerolog.Logger) ([]byte, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to read PDF file")
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}
	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	return json.Marshal(models.ParseRequest{PDFBase64: base64.StdEncoding.EncodeToString(data)})
}

func writeOutput(outputPath string, data []byte, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(data)).
		Msg("Response written to file")
	return nil
}
