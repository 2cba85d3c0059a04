package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/ocr"
)

type Config struct {
	// HTTP Configuration
	Host            string
	Port            string
	MaxRequestBytes int64

	// OCR Configuration
	OCREngine              string
	OCRLanguage            string
	OCRAngleClassification bool
	OCRUseGPU              bool
	OCRDetBoxThreshold     float64
	RenderDPI              int

	// Google Cloud Configuration (vision and documentai engines)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	var errs []error

	config := &Config{
		Host:                   getEnv("HOST", ""),
		Port:                   getEnv("PORT", "8080"),
		MaxRequestBytes:        getEnvInt64("MAX_REQUEST_BYTES", 50*1024*1024, &errs),
		OCREngine:              strings.ToLower(getEnv("OCR_ENGINE", ocr.EngineTesseract)),
		OCRLanguage:            getEnv("OCR_LANGUAGE", ocr.DefaultLanguage),
		OCRAngleClassification: getEnvBool("OCR_ANGLE_CLS", true, &errs),
		OCRUseGPU:              getEnvBool("OCR_USE_GPU", false, &errs),
		OCRDetBoxThreshold:     getEnvFloat("OCR_DET_BOX_THRESH", ocr.DefaultDetBoxThreshold, &errs),
		RenderDPI:              int(getEnvInt64("RENDER_DPI", ocr.DefaultDPI, &errs)),
		GoogleCloudProject:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:    getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:  getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:              getEnv("LOG_OUTPUT", "stdout"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config parsing failed: %w", errors.Join(errs...))
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OCREngine {
	case ocr.EngineTesseract, ocr.EngineVision, ocr.EngineNone:
	case ocr.EngineDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for OCR_ENGINE=%s", c.OCREngine)
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for OCR_ENGINE=%s", c.OCREngine)
		}
	default:
		return fmt.Errorf("OCR_ENGINE must be one of %s, %s, %s, %s (got %q)",
			ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI, ocr.EngineNone, c.OCREngine)
	}
	if c.OCRLanguage == "" {
		return fmt.Errorf("OCR_LANGUAGE must not be empty")
	}
	if c.OCRDetBoxThreshold < 0 || c.OCRDetBoxThreshold > 1 {
		return fmt.Errorf("OCR_DET_BOX_THRESH must be within [0,1] (got %v)", c.OCRDetBoxThreshold)
	}
	if c.RenderDPI <= 0 {
		return fmt.Errorf("RENDER_DPI must be positive (got %d)", c.RenderDPI)
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive (got %d)", c.MaxRequestBytes)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetOCROptions returns the engine and pipeline options from the main config
func (c *Config) GetOCROptions() ocr.Options {
	return ocr.Options{
		Engine:                c.OCREngine,
		Language:              c.OCRLanguage,
		AngleClassification:   c.OCRAngleClassification,
		UseGPU:                c.OCRUseGPU,
		DetBoxThreshold:       c.OCRDetBoxThreshold,
		DPI:                   c.RenderDPI,
		GoogleCloudProject:    c.GoogleCloudProject,
		GoogleCloudLocation:   c.GoogleCloudLocation,
		DocumentAIProcessorID: c.DocumentAIProcessorID,
	}
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64, errs *[]error) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}
