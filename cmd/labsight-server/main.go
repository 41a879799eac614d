package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/labsight/labsight/internal/config"
	"github.com/labsight/labsight/internal/domain/report"
	"github.com/labsight/labsight/internal/domain/symptoms"
	"github.com/labsight/labsight/internal/platform/extraction"
	"github.com/labsight/labsight/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "labsight-server",
		Short: "Lab report analysis API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(capabilitiesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the report analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// capabilitiesCmd prints the startup capability probe so an operator can
// check OCR availability without starting the server.
func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show which extraction tools were found on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			caps := extraction.DetectCapabilities(cfg.TesseractCmd, cfg.PdftoppmCmd)

			printTool := func(name, path string) {
				if path != "" {
					fmt.Printf("%-12s %s\n", name, path)
				} else {
					fmt.Printf("%-12s not found\n", name)
				}
			}
			printTool("tesseract", caps.TesseractPath)
			printTool("pdftoppm", caps.PdftoppmPath)

			if !caps.HasOCR() {
				fmt.Println("\nScanned documents cannot be processed without tesseract.")
				fmt.Println("Install it with: brew install tesseract (macOS) or apt-get install tesseract-ocr (Debian/Ubuntu).")
			}
			if !caps.HasRasterizer() {
				fmt.Println("\nScanned PDFs cannot be rasterized without poppler.")
				fmt.Println("Install it with: brew install poppler (macOS) or apt-get install poppler-utils (Debian/Ubuntu).")
			}
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Capability probe, once at startup. Absence only disables strategies.
	caps := extraction.DetectCapabilities(cfg.TesseractCmd, cfg.PdftoppmCmd)
	logger.Info().
		Bool("ocr", caps.HasOCR()).
		Bool("rasterizer", caps.HasRasterizer()).
		Str("tesseract", caps.TesseractPath).
		Str("pdftoppm", caps.PdftoppmPath).
		Msg("extraction capabilities")
	if !caps.HasOCR() {
		logger.Warn().Msg("tesseract not found; scanned documents will not be readable")
	}

	// Extraction pipeline
	ocr := extraction.NewOCREngine(
		caps.TesseractPath,
		cfg.OCRLang,
		time.Duration(cfg.OCRTimeoutSeconds)*time.Second,
		int64(cfg.OCRMaxConcurrent),
	)
	raster := extraction.NewRasterizer(caps.PdftoppmPath, cfg.RasterDPI)
	pipeline := extraction.NewPipeline(caps, ocr, raster, extraction.Options{
		MinTextLength: cfg.MinTextLength,
		Logger:        logger,
	})

	// Report analysis
	analyzer := report.NewAnalyzer(report.DefaultCatalog(), report.DefaultReferenceTable())
	reportSvc := report.NewService(pipeline, analyzer, logger)
	reportHandler := report.NewHandler(reportSvc)

	// Symptom checker glue. No model ships with the server; predictions
	// return 501 until a Predictor is wired in here.
	symptomHandler := symptoms.NewHandler(symptoms.NewVectorizer(symptoms.DefaultSymptoms()), nil)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(cfg.MaxUploadSize))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// Routes
	apiV1 := e.Group("/api/v1")
	reportHandler.RegisterRoutes(apiV1)
	symptomHandler.RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"version":    "0.1.0",
			"ocr":        caps.HasOCR(),
			"rasterizer": caps.HasRasterizer(),
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
