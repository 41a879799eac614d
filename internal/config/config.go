package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	TesseractCmd          string   `mapstructure:"TESSERACT_CMD"`
	PdftoppmCmd           string   `mapstructure:"PDFTOPPM_CMD"`
	OCRLang               string   `mapstructure:"OCR_LANG"`
	OCRTimeoutSeconds     int      `mapstructure:"OCR_TIMEOUT_SECONDS"`
	OCRMaxConcurrent      int      `mapstructure:"OCR_MAX_CONCURRENT"`
	RasterDPI             int      `mapstructure:"RASTER_DPI"`
	MinTextLength         int      `mapstructure:"MIN_TEXT_LENGTH"`
	MaxUploadSize         string   `mapstructure:"MAX_UPLOAD_SIZE"`
	RequestTimeoutSeconds int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("OCR_LANG", "eng")
	v.SetDefault("OCR_TIMEOUT_SECONDS", 60)
	v.SetDefault("OCR_MAX_CONCURRENT", 2)
	v.SetDefault("RASTER_DPI", 300)
	v.SetDefault("MIN_TEXT_LENGTH", 50)
	v.SetDefault("MAX_UPLOAD_SIZE", "20M")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 120)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("TESSERACT_CMD")
	v.BindEnv("PDFTOPPM_CMD")
	v.BindEnv("OCR_LANG")
	v.BindEnv("OCR_TIMEOUT_SECONDS")
	v.BindEnv("OCR_MAX_CONCURRENT")
	v.BindEnv("RASTER_DPI")
	v.BindEnv("MIN_TEXT_LENGTH")
	v.BindEnv("MAX_UPLOAD_SIZE")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. OCR settings are
// validated even when Tesseract is absent so a misconfigured host fails at
// startup instead of on the first scanned document.
func (c *Config) Validate() error {
	if c.OCRLang == "" {
		return fmt.Errorf("OCR_LANG must not be empty")
	}
	if c.OCRTimeoutSeconds <= 0 {
		return fmt.Errorf("OCR_TIMEOUT_SECONDS must be positive, got %d", c.OCRTimeoutSeconds)
	}
	if c.OCRMaxConcurrent < 1 {
		return fmt.Errorf("OCR_MAX_CONCURRENT must be at least 1, got %d", c.OCRMaxConcurrent)
	}
	if c.RasterDPI < 72 || c.RasterDPI > 600 {
		return fmt.Errorf("RASTER_DPI must be between 72 and 600, got %d", c.RasterDPI)
	}
	// The pipeline substitutes its built-in default for a zero threshold,
	// so a configured 0 would silently become 50; reject it here instead.
	if c.MinTextLength < 1 {
		return fmt.Errorf("MIN_TEXT_LENGTH must be positive, got %d", c.MinTextLength)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.RequestTimeoutSeconds < c.OCRTimeoutSeconds {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS (%d) must not be smaller than OCR_TIMEOUT_SECONDS (%d)",
			c.RequestTimeoutSeconds, c.OCRTimeoutSeconds)
	}
	return nil
}
