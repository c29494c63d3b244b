package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	once sync.Once
	cfg  *Config
)

// Config is the process-wide service configuration, loaded once from the
// environment (optionally seeded from a .env file).
type Config struct {
	Port           string
	RequestTimeout time.Duration
	MaxFileSize    int64

	// Classification heuristic. A PDF is treated as born-digital when
	// min(1, chars/(pages*DensityDenominator)) exceeds DigitalThreshold.
	// These two values are the system's main tunable knobs.
	DensityDenominator int
	DigitalThreshold   float64

	// RasterScale multiplies the native 72 DPI PDF unit when rendering
	// pages for OCR; 2 yields 144 DPI, 3 yields 216 DPI.
	RasterScale float64

	OCRLanguage string

	Textract TextractConfig

	// Force-disable switches for the optional backends.
	DisablePDFText   bool
	DisableTesseract bool
	DisableTables    bool
}

// TextractConfig holds AWS credentials for the Textract engine. The engine
// is considered available only when Region, AccessKey and SecretKey are all
// set and Disabled is false.
type TextractConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Disabled  bool
}

// Get loads the configuration on first call and returns the cached value
// afterwards.
func Get() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file found, using environment variables")
		}

		cfg = &Config{
			Port:               envString("PORT", "8001"),
			RequestTimeout:     envDuration("REQUEST_TIMEOUT", 2*time.Minute),
			MaxFileSize:        envInt64("MAX_FILE_SIZE", 50*1024*1024),
			DensityDenominator: envInt("CLASSIFY_DENSITY_DENOM", 1000),
			DigitalThreshold:   envFloat("CLASSIFY_DIGITAL_THRESHOLD", 0.1),
			RasterScale:        envFloat("RASTER_SCALE", 2),
			OCRLanguage:        envString("OCR_LANGUAGE", "eng"),
			Textract: TextractConfig{
				Region:    os.Getenv("AWS_REGION"),
				AccessKey: os.Getenv("AWS_ACCESS_KEY"),
				SecretKey: os.Getenv("AWS_SECRET_KEY"),
				Disabled:  envBool("DISABLE_TEXTRACT", false),
			},
			DisablePDFText:   envBool("DISABLE_PDF_TEXT", false),
			DisableTesseract: envBool("DISABLE_TESSERACT", false),
			DisableTables:    envBool("DISABLE_TABLES", false),
		}
	})
	return cfg
}

// Default returns the built-in configuration without touching the
// environment. Intended for tests.
func Default() *Config {
	return &Config{
		Port:               "8001",
		RequestTimeout:     2 * time.Minute,
		MaxFileSize:        50 * 1024 * 1024,
		DensityDenominator: 1000,
		DigitalThreshold:   0.1,
		RasterScale:        2,
		OCRLanguage:        "eng",
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid %s=%q, using %g", key, v, def)
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid %s=%q, using %t", key, v, def)
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid %s=%q, using %s", key, v, def)
	}
	return def
}
