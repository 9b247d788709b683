package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// File locations
	RawDataPath     string
	CleanedDataPath string
	FiguresDir      string

	// Warehouse
	SQLiteDBPath string

	// Dashboard
	Port     string
	CacheTTL time.Duration

	// AMQP notifications (optional, enabled when AMQPURL is set)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (optional, enabled when SpreadsheetID is set)
	GoogleSpreadsheetID       string
	GoogleSheetName           string
	GoogleServiceAccountFile  string
	GoogleServiceAccountJSON  string
}

func Load() *Config {
	return &Config{
		RawDataPath:     getEnv("RAW_DATA_PATH", "./data/raw/dirty_cafe_sales.csv"),
		CleanedDataPath: getEnv("CLEANED_DATA_PATH", "./data/cleaned/cafe_sales_cleaned.csv"),
		FiguresDir:      getEnv("FIGURES_DIR", "./output/figures"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cafesales.db"),

		Port:     getEnv("PORT", "8082"),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cafesales"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refreshed"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Cleaned Sales"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
	}
}

// NotifyEnabled reports whether the cleaner should publish AMQP events.
func (c *Config) NotifyEnabled() bool {
	return c.AMQPURL != ""
}

// ExportEnabled reports whether the cleaner should export to Google Sheets.
func (c *Config) ExportEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate checks the configuration and returns a combined error when
// anything is off.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RawDataPath == "" {
		errors = append(errors, "raw data path cannot be empty")
	}
	if c.CleanedDataPath == "" {
		errors = append(errors, "cleaned data path cannot be empty")
	}
	if c.FiguresDir == "" {
		errors = append(errors, "figures directory cannot be empty")
	}
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google sheet name cannot be empty when a spreadsheet ID is provided")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
