// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Backends selectable through DATA_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

type Config struct {
	// HTTP server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// AMQP mirror; empty URL disables mirroring
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Attribution stamped on every expense
	DefaultUserID   string
	DefaultUserName string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DataBackend: getEnv("DATA_BACKEND", BackendMemory),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/homespend.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "homespend"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_rows"),

		DefaultUserID:   getEnv("DEFAULT_USER_ID", "1"),
		DefaultUserName: getEnv("DEFAULT_USER_NAME", "Family User"),
	}
}

// Validate checks the configuration, collecting every problem instead of
// stopping at the first.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendMemory, BackendSQLite, BackendSheets:
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend %q: must be one of memory, sqlite, sheets", c.DataBackend))
	}

	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLITE_DB_PATH cannot be empty with the sqlite backend")
	}

	if c.DataBackend == BackendSheets || c.MirrorEnabled() {
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "GOOGLE_SPREADSHEET_ID is required to reach Google Sheets")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON is required to reach Google Sheets")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP_QUEUE cannot be empty when AMQP_URL is set")
		}
		if c.DataBackend == BackendSheets {
			errs = append(errs, "mirroring is pointless with the sheets backend: writes already land in the sheet")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// MirrorEnabled reports whether writes should be mirrored to the sheet.
func (c *Config) MirrorEnabled() bool {
	return c.AMQPURL != "" && c.DataBackend != BackendSheets
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
