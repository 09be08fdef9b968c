package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Supabase   SupabaseConfig
	MongoDB    MongoDBConfig
	Sheets     SheetsConfig
	Evaluation EvaluationConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SupabaseConfig contains credentials for the hosted database's REST API.
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// MongoDBConfig holds settings for the metrics snapshot store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig configures the optional evaluation export to Google Sheets.
// Export is enabled only when both fields are set.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// EvaluationConfig holds settings for the scheduled farm evaluation run.
type EvaluationConfig struct {
	CronSchedule string
	Timezone     string
	FarmID       string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Supabase: SupabaseConfig{
			URL:    os.Getenv("SUPABASE_URL"),
			APIKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stallbuch"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Evaluation: EvaluationConfig{
			CronSchedule: getenvWithDefault("EVALUATION_CRON_SCHEDULE", "0 2 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Berlin"),
			FarmID:       os.Getenv("EVALUATION_FARM_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// Sheets export target and the scheduled farm are optional; the exporter and
// scheduler stay disabled when they are unset.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Supabase.URL == "":
		return errors.New("SUPABASE_URL must be provided")
	case c.Supabase.APIKey == "":
		return errors.New("SUPABASE_SERVICE_KEY must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must not be empty")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Evaluation.CronSchedule == "" {
		return errors.New("EVALUATION_CRON_SCHEDULE must be provided")
	}
	if c.Evaluation.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// SheetsExportEnabled reports whether the evaluation export target is fully
// configured.
func (c *Config) SheetsExportEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
