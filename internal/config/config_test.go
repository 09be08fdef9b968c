package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Supabase: SupabaseConfig{URL: "https://example.supabase.co", APIKey: "key"},
		MongoDB:  MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "stallbuch"},
		Evaluation: EvaluationConfig{
			CronSchedule: "0 2 * * *",
			Timezone:     "Europe/Berlin",
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Supabase.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Supabase.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MongoDB.DBName = ""
	assert.Error(t, cfg.Validate())

	// Sheets export and the scheduled farm are optional.
	cfg = validConfig()
	cfg.Sheets = SheetsConfig{}
	cfg.Evaluation.FarmID = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "key")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "stallbuch", cfg.MongoDB.DBName)
	assert.Equal(t, "0 2 * * *", cfg.Evaluation.CronSchedule)
	assert.False(t, cfg.SheetsExportEnabled())
}

func TestSheetsExportEnabled(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.SheetsExportEnabled())

	cfg.Sheets = SheetsConfig{CredentialsPath: "/tmp/creds.json", SpreadsheetID: "sheet"}
	assert.True(t, cfg.SheetsExportEnabled())
}
