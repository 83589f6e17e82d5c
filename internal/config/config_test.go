package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fr", cfg.I18n.DefaultLanguage)
	assert.Equal(t, DriverCookie, cfg.Preferences.Driver)
	require.NoError(t, cfg.Validate())

	base, err := cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", base)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  public_host: triage.example.org
  session_ttl: 10m
api:
  prod_base_url: https://api.example.org
  schema: triage
  timeout: 30s
i18n:
  default_language: en
preferences:
  driver: mysql
  database:
    host: db
    port: 3306
    user: td
    password: secret
    name: triagedesk
`)
	t.Setenv("TD_PORT", "9100")
	t.Setenv("TD_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "td:secret@tcp(db:3306)/triagedesk?parseTime=true&charset=utf8mb4&loc=UTC", cfg.PreferencesDSN())

	base, err := cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", base)

	t.Setenv("DIAGNOSIS_API_URL", "https://explicit.example")
	cfg, err = Load(path)
	require.NoError(t, err)
	base, err = cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, "https://explicit.example", base)
}

func TestSchemaPolicyOverride(t *testing.T) {
	cfg := Default()
	cfg.API.Schema = "analyze-lite"
	cfg.API.MinDescriptionLength = 10

	s, err := cfg.Schema()
	require.NoError(t, err)
	assert.Equal(t, 10, s.Policy().MinDescriptionLength)
	assert.Equal(t, "analyze-lite", s.Name())

	cfg.API.MinDescriptionLength = 50
	cfg.API.MaxDescriptionLength = 20
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.API.Schema = "bogus"
	cfg.Preferences.Driver = "redis"
	cfg.Log.Format = "xml"
	cfg.Server.PublicHost = "triage.example.org" // no prod url configured

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "api.schema")
	assert.Contains(t, msg, "preferences.driver")
	assert.Contains(t, msg, "log.format")
	assert.Contains(t, msg, "base url is empty")
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.Preferences.Driver = DriverPostgres
	cfg.Preferences.Database = DatabaseConfig{Host: "pg", Port: 5432, User: "td", Password: "p@ss", Name: "prefs"}
	assert.Equal(t, "postgres://td:p%40ss@pg:5432/prefs?sslmode=disable", cfg.PreferencesDSN())

	cfg.Preferences.Driver = DriverSQLite
	assert.Equal(t, DefaultSQLitePath, cfg.PreferencesDSN())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [nope"))
	assert.Error(t, err)
}
