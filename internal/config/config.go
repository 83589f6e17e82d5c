package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
)

// DefaultPath dipakai kalau CONFIG_PATH kosong
const DefaultPath = "config.yaml"

// DefaultSQLitePath is used by the sqlite driver when no DSN is given.
const DefaultSQLitePath = "triagedesk.db"

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	API         APIConfig         `yaml:"api"`
	I18n        I18nConfig        `yaml:"i18n"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Archive     ArchiveConfig     `yaml:"archive"`
	Log         LogConfig         `yaml:"log"`
	RateLimit   RateLimitConfig   `yaml:"ratelimit"`
}

type ServerConfig struct {
	Port          int           `yaml:"port"           env:"TD_PORT"`
	PublicHost    string        `yaml:"public_host"    env:"TD_PUBLIC_HOST"`
	ReadTimeout   time.Duration `yaml:"read_timeout"   env:"TD_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout"  env:"TD_WRITE_TIMEOUT"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"   env:"TD_IDLE_TIMEOUT"`
	CORSOrigins   []string      `yaml:"cors_origins"   env:"TD_CORS_ORIGINS" envSeparator:","`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"TD_SESSION_TTL"`
	SecureCookies bool          `yaml:"secure_cookies" env:"TD_SECURE_COOKIES"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"      env:"DIAGNOSIS_API_URL"`
	DevBaseURL  string        `yaml:"dev_base_url"  env:"TD_API_DEV_URL"`
	ProdBaseURL string        `yaml:"prod_base_url" env:"TD_API_PROD_URL"`
	Schema      string        `yaml:"schema"        env:"TD_API_SCHEMA"`
	Timeout     time.Duration `yaml:"timeout"       env:"TD_API_TIMEOUT"`

	// 0 keeps the schema's own bound
	MinDescriptionLength int `yaml:"min_description_length" env:"TD_MIN_DESCRIPTION_LENGTH"`
	MaxDescriptionLength int `yaml:"max_description_length" env:"TD_MAX_DESCRIPTION_LENGTH"`
}

type I18nConfig struct {
	DefaultLanguage string `yaml:"default_language" env:"TD_DEFAULT_LANGUAGE"`
}

// Preference store drivers.
const (
	DriverCookie   = "cookie"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type PreferencesConfig struct {
	Driver string `yaml:"driver" env:"TD_PREFERENCES_DRIVER"`

	// DSN wins over Database when set
	DSN      string         `yaml:"dsn"      env:"TD_PREFERENCES_DSN"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"     env:"TD_DB_HOST"`
	Port     int    `yaml:"port"     env:"TD_DB_PORT"`
	User     string `yaml:"user"     env:"TD_DB_USER"`
	Password string `yaml:"password" env:"TD_DB_PASSWORD"`
	Name     string `yaml:"name"     env:"TD_DB_NAME"`
}

type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"    env:"TD_ARCHIVE_ENABLED"`
	Endpoint   string `yaml:"endpoint"   env:"TD_ARCHIVE_ENDPOINT"`
	AccessKey  string `yaml:"accessKey"  env:"TD_ARCHIVE_ACCESS_KEY"`
	SecretKey  string `yaml:"secretKey"  env:"TD_ARCHIVE_SECRET_KEY"`
	BucketName string `yaml:"bucketName" env:"TD_ARCHIVE_BUCKET"`
	Region     string `yaml:"region"     env:"TD_ARCHIVE_REGION"`
	UseSSL     bool   `yaml:"useSSL"     env:"TD_ARCHIVE_USE_SSL"`

	// public base for report links; defaults to the endpoint
	PublicURL string `yaml:"publicURL" env:"TD_ARCHIVE_PUBLIC_URL"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"TD_LOG_LEVEL"`
	Format string `yaml:"format" env:"TD_LOG_FORMAT"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity" env:"TD_RATELIMIT_CAPACITY"`
	Refill   time.Duration `yaml:"refill"   env:"TD_RATELIMIT_REFILL"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			PublicHost:   "localhost",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
			SessionTTL:   30 * time.Minute,
		},
		API: APIConfig{
			DevBaseURL: "http://localhost:8000",
			Schema:     diagnosisapi.SchemaDiagnose,
			Timeout:    60 * time.Second,
		},
		I18n:        I18nConfig{DefaultLanguage: "fr"},
		Preferences: PreferencesConfig{Driver: DriverCookie},
		Archive:     ArchiveConfig{BucketName: "triagedesk-reports", Region: "us-east-1"},
		Log:         LogConfig{Level: "info", Format: "json"},
		RateLimit:   RateLimitConfig{Capacity: 10, Refill: 6 * time.Second},
	}
}

// Load baca file config (kalau ada), lalu override dari environment.
// A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// FromEnv loads the file named by CONFIG_PATH.
func FromEnv() (*Config, error) {
	return Load(os.Getenv("CONFIG_PATH"))
}

// Validate checks everything main needs before wiring.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if _, err := c.Schema(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BaseURL(); err != nil {
		errs = append(errs, err)
	}

	switch c.Preferences.Driver {
	case DriverCookie:
	case DriverSQLite, DriverMySQL, DriverPostgres:
		if c.PreferencesDSN() == "" {
			errs = append(errs, fmt.Errorf("preferences.dsn is required for driver %q", c.Preferences.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("preferences.driver %q unknown", c.Preferences.Driver))
	}

	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.BucketName == "") {
		errs = append(errs, errors.New("archive.endpoint and archive.bucketName are required when archive is enabled"))
	}
	if c.Archive.PublicURL != "" {
		if _, err := url.Parse(c.Archive.PublicURL); err != nil {
			errs = append(errs, fmt.Errorf("archive.publicURL: %w", err))
		}
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0 {
		errs = append(errs, errors.New("ratelimit.capacity and ratelimit.refill must be positive"))
	}

	return errors.Join(errs...)
}

// Schema returns the configured adapter with any policy override applied.
func (c *Config) Schema() (diagnosisapi.Schema, error) {
	s, err := diagnosisapi.Lookup(strings.TrimSpace(c.API.Schema))
	if err != nil {
		return nil, fmt.Errorf("api.schema: %w", err)
	}
	if c.API.MinDescriptionLength == 0 && c.API.MaxDescriptionLength == 0 {
		return s, nil
	}
	p := s.Policy()
	if c.API.MinDescriptionLength != 0 {
		p.MinDescriptionLength = c.API.MinDescriptionLength
	}
	if c.API.MaxDescriptionLength != 0 {
		p.MaxDescriptionLength = c.API.MaxDescriptionLength
	}
	return diagnosisapi.WithPolicy(s, p)
}

// BaseURL resolves the collaborator address for Server.PublicHost.
func (c *Config) BaseURL() (string, error) {
	u, err := diagnosisapi.ResolveBaseURL(c.API.BaseURL, c.Server.PublicHost, c.API.DevBaseURL, c.API.ProdBaseURL)
	if err != nil {
		return "", fmt.Errorf("api: %w", err)
	}
	return u, nil
}

// PreferencesDSN returns the explicit DSN or one built from Database.
func (c *Config) PreferencesDSN() string {
	if c.Preferences.DSN != "" {
		return c.Preferences.DSN
	}
	if c.Preferences.Driver == DriverSQLite {
		return DefaultSQLitePath
	}
	if c.Preferences.Database.Host == "" {
		return ""
	}
	switch c.Preferences.Driver {
	case DriverMySQL:
		return c.MySQLDSN()
	case DriverPostgres:
		return c.PostgresDSN()
	}
	return ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	db := c.Preferences.Database
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)
}

// PostgresDSN builds a lib/pq URL.
func (c *Config) PostgresDSN() string {
	db := c.Preferences.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
