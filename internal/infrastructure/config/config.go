package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override
const EnvPrefix = "CATALOG"

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Remote  RemoteConfig
	UI      UIConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Metrics MetricsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// RemoteConfig locates the remote catalog store
type RemoteConfig struct {
	BaseURL        string
	ProductsPath   string
	CategoriesPath string
	Timeout        time.Duration
	Headers        map[string]string
}

// UIConfig holds presentation settings shared by both front-ends
type UIConfig struct {
	DescriptionLimit   int
	Locale             string
	NoticeTTL          time.Duration
	SessionIdleTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// HTTPConfig holds web console server settings
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TrustedProxies []string
	MaxBodyBytes   int64
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration from config.toml in the usual search paths
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from the given TOML file, or from the
// search paths when file is empty.
// Priority (highest to lowest):
// 1. Environment variables with CATALOG_ prefix (e.g., CATALOG_REMOTE_BASE_URL)
// 2. Variables from a .env file in the working directory
// 3. The TOML file
// 4. Built-in defaults
func LoadFile(file string) (*Config, error) {
	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/catalog-console")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Remote: RemoteConfig{
			BaseURL:        v.GetString("remote.base_url"),
			ProductsPath:   v.GetString("remote.products_path"),
			CategoriesPath: v.GetString("remote.categories_path"),
			Timeout:        v.GetDuration("remote.timeout"),
			Headers:        v.GetStringMapString("remote.headers"),
		},
		UI: UIConfig{
			DescriptionLimit:   v.GetInt("ui.description_limit"),
			Locale:             v.GetString("ui.locale"),
			NoticeTTL:          v.GetDuration("ui.notice_ttl"),
			SessionIdleTimeout: v.GetDuration("ui.session_idle_timeout"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
			MaxBodyBytes:   v.GetInt64("http.max_body_bytes"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}
	// viper cannot tell an unset bool from false
	if !v.IsSet("metrics.enabled") {
		cfg.Metrics.Enabled = true
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-console"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8081"
	}
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = "http://localhost:8080"
	}
	if cfg.Remote.ProductsPath == "" {
		cfg.Remote.ProductsPath = "/api/productos"
	}
	if cfg.Remote.CategoriesPath == "" {
		cfg.Remote.CategoriesPath = "/api/categorias"
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 10 * time.Second
	}
	if cfg.UI.DescriptionLimit == 0 {
		cfg.UI.DescriptionLimit = 45
	}
	if cfg.UI.Locale == "" {
		cfg.UI.Locale = "es"
	}
	if cfg.UI.NoticeTTL == 0 {
		cfg.UI.NoticeTTL = 3 * time.Second
	}
	if cfg.UI.SessionIdleTimeout == 0 {
		cfg.UI.SessionIdleTimeout = 30 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.TimeFormat == "" {
		cfg.Log.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 1 << 20
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote.base_url must be an absolute URL, got %q", c.Remote.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout cannot be negative")
	}
	if c.UI.DescriptionLimit < 0 {
		return fmt.Errorf("ui.description_limit cannot be negative")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes cannot be negative")
	}
	if c.UI.NoticeTTL < 0 || c.UI.SessionIdleTimeout < 0 {
		return fmt.Errorf("ui durations cannot be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	return nil
}

// Addr returns the listen address of the web console
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
