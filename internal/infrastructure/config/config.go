package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Scan     ScanConfig
	Stores   []StoreConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings for the scan lock
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// ScanConfig holds the scan pipeline tunables
type ScanConfig struct {
	// MaxBarcodeDigits bounds the normalized order number length
	MaxBarcodeDigits int
	// OrderWindow is the recency window for same-order duplicates
	OrderWindow time.Duration
	// PhoneWindow is the recency window for same-phone duplicates
	PhoneWindow time.Duration
	// OrderCutoff ignores store matches older than this during lookup
	OrderCutoff time.Duration
	// LookupTimeout bounds each individual store API call
	LookupTimeout time.Duration
	// LookupRetries is the attempt count per store
	LookupRetries int
	// LookupRetryDelay is the base delay between attempts (linear backoff)
	LookupRetryDelay time.Duration
	// PhoneCountryCode is the international prefix folded during phone
	// normalization (digits only, e.g. "212")
	PhoneCountryCode string
	// LockTTL bounds how long a per-order scan lock may be held
	LockTTL time.Duration
}

// StoreConfig describes one store account in the directory
type StoreConfig struct {
	Name     string `json:"name"`
	APIKey   string `json:"api_key"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

// Validate checks a store entry for completeness
func (s *StoreConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("store name is required")
	}
	if s.APIKey == "" || s.Password == "" {
		return fmt.Errorf("store %s: api_key and password are required", s.Name)
	}
	if s.Domain == "" {
		return fmt.Errorf("store %s: domain is required", s.Name)
	}
	return nil
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeDomain strips the scheme and any trailing path from a store
// domain so "https://shop.example.com/admin" becomes "shop.example.com".
func NormalizeDomain(domain string) string {
	domain = schemeRe.ReplaceAllString(domain, "")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	return strings.TrimSuffix(domain, "/")
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SCANNER_ prefix (e.g. SCANNER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
// Store accounts additionally come from SHOPIFY_STORES_JSON or from
// <NAME>_API_KEY / <NAME>_PASSWORD / <NAME>_DOMAIN variable triples.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Scan: ScanConfig{
			MaxBarcodeDigits: v.GetInt("scan.max_barcode_digits"),
			OrderWindow:      v.GetDuration("scan.order_window"),
			PhoneWindow:      v.GetDuration("scan.phone_window"),
			OrderCutoff:      v.GetDuration("scan.order_cutoff"),
			LookupTimeout:    v.GetDuration("scan.lookup_timeout"),
			LookupRetries:    v.GetInt("scan.lookup_retries"),
			LookupRetryDelay: v.GetDuration("scan.lookup_retry_delay"),
			PhoneCountryCode: v.GetString("scan.phone_country_code"),
			LockTTL:          v.GetDuration("scan.lock_ttl"),
		},
	}

	if err := v.UnmarshalKey("stores", &cfg.Stores); err != nil {
		return nil, fmt.Errorf("error reading stores config: %w", err)
	}

	// Environment-provided stores take precedence over the config file
	envStores, err := storesFromEnv(os.Environ())
	if err != nil {
		return nil, err
	}
	if len(envStores) > 0 {
		cfg.Stores = envStores
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var storeKeyRe = regexp.MustCompile(`^([A-Z][A-Z0-9]*)_API_KEY$`)

// storesFromEnv builds the store directory from environment variables.
// SHOPIFY_STORES_JSON wins when set; otherwise every <NAME>_API_KEY is
// matched with its <NAME>_PASSWORD and <NAME>_DOMAIN companions.
func storesFromEnv(environ []string) ([]StoreConfig, error) {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.Index(kv, "="); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}

	if blob, ok := env["SHOPIFY_STORES_JSON"]; ok && blob != "" {
		var stores []StoreConfig
		if err := json.Unmarshal([]byte(blob), &stores); err != nil {
			return nil, fmt.Errorf("SHOPIFY_STORES_JSON is not valid JSON: %w", err)
		}
		for i := range stores {
			stores[i].Domain = NormalizeDomain(stores[i].Domain)
		}
		return stores, nil
	}

	var stores []StoreConfig
	for key, value := range env {
		m := storeKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		name := m[1]
		password, okPwd := env[name+"_PASSWORD"]
		domain, okDom := env[name+"_DOMAIN"]
		if !okPwd || !okDom {
			return nil, fmt.Errorf("missing %s_PASSWORD or %s_DOMAIN for store %s", name, name, name)
		}
		stores = append(stores, StoreConfig{
			Name:     strings.ToLower(name),
			APIKey:   value,
			Password: password,
			Domain:   NormalizeDomain(domain),
		})
	}
	return stores, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "order-scanner"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "scanner"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB, scan payloads are tiny
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Scan.MaxBarcodeDigits == 0 {
		cfg.Scan.MaxBarcodeDigits = 6
	}
	if cfg.Scan.OrderWindow == 0 {
		cfg.Scan.OrderWindow = 7 * 24 * time.Hour
	}
	if cfg.Scan.PhoneWindow == 0 {
		cfg.Scan.PhoneWindow = 3 * 24 * time.Hour
	}
	if cfg.Scan.OrderCutoff == 0 {
		cfg.Scan.OrderCutoff = 50 * 24 * time.Hour
	}
	if cfg.Scan.LookupTimeout == 0 {
		cfg.Scan.LookupTimeout = 15 * time.Second
	}
	if cfg.Scan.LookupRetries == 0 {
		cfg.Scan.LookupRetries = 3
	}
	if cfg.Scan.LookupRetryDelay == 0 {
		cfg.Scan.LookupRetryDelay = time.Second
	}
	if cfg.Scan.PhoneCountryCode == "" {
		cfg.Scan.PhoneCountryCode = "212"
	}
	if cfg.Scan.LockTTL == 0 {
		cfg.Scan.LockTTL = 30 * time.Second
	}

	for i := range cfg.Stores {
		cfg.Stores[i].Domain = NormalizeDomain(cfg.Stores[i].Domain)
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Scan.OrderWindow <= 0 || c.Scan.PhoneWindow <= 0 {
		return fmt.Errorf("scan windows must be positive durations")
	}
	if c.Scan.MaxBarcodeDigits <= 0 {
		return fmt.Errorf("scan.max_barcode_digits must be positive")
	}
	if c.Scan.PhoneCountryCode != "" {
		for _, r := range c.Scan.PhoneCountryCode {
			if r < '0' || r > '9' {
				return fmt.Errorf("scan.phone_country_code must contain digits only")
			}
		}
	}

	for i := range c.Stores {
		if err := c.Stores[i].Validate(); err != nil {
			return err
		}
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
