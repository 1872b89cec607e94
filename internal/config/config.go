// Package config loads runtime settings from defaults, an env file, the process
// environment, and explicit overrides.
package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = "env.local"
	defaultPort            = "8080"
	defaultEnvironment     = "local"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultCMSTimeout      = 5 * time.Second
	defaultRelayURL        = "https://formspree.io/f/xykeopzb"
	defaultRelayTimeout    = 10 * time.Second
	defaultRelayPerSecond  = 2
	defaultShopURL         = "https://www.etsy.com/jp/shop/SARAOBIPRODUCTS"
	defaultLogLevel        = "info"
	productionEnvironment  = "production"
	minCookieHashKeyLength = 32
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	CMS     CMSConfig
	Contact ContactConfig
	Cookies CookieConfig
	Site    SiteConfig
	Log     LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	Environment  string
	Dev          bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CMSConfig holds content store credentials. Empty credentials are allowed and
// put the site into its "not configured" state.
type CMSConfig struct {
	ServiceDomain string
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// Configured reports whether both credentials are present.
func (c CMSConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" &&
		(strings.TrimSpace(c.ServiceDomain) != "" || strings.TrimSpace(c.BaseURL) != "")
}

// ContactConfig points at the form relay.
type ContactConfig struct {
	RelayURL  string
	Timeout   time.Duration
	PerSecond int
}

// CookieConfig holds securecookie keys. Local runs may leave them empty and
// get per-process random keys.
type CookieConfig struct {
	HashKey  string
	BlockKey string
	Secure   bool
}

// SiteConfig carries brand-level settings.
type SiteConfig struct {
	ShopURL           string
	GAMeasurementID   string
	NegotiateLanguage bool
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string
}

// IsProduction reports whether the server runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, productionEnvironment)
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the offending field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises loader behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects values that take precedence over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration. Precedence, lowest first: defaults, env
// file, process environment, explicit map.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	env := stringWithDefault(lookup, "SARAOBI_WEB_ENV", defaultEnvironment)
	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "SARAOBI_WEB_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			Environment:  env,
			Dev:          boolWithDefault(lookup, "SARAOBI_WEB_DEV", false),
			ReadTimeout:  durationWithDefault(lookup, "SARAOBI_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SARAOBI_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SARAOBI_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		CMS: CMSConfig{
			ServiceDomain: strings.TrimSpace(stringWithDefault(lookup, "MICROCMS_SERVICE_DOMAIN", "")),
			APIKey:        strings.TrimSpace(stringWithDefault(lookup, "MICROCMS_API_KEY", "")),
			BaseURL:       strings.TrimSpace(stringWithDefault(lookup, "MICROCMS_BASE_URL", "")),
			Timeout:       durationWithDefault(lookup, "MICROCMS_TIMEOUT", defaultCMSTimeout),
			CacheTTL:      durationWithDefault(lookup, "MICROCMS_CACHE_TTL", 0),
		},
		Contact: ContactConfig{
			RelayURL:  strings.TrimSpace(stringWithDefault(lookup, "CONTACT_RELAY_URL", defaultRelayURL)),
			Timeout:   durationWithDefault(lookup, "CONTACT_RELAY_TIMEOUT", defaultRelayTimeout),
			PerSecond: intWithDefault(lookup, "CONTACT_RELAY_PER_SECOND", defaultRelayPerSecond),
		},
		Cookies: CookieConfig{
			HashKey:  stringWithDefault(lookup, "SARAOBI_WEB_COOKIE_HASH_KEY", ""),
			BlockKey: stringWithDefault(lookup, "SARAOBI_WEB_COOKIE_BLOCK_KEY", ""),
			Secure:   boolWithDefault(lookup, "SARAOBI_WEB_COOKIE_SECURE", strings.EqualFold(env, productionEnvironment)),
		},
		Site: SiteConfig{
			ShopURL:           strings.TrimSpace(stringWithDefault(lookup, "SARAOBI_WEB_SHOP_URL", defaultShopURL)),
			GAMeasurementID:   strings.TrimSpace(stringWithDefault(lookup, "SARAOBI_WEB_GA_MEASUREMENT_ID", "")),
			NegotiateLanguage: boolWithDefault(lookup, "LANG_NEGOTIATE", false),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if cfg.Server.IdleTimeout <= 0 {
		missing = append(missing, "Server.IdleTimeout")
	}
	if cfg.CMS.Timeout <= 0 {
		missing = append(missing, "CMS.Timeout")
	}
	if cfg.CMS.CacheTTL < 0 {
		missing = append(missing, "CMS.CacheTTL")
	}
	if cfg.CMS.BaseURL != "" && !isHTTPURL(cfg.CMS.BaseURL) {
		missing = append(missing, "CMS.BaseURL")
	}
	if cfg.Contact.RelayURL != "" && !isHTTPURL(cfg.Contact.RelayURL) {
		missing = append(missing, "Contact.RelayURL")
	}
	if cfg.Contact.Timeout <= 0 {
		missing = append(missing, "Contact.Timeout")
	}
	if cfg.Contact.PerSecond <= 0 {
		missing = append(missing, "Contact.PerSecond")
	}
	if cfg.Site.ShopURL != "" && !isHTTPURL(cfg.Site.ShopURL) {
		missing = append(missing, "Site.ShopURL")
	}
	if cfg.IsProduction() && len(cfg.Cookies.HashKey) < minCookieHashKeyLength {
		missing = append(missing, "Cookies.HashKey")
	}
	if n := len(cfg.Cookies.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		missing = append(missing, "Cookies.BlockKey")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
