package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/filex"
	"github.com/dmitrijs2005/skincheck/internal/logging"
	"github.com/spf13/pflag"
)

const (
	AppName = "skincheck"

	DefaultAPIBaseURL     = "https://arif194-skincheck.hf.space"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageSize       = 10
	DefaultLogLevel       = "info"
	defaultDataFile       = "skincheck.db"
)

// Config holds runtime settings for the skincheck CLI.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataPath       string
	PageSize       int
	LogLevel       string
	RemoteDelete   bool
	MaxImageSide   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.DataPath = filex.DefaultDataPath(AppName, defaultDataFile)
	c.PageSize = DefaultPageSize
	c.LogLevel = DefaultLogLevel
	c.RemoteDelete = false
	c.MaxImageSide = 0
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIBaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.DataPath == "" {
		errs = append(errs, errors.New("data path must not be empty"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxImageSide < 0 {
		errs = append(errs, fmt.Errorf("max image side must not be negative, got %d", c.MaxImageSide))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, the config file, the environment and
// the flags in fs that were set explicitly. fs must have been prepared with
// RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	return load(fs, defaultEnv())
}

func load(fs *pflag.FlagSet, env environment) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := env.loadDotEnv(); err != nil {
		return nil, err
	}

	path := env.get(envConfig)
	if fs != nil && fs.Changed(flagConfig) {
		path, _ = fs.GetString(flagConfig)
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, env); err != nil {
		return nil, err
	}

	if fs != nil {
		if err := parseFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
