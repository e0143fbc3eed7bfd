package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	envConfig       = "SKINCHECK_CONFIG"
	envAPIURL       = "SKINCHECK_API_URL"
	envTimeout      = "SKINCHECK_TIMEOUT"
	envData         = "SKINCHECK_DATA"
	envPageSize     = "SKINCHECK_PAGE_SIZE"
	envLogLevel     = "SKINCHECK_LOG_LEVEL"
	envRemoteDelete = "SKINCHECK_REMOTE_DELETE"
	envMaxImageSide = "SKINCHECK_MAX_IMAGE_SIDE"
)

type environment struct {
	lookup   func(string) (string, bool)
	dotEnv   []string
	loadFile func(...string) error
}

func defaultEnv() environment {
	return environment{lookup: os.LookupEnv, dotEnv: []string{".env"}, loadFile: godotenv.Load}
}

func (e environment) get(key string) string {
	v, _ := e.lookup(key)
	return v
}

// loadDotEnv merges .env files into the process environment. godotenv.Load
// never overrides variables that are already set. A missing file is fine.
func (e environment) loadDotEnv() error {
	for _, p := range e.dotEnv {
		if err := e.loadFile(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func parseEnv(cfg *Config, env environment) error {
	if v, ok := env.lookup(envAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := env.lookup(envTimeout); ok && v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := env.lookup(envData); ok && v != "" {
		cfg.DataPath = v
	}
	if v, ok := env.lookup(envPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPageSize, err)
		}
		cfg.PageSize = n
	}
	if v, ok := env.lookup(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := env.lookup(envRemoteDelete); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envRemoteDelete, err)
		}
		cfg.RemoteDelete = b
	}
	if v, ok := env.lookup(envMaxImageSide); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envMaxImageSide, err)
		}
		cfg.MaxImageSide = n
	}
	return nil
}
