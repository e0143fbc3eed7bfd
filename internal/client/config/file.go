package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for file decoding. Pointer fields
// tell "absent" apart from zero values so only present keys override.
type FileConfig struct {
	APIBaseURL     *string   `json:"api_url" yaml:"api_url" toml:"api_url"`
	RequestTimeout *Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	DataPath       *string   `json:"data_path" yaml:"data_path" toml:"data_path"`
	PageSize       *int      `json:"page_size" yaml:"page_size" toml:"page_size"`
	LogLevel       *string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	RemoteDelete   *bool     `json:"remote_delete" yaml:"remote_delete" toml:"remote_delete"`
	MaxImageSide   *int      `json:"max_image_side" yaml:"max_image_side" toml:"max_image_side"`
}

func decodeFile(path string, data []byte) (FileConfig, error) {
	var fc FileConfig
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fc, fmt.Errorf("config file %s: unsupported extension %q (want .json, .yaml, .yml or .toml)", path, ext)
	}
	if err != nil {
		return fc, fmt.Errorf("config file %s: %w", path, err)
	}
	return fc, nil
}

// parseFile overlays cfg with the keys present in the file at path.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		return err
	}

	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DataPath != nil {
		cfg.DataPath = *fc.DataPath
	}
	if fc.PageSize != nil {
		cfg.PageSize = *fc.PageSize
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.RemoteDelete != nil {
		cfg.RemoteDelete = *fc.RemoteDelete
	}
	if fc.MaxImageSide != nil {
		cfg.MaxImageSide = *fc.MaxImageSide
	}
	return nil
}
