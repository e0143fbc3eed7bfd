package config

import (
	"github.com/spf13/pflag"
)

const (
	flagAPIURL       = "api-url"
	flagTimeout      = "timeout"
	flagData         = "data"
	flagConfig       = "config"
	flagPageSize     = "page-size"
	flagLogLevel     = "log-level"
	flagRemoteDelete = "remote-delete"
	flagMaxImageSide = "max-image-side"
)

// RegisterFlags declares the configuration flags on fs. Defaults shown in
// help come from LoadDefaults; only flags the user actually set override
// the file and the environment.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagAPIURL, "a", d.APIBaseURL, "base URL of the screening service")
	fs.DurationP(flagTimeout, "t", d.RequestTimeout, "per-request timeout")
	fs.StringP(flagData, "d", d.DataPath, "path of the local session database")
	fs.StringP(flagConfig, "c", "", "config file (.json, .yaml, .yml or .toml)")
	fs.Int(flagPageSize, d.PageSize, "history page size")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.Bool(flagRemoteDelete, d.RemoteDelete, "delete scans on the server as well as locally")
	fs.Int(flagMaxImageSide, d.MaxImageSide, "shrink photos whose longer side exceeds this many pixels (0 = never)")
}

// parseFlags overlays cfg with the flags in fs that were set explicitly.
func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(flagAPIURL) {
		if cfg.APIBaseURL, err = fs.GetString(flagAPIURL); err != nil {
			return err
		}
	}
	if fs.Changed(flagTimeout) {
		if cfg.RequestTimeout, err = fs.GetDuration(flagTimeout); err != nil {
			return err
		}
	}
	if fs.Changed(flagData) {
		if cfg.DataPath, err = fs.GetString(flagData); err != nil {
			return err
		}
	}
	if fs.Changed(flagPageSize) {
		if cfg.PageSize, err = fs.GetInt(flagPageSize); err != nil {
			return err
		}
	}
	if fs.Changed(flagLogLevel) {
		if cfg.LogLevel, err = fs.GetString(flagLogLevel); err != nil {
			return err
		}
	}
	if fs.Changed(flagRemoteDelete) {
		if cfg.RemoteDelete, err = fs.GetBool(flagRemoteDelete); err != nil {
			return err
		}
	}
	if fs.Changed(flagMaxImageSide) {
		if cfg.MaxImageSide, err = fs.GetInt(flagMaxImageSide); err != nil {
			return err
		}
	}
	return nil
}
