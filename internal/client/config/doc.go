// Package config loads runtime configuration for the skincheck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config or SKINCHECK_CONFIG.
//     The format follows the extension: .json, .yaml/.yml or .toml.
//  3. Environment variables (SKINCHECK_*). A .env file in the working
//     directory is loaded first; variables already set win over it.
//  4. Command-line flags that were set explicitly.
//
// Supported flags
//
//	-a, --api-url string       base URL of the screening service
//	-t, --timeout duration     per-request timeout
//	-d, --data string          path of the local session database
//	-c, --config string        config file
//	    --page-size int        history page size
//	    --log-level string     debug, info, warn or error
//	    --remote-delete        delete scans on the server too
//	    --max-image-side int   shrink photos above this size (0 = never)
//
// File schema
//
// Durations are either strings like "30s" or integer seconds:
//
//	api_url: https://arif194-skincheck.hf.space
//	request_timeout: 30s
//	data_path: /home/me/.config/skincheck/skincheck.db
//	page_size: 10
//	log_level: info
//	remote_delete: false
//	max_image_side: 1024
package config
