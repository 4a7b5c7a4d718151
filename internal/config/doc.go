// Package config loads and validates trailquiz configuration.
//
// Configuration comes from a TOML file (~/.config/trailquiz/config.toml by
// default, with a project-local trailquiz.toml fallback). Load applies
// defaults, expands paths, and validates before returning; nothing else in the
// repository reads configuration files directly.
package config
