// Package config loads, normalizes, and validates the likeness configuration
// file. Defaults are applied before the TOML file is decoded, so a minimal
// file only needs the registry contract and the list endpoint.
package config
