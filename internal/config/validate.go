package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateReferences(); err != nil {
		return err
	}
	if err := c.validateList(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRegistry() error {
	if c.Registry.RPCURL == "" {
		return errors.New("registry.rpc_url must be set (create a config with 'likeness config new')")
	}
	addr := c.Registry.ContractAddress
	if addr == "" {
		return errors.New("registry.contract_address must be set")
	}
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return fmt.Errorf("registry.contract_address %q is not a 0x-prefixed 20-byte address", addr)
	}
	for _, r := range addr[2:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fmt.Errorf("registry.contract_address %q contains non-hex characters", addr)
		}
	}
	return nil
}

func (c *Config) validateReferences() error {
	if strings.TrimSpace(c.References.Path) == "" {
		return errors.New("references.path must be set")
	}
	if c.References.Threshold < 0 {
		return errors.New("references.threshold must be non-negative")
	}
	if c.References.HashWidth <= 0 || c.References.HashHeight <= 0 {
		return errors.New("references.hash_width and references.hash_height must be positive")
	}
	if (c.References.HashWidth*c.References.HashHeight)%8 != 0 {
		return errors.New("references.hash_width * references.hash_height must be a multiple of 8")
	}
	return nil
}

func (c *Config) validateList() error {
	if c.List.Endpoint == "" {
		return errors.New("list.endpoint must be set")
	}
	if !strings.HasPrefix(c.List.Endpoint, "http://") && !strings.HasPrefix(c.List.Endpoint, "https://") {
		return fmt.Errorf("list.endpoint %q must be an http(s) URL", c.List.Endpoint)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
