package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRegistry()
	c.normalizeMetadata()
	c.normalizeList()
	c.normalizeRunner()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.References.Path, err = expandPath(c.References.Path); err != nil {
		return fmt.Errorf("references.path: %w", err)
	}
	if c.Paths.ImageCacheDir, err = expandPath(c.Paths.ImageCacheDir); err != nil {
		return fmt.Errorf("paths.image_cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeRegistry() {
	c.Registry.RPCURL = strings.TrimSpace(c.Registry.RPCURL)
	c.Registry.ContractAddress = strings.ToLower(strings.TrimSpace(c.Registry.ContractAddress))
	if c.Registry.RequestTimeout <= 0 {
		c.Registry.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.IPFSGateway = strings.TrimSpace(c.Metadata.IPFSGateway)
	if c.Metadata.IPFSGateway == "" {
		c.Metadata.IPFSGateway = defaultIPFSGateway
	}
	if !strings.HasSuffix(c.Metadata.IPFSGateway, "/") {
		c.Metadata.IPFSGateway += "/"
	}
	if c.Metadata.RequestTimeout <= 0 {
		c.Metadata.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeList() {
	c.List.Endpoint = strings.TrimSpace(c.List.Endpoint)
	c.List.AuthToken = strings.TrimSpace(c.List.AuthToken)
	if c.List.RequestTimeout <= 0 {
		c.List.RequestTimeout = defaultListRequestTimeout
	}
}

func (c *Config) normalizeRunner() {
	if c.Runner.Workers <= 0 {
		c.Runner.Workers = defaultWorkers
	}
	if c.Runner.IntervalSeconds <= 0 {
		c.Runner.IntervalSeconds = defaultIntervalSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
