package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Registry contains configuration for the on-chain collection registry.
type Registry struct {
	RPCURL          string `toml:"rpc_url"`
	ContractAddress string `toml:"contract_address"`
	RequestTimeout  int    `toml:"request_timeout"`
}

// Metadata contains configuration for token metadata resolution.
type Metadata struct {
	IPFSGateway    string `toml:"ipfs_gateway"`
	RequestTimeout int    `toml:"request_timeout"`
}

// References contains configuration for the reference signature store.
type References struct {
	Path       string `toml:"path"`
	Threshold  int    `toml:"threshold"`
	HashWidth  int    `toml:"hash_width"`
	HashHeight int    `toml:"hash_height"`
}

// List contains configuration for the published membership document.
type List struct {
	Endpoint       string `toml:"endpoint"`
	AuthToken      string `toml:"auth_token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Paths contains directory and file locations.
type Paths struct {
	ImageCacheDir string `toml:"image_cache_dir"`
	LogDir        string `toml:"log_dir"`
	HistoryDB     string `toml:"history_db"`
	LockFile      string `toml:"lock_file"`
}

// Runner contains run scheduling and parallelism settings.
type Runner struct {
	Workers         int `toml:"workers"`
	IntervalSeconds int `toml:"interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for likeness.
type Config struct {
	Registry   Registry   `toml:"registry"`
	Metadata   Metadata   `toml:"metadata"`
	References References `toml:"references"`
	List       List       `toml:"list"`
	Paths      Paths      `toml:"paths"`
	Runner     Runner     `toml:"runner"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/likeness/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("likeness.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs. The image cache is
// created on a best-effort basis so a run can proceed when caching storage is
// unavailable.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ImageCacheDir) != "" {
		_ = os.MkdirAll(c.Paths.ImageCacheDir, 0o755)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.HistoryDB), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LockFile) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.LockFile), 0o755); err != nil {
			return fmt.Errorf("create lock directory: %w", err)
		}
	}
	return nil
}

// ExpandPath resolves ~ prefixes and relative paths to absolute paths.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
