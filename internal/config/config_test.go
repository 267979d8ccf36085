package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"likeness/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
[registry]
rpc_url = "https://rpc.example.net"
contract_address = "0x0123456789abcdef0123456789abcdef01234567"

[list]
endpoint = "https://lists.example.net/membership.json"
`

func TestLoadAppliesDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := writeConfig(t, minimalConfig)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	if cfg.References.Threshold != 5 {
		t.Fatalf("unexpected default threshold: %d", cfg.References.Threshold)
	}
	if cfg.References.HashWidth != 16 || cfg.References.HashHeight != 16 {
		t.Fatalf("unexpected hash dimensions: %dx%d", cfg.References.HashWidth, cfg.References.HashHeight)
	}
	if cfg.Runner.Workers != 4 {
		t.Fatalf("unexpected default workers: %d", cfg.Runner.Workers)
	}
	wantCache := filepath.Join(tempHome, ".local", "share", "likeness", "cache", "images")
	if cfg.Paths.ImageCacheDir != wantCache {
		t.Fatalf("unexpected image cache dir: got %q want %q", cfg.Paths.ImageCacheDir, wantCache)
	}
	if !strings.HasSuffix(cfg.Metadata.IPFSGateway, "/") {
		t.Fatalf("expected gateway with trailing slash, got %q", cfg.Metadata.IPFSGateway)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsMissingRegistry(t *testing.T) {
	path := writeConfig(t, `
[list]
endpoint = "https://lists.example.net/membership.json"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for missing registry settings")
	}
}

func TestLoadRejectsMalformedContractAddress(t *testing.T) {
	path := writeConfig(t, `
[registry]
rpc_url = "https://rpc.example.net"
contract_address = "0xnothex"

[list]
endpoint = "https://lists.example.net/membership.json"
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for malformed contract address")
	}
	if !strings.Contains(err.Error(), "contract_address") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsNegativeThreshold(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
[references]
threshold = -1
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}

func TestLoadNormalizesContractCase(t *testing.T) {
	path := writeConfig(t, `
[registry]
rpc_url = "https://rpc.example.net"
contract_address = "0x0123456789ABCDEF0123456789abcdef01234567"

[list]
endpoint = "https://lists.example.net/membership.json"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Registry.ContractAddress != "0x0123456789abcdef0123456789abcdef01234567" {
		t.Fatalf("expected lowercased address, got %q", cfg.Registry.ContractAddress)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, config.SampleConfig())
	// The sample leaves registry and list unset, so Load must fail validation
	// but not parsing.
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for sample config")
	}
	if strings.Contains(err.Error(), "parse config") {
		t.Fatalf("sample config failed to parse: %v", err)
	}
}
