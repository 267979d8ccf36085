package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliEnv struct {
	configPath  string
	refsPath    string
	historyPath string
	dir         string
}

func setupCLITestEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	refsPath := filepath.Join(dir, "references.json")
	configPath := filepath.Join(dir, "config.toml")
	historyPath := filepath.Join(dir, "history.db")

	body := fmt.Sprintf(`[registry]
rpc_url = "https://rpc.example.net"
contract_address = "0x00000000000000000000000000000000deadbeef"

[references]
path = %q

[list]
endpoint = "https://list.example.net/members.json"

[paths]
image_cache_dir = %q
log_dir = %q
history_db = %q
lock_file = %q
`,
		refsPath,
		filepath.Join(dir, "cache"),
		filepath.Join(dir, "logs"),
		historyPath,
		filepath.Join(dir, "likeness.lock"),
	)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cliEnv{configPath: configPath, refsPath: refsPath, historyPath: historyPath, dir: dir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestExecuteExitCodes(t *testing.T) {
	restore := os.Args
	defer func() { os.Args = restore }()

	os.Args = []string{"likeness", "version"}
	if code := execute(); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	os.Args = []string{"likeness", "no-such-command"}
	if code := execute(); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "likeness")
}

func TestRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "Usage:")
}
