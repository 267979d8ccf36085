package main

import (
	"testing"
)

func TestEnsureLoggerReturnsSameInstance(t *testing.T) {
	// Watch mode drives the run path repeatedly; the logger and its backing
	// log file must be opened once, not once per run.
	env := setupCLITestEnv(t)
	configFlag := env.configPath
	ctx := newCommandContext(&configFlag)

	first, err := ctx.ensureLogger()
	if err != nil {
		t.Fatalf("ensureLogger: %v", err)
	}
	second, err := ctx.ensureLogger()
	if err != nil {
		t.Fatalf("ensureLogger second call: %v", err)
	}
	if first != second {
		t.Fatal("expected repeated ensureLogger calls to reuse the logger")
	}
}

func TestEnsureConfigResolvesOnce(t *testing.T) {
	env := setupCLITestEnv(t)
	configFlag := env.configPath
	ctx := newCommandContext(&configFlag)

	first, err := ctx.ensureConfig()
	if err != nil {
		t.Fatalf("ensureConfig: %v", err)
	}
	second, err := ctx.ensureConfig()
	if err != nil {
		t.Fatalf("ensureConfig second call: %v", err)
	}
	if first != second {
		t.Fatal("expected repeated ensureConfig calls to reuse the config")
	}
}
