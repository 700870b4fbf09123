// Package testutil provides utilities for testing lsprov in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// lsprovEnvVars are cleared so a developer's own settings never leak into tests.
var lsprovEnvVars = []string{
	"LSPROV_CACHE_DIR",
	"LSPROV_GITHUB_API",
	"LSPROV_GITHUB_TOKEN",
	"LSPROV_KEYRING",
	"LSPROV_EXTENSION",
	"LSPROV_HTTP_TIMEOUT",
	"GITHUB_TOKEN",
}

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Root      string
	ConfigDir string // XDG_CONFIG_HOME
	CacheDir  string // XDG_CACHE_HOME
	BinDir    string // sole PATH entry
}

// SetupTestEnv creates isolated test directories for each test and points
// the XDG base directories and PATH at them. This ensures tests never
// interfere with:
// - a language server installed on the machine
// - the user's lsprov settings and cache
//
// Cleanup is handled by t.TempDir and t.Setenv, so tests using it cannot run
// in parallel.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Root:      tmpDir,
		ConfigDir: filepath.Join(tmpDir, "config"),
		CacheDir:  filepath.Join(tmpDir, "cache"),
		BinDir:    filepath.Join(tmpDir, "bin"),
	}

	for _, dir := range []string{env.ConfigDir, env.CacheDir, env.BinDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	for _, name := range lsprovEnvVars {
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("failed to unset %s: %v", name, err)
		}
	}

	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("XDG_CACHE_HOME", env.CacheDir)
	t.Setenv("PATH", env.BinDir)

	return env
}

// WriteExecutable creates an executable file called name in dir and returns
// its path. On Windows ".exe" is appended so exec.LookPath finds it.
func WriteExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("failed to write executable %s: %v", path, err)
	}
	return path
}
